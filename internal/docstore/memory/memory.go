// Package memory provides an in-memory docstore.Store for development and
// tests.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

type Store struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage

	subMu   sync.Mutex
	nextSub int
	subs    map[string]map[int]func(json.RawMessage)
}

func New() *Store {
	return &Store{
		docs: make(map[string]json.RawMessage),
		subs: make(map[string]map[int]func(json.RawMessage)),
	}
}

func (s *Store) Get(_ context.Context, path string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	return append(json.RawMessage(nil), doc...), nil
}

func (s *Store) Put(_ context.Context, path string, doc json.RawMessage) error {
	stored := append(json.RawMessage(nil), doc...)

	s.mu.Lock()
	s.docs[path] = stored
	s.mu.Unlock()

	s.notify(path, stored)
	return nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()

	s.notify(path, nil)
	return nil
}

func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for path := range s.docs {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) Subscribe(path string, fn func(doc json.RawMessage)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	if s.subs[path] == nil {
		s.subs[path] = make(map[int]func(json.RawMessage))
	}
	s.subs[path][id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs[path], id)
	}
}

func (s *Store) notify(path string, doc json.RawMessage) {
	s.subMu.Lock()
	fns := make([]func(json.RawMessage), 0, len(s.subs[path]))
	for _, fn := range s.subs[path] {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(doc)
	}
}
