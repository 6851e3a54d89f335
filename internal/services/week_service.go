// Package services orchestrates the cashbook use cases over the ledger
// repository, the change broker, and the caches. Services keep no state of
// their own; every operation reloads from the store and recomputes.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"caja/internal/amqp"
	"caja/internal/cache"
	"caja/internal/core"
	"caja/internal/csvio"
	"caja/internal/docstore"
	"caja/internal/ledger"
)

var ErrNotFound = errors.New("not found")

const totalsCacheKey = "weekTotals"

// WeekService owns all mutations of the current week and the trash history.
type WeekService struct {
	repo        *ledger.Repository
	amqpClient  *amqp.Client
	totalsCache cache.Cache[core.WeekTotals]
}

// NewWeekService creates the service. amqpClient and totalsCache may be nil;
// change events and caching are then skipped.
func NewWeekService(repo *ledger.Repository, amqpClient *amqp.Client, totalsCache cache.Cache[core.WeekTotals]) *WeekService {
	return &WeekService{
		repo:        repo,
		amqpClient:  amqpClient,
		totalsCache: totalsCache,
	}
}

// Week returns the current week together with its computed totals.
func (s *WeekService) Week(ctx context.Context) (core.WeekPeriod, core.WeekTotals, error) {
	week, err := s.repo.LoadWeek(ctx)
	if err != nil {
		return core.WeekPeriod{}, core.WeekTotals{}, err
	}

	if s.totalsCache != nil {
		if totals, ok := s.totalsCache.Get(totalsCacheKey); ok {
			return week, totals, nil
		}
	}

	totals := core.ComputeWeek(week, 0)
	if s.totalsCache != nil {
		s.totalsCache.Set(totalsCacheKey, totals)
	}
	return week, totals, nil
}

// AddTransaction appends a new transaction to the given day and list.
func (s *WeekService) AddTransaction(ctx context.Context, dayID core.DayID, kind core.ListKind, title string, amount float64) (core.Transaction, error) {
	if !dayID.Valid() {
		return core.Transaction{}, core.ErrUnknownDay
	}
	if !kind.Valid() {
		return core.Transaction{}, core.ErrUnknownList
	}

	week, err := s.repo.LoadWeek(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{ID: core.NewID(), Title: title, Amount: amount}
	day := week.Day(dayID)
	day = day.WithList(kind, append(day.List(kind), tx))

	if err := s.saveWeek(ctx, week.SetDay(dayID, day)); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// UpdateTransaction edits an existing transaction in place.
func (s *WeekService) UpdateTransaction(ctx context.Context, dayID core.DayID, kind core.ListKind, id, title string, amount float64) (core.Transaction, error) {
	if !dayID.Valid() {
		return core.Transaction{}, core.ErrUnknownDay
	}
	if !kind.Valid() {
		return core.Transaction{}, core.ErrUnknownList
	}

	week, err := s.repo.LoadWeek(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	day := week.Day(dayID)
	list := day.List(kind)
	updated := core.Transaction{}
	found := false
	next := make([]core.Transaction, len(list))
	for i, tx := range list {
		if tx.ID == id {
			tx.Title = title
			tx.Amount = amount
			updated = tx
			found = true
		}
		next[i] = tx
	}
	if !found {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	if err := s.saveWeek(ctx, week.SetDay(dayID, day.WithList(kind, next))); err != nil {
		return core.Transaction{}, err
	}
	return updated, nil
}

// DeleteTransaction moves a transaction into the trash history.
func (s *WeekService) DeleteTransaction(ctx context.Context, dayID core.DayID, kind core.ListKind, id string) error {
	if !dayID.Valid() {
		return core.ErrUnknownDay
	}
	if !kind.Valid() {
		return core.ErrUnknownList
	}

	week, err := s.repo.LoadWeek(ctx)
	if err != nil {
		return err
	}

	day, item, ok := core.RemoveTransaction(dayID, week.Day(dayID), kind, id, time.Now().UTC())
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	history, err := s.repo.LoadHistory(ctx)
	if err != nil {
		return err
	}

	if err := s.saveWeek(ctx, week.SetDay(dayID, day)); err != nil {
		return err
	}
	if err := s.saveHistory(ctx, append(history, item)); err != nil {
		return err
	}
	return nil
}

// SetOpening replaces the day's manual opening overrides. A nil pointer
// clears the corresponding override; the treasury override is only honored
// on Monday.
func (s *WeekService) SetOpening(ctx context.Context, dayID core.DayID, office, treasury *float64) error {
	if !dayID.Valid() {
		return core.ErrUnknownDay
	}
	if treasury != nil && dayID != core.Monday {
		return fmt.Errorf("treasury opening is only meaningful on monday: %w", core.ErrUnknownDay)
	}

	week, err := s.repo.LoadWeek(ctx)
	if err != nil {
		return err
	}

	day := week.Day(dayID)
	day.ManualInitialAmount = office
	day.InitialBoxAmount = treasury
	return s.saveWeek(ctx, week.SetDay(dayID, day))
}

// History returns the trash list, oldest first.
func (s *WeekService) History(ctx context.Context) ([]core.HistoryItem, error) {
	return s.repo.LoadHistory(ctx)
}

// RestoreTransaction moves a trashed transaction back to the end of its
// original list.
func (s *WeekService) RestoreTransaction(ctx context.Context, id string) error {
	history, err := s.repo.LoadHistory(ctx)
	if err != nil {
		return err
	}

	remaining, item, ok := core.RemoveHistoryItem(history, id)
	if !ok {
		return fmt.Errorf("history item %s: %w", id, ErrNotFound)
	}

	week, err := s.repo.LoadWeek(ctx)
	if err != nil {
		return err
	}

	restored, ok := core.RestoreTransaction(week, item)
	if !ok {
		return fmt.Errorf("history item %s has an invalid origin: %w", id, ErrNotFound)
	}

	if err := s.saveWeek(ctx, restored); err != nil {
		return err
	}
	return s.saveHistory(ctx, remaining)
}

// ResetWeek clears the week and permanently purges the trash history.
func (s *WeekService) ResetWeek(ctx context.Context) error {
	if err := s.repo.ResetWeek(ctx); err != nil {
		return err
	}
	s.invalidate()
	s.publishChange(ctx, docstore.WeekPath)
	return nil
}

// ExportCSV renders the week and history in the interchange schema.
func (s *WeekService) ExportCSV(ctx context.Context) ([]byte, error) {
	week, err := s.repo.LoadWeek(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	return csvio.Export(week, history)
}

// ImportCSV replaces the week and history with parsed interchange data.
func (s *WeekService) ImportCSV(ctx context.Context, data []byte) error {
	week, history, err := csvio.Parse(data)
	if err != nil {
		return fmt.Errorf("import csv: %w", err)
	}
	if err := s.saveWeek(ctx, week); err != nil {
		return err
	}
	return s.saveHistory(ctx, history)
}

func (s *WeekService) saveWeek(ctx context.Context, week core.WeekPeriod) error {
	if err := s.repo.SaveWeek(ctx, week); err != nil {
		return err
	}
	s.invalidate()
	s.publishChange(ctx, docstore.WeekPath)
	return nil
}

func (s *WeekService) saveHistory(ctx context.Context, history []core.HistoryItem) error {
	if err := s.repo.SaveHistory(ctx, history); err != nil {
		return err
	}
	s.publishChange(ctx, docstore.HistoryPath)
	return nil
}

func (s *WeekService) invalidate() {
	if s.totalsCache != nil {
		s.totalsCache.Delete(totalsCacheKey)
	}
}

// publishChange is best effort. A broker outage must not fail the write;
// the worker re-exports on startup to recover missed events.
func (s *WeekService) publishChange(ctx context.Context, path string) {
	if s.amqpClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.amqpClient.PublishDocumentChanged(ctx, path); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change event",
			"path", path, "error", err)
	}
}
