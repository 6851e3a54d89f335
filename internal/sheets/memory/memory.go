// Package memory provides an in-memory WeekMirror for development and tests.
package memory

import (
	"context"
	"sync"

	ports "caja/internal/sheets"
)

type Mirror struct {
	mu   sync.Mutex
	rows []ports.SummaryRow
}

var _ ports.WeekMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) AppendWeekSummary(_ context.Context, rows []ports.SummaryRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rows...)
	return nil
}

// Rows returns a copy of everything appended so far.
func (m *Mirror) Rows() []ports.SummaryRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.SummaryRow(nil), m.rows...)
}
