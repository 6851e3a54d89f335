// Package ledger is the typed persistence layer of the cashbook. It maps the
// domain types onto JSON documents in a docstore.Store and owns the path and
// date conventions of the stored data.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caja/internal/core"
	"caja/internal/docstore"
)

// DateLayout is the ISO date form used in delivery snapshot paths.
const DateLayout = "2006-01-02"

// DefaultLookbackDays bounds how far LookupPriorSnapshot scans into the past.
const DefaultLookbackDays = 90

type Repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Store exposes the underlying document store for callers that need raw
// access, such as the rollover archiver.
func (r *Repository) Store() docstore.Store {
	return r.store
}

// LoadWeek returns the current week ledger. An absent document is an empty
// week.
func (r *Repository) LoadWeek(ctx context.Context) (core.WeekPeriod, error) {
	doc, err := r.store.Get(ctx, docstore.WeekPath)
	if err != nil {
		return core.WeekPeriod{}, fmt.Errorf("load week: %w", err)
	}
	if doc == nil {
		return core.WeekPeriod{}, nil
	}

	var week core.WeekPeriod
	if err := json.Unmarshal(doc, &week); err != nil {
		return core.WeekPeriod{}, fmt.Errorf("decode week: %w", err)
	}
	return week, nil
}

func (r *Repository) SaveWeek(ctx context.Context, week core.WeekPeriod) error {
	doc, err := json.Marshal(week)
	if err != nil {
		return fmt.Errorf("encode week: %w", err)
	}
	if err := r.store.Put(ctx, docstore.WeekPath, doc); err != nil {
		return fmt.Errorf("save week: %w", err)
	}
	return nil
}

// LoadHistory returns the deleted-transaction history, oldest first. An
// absent document is an empty history.
func (r *Repository) LoadHistory(ctx context.Context) ([]core.HistoryItem, error) {
	doc, err := r.store.Get(ctx, docstore.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	var history []core.HistoryItem
	if err := json.Unmarshal(doc, &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}

func (r *Repository) SaveHistory(ctx context.Context, history []core.HistoryItem) error {
	if history == nil {
		history = []core.HistoryItem{}
	}
	doc, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := r.store.Put(ctx, docstore.HistoryPath, doc); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// LoadDeliveryDay returns the delivery snapshot for a zone and date, or nil
// when no snapshot exists for that day.
func (r *Repository) LoadDeliveryDay(ctx context.Context, zone, date string) ([]core.DeliveryRow, error) {
	doc, err := r.store.Get(ctx, docstore.DeliveryPath(zone, date))
	if err != nil {
		return nil, fmt.Errorf("load deliveries %s/%s: %w", zone, date, err)
	}
	if doc == nil {
		return nil, nil
	}

	var rows []core.DeliveryRow
	if err := json.Unmarshal(doc, &rows); err != nil {
		return nil, fmt.Errorf("decode deliveries %s/%s: %w", zone, date, err)
	}
	return rows, nil
}

func (r *Repository) SaveDeliveryDay(ctx context.Context, zone, date string, rows []core.DeliveryRow) error {
	if rows == nil {
		rows = []core.DeliveryRow{}
	}
	doc, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode deliveries: %w", err)
	}
	if err := r.store.Put(ctx, docstore.DeliveryPath(zone, date), doc); err != nil {
		return fmt.Errorf("save deliveries %s/%s: %w", zone, date, err)
	}
	return nil
}

// LookupPriorSnapshot scans backward day by day from the day before the
// given date and returns the most recent delivery snapshot for the zone,
// together with the date it was found at. Gaps of missing days are skipped.
// The scan stops after lookbackDays days (DefaultLookbackDays when zero or
// negative); no snapshot within the window returns nil rows.
func (r *Repository) LookupPriorSnapshot(ctx context.Context, zone, before string, lookbackDays int) ([]core.DeliveryRow, string, error) {
	day, err := time.Parse(DateLayout, before)
	if err != nil {
		return nil, "", fmt.Errorf("parse date %q: %w", before, err)
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	for i := 1; i <= lookbackDays; i++ {
		date := day.AddDate(0, 0, -i).Format(DateLayout)
		rows, err := r.LoadDeliveryDay(ctx, zone, date)
		if err != nil {
			return nil, "", err
		}
		if rows != nil {
			return rows, date, nil
		}
	}
	return nil, "", nil
}

// ResetWeek clears the current week and the deleted-transaction history.
// Delivery snapshots are untouched; they belong to their own timeline.
func (r *Repository) ResetWeek(ctx context.Context) error {
	if err := r.store.Delete(ctx, docstore.WeekPath); err != nil {
		return fmt.Errorf("reset week: %w", err)
	}
	if err := r.store.Delete(ctx, docstore.HistoryPath); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	return nil
}
