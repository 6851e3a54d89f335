package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"caja/internal/core"
	"caja/internal/docstore/memory"
	"caja/internal/ledger"
)

func TestWeeklyStrategy(t *testing.T) {
	s := WeeklyStrategy{}
	monday := time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC)

	if !s.IsDue(time.Time{}, monday) {
		t.Fatalf("first run must be due")
	}
	if s.IsDue(monday, monday.AddDate(0, 0, 3)) {
		t.Fatalf("same ISO week must not be due")
	}
	if !s.IsDue(monday, monday.AddDate(0, 0, 7)) {
		t.Fatalf("next ISO week must be due")
	}
	// Year boundary: 2026-12-28 and 2027-01-03 share ISO week 53.
	dec28 := time.Date(2026, 12, 28, 0, 0, 0, 0, time.UTC)
	jan03 := time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC)
	if s.IsDue(dec28, jan03) {
		t.Fatalf("same ISO week across a year boundary must not be due")
	}
}

func TestProcessRolloverArchivesAndSeeds(t *testing.T) {
	store := memory.New()
	repo := ledger.NewRepository(store)
	proc := NewRolloverProcessor(repo, WeeklyStrategy{})
	ctx := context.Background()

	week := core.WeekPeriod{}.SetDay(core.Saturday, core.DayLedger{
		Incomes: []core.Transaction{{ID: "a", Title: "Venta", Amount: 1000}},
		ToBox:   []core.Transaction{{ID: "b", Title: "deposito", Amount: 300}},
	})
	if err := repo.SaveWeek(ctx, week); err != nil {
		t.Fatalf("save week: %v", err)
	}
	if err := repo.SaveHistory(ctx, []core.HistoryItem{{Transaction: core.Transaction{ID: "h"}}}); err != nil {
		t.Fatalf("save history: %v", err)
	}

	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC) // Monday, ISO week 36
	done, err := proc.ProcessRollover(ctx, now)
	if err != nil || !done {
		t.Fatalf("rollover: done=%v err=%v", done, err)
	}

	// Carry: 1000 - 300 = 700. Treasury: plain addition 300.
	fresh, err := repo.LoadWeek(ctx)
	if err != nil {
		t.Fatalf("load week: %v", err)
	}
	monday := fresh.Day(core.Monday)
	if monday.ManualInitialAmount == nil || *monday.ManualInitialAmount != 700 {
		t.Fatalf("monday must open with the closed week's carry: %+v", monday)
	}
	if monday.InitialBoxAmount == nil || *monday.InitialBoxAmount != 300 {
		t.Fatalf("monday treasury must open with the closed week's treasury closing: %+v", monday)
	}

	history, err := repo.LoadHistory(ctx)
	if err != nil || len(history) != 0 {
		t.Fatalf("history must be purged on rollover: %+v %v", history, err)
	}

	paths, err := store.List(ctx, ArchivePrefix)
	if err != nil || len(paths) != 1 {
		t.Fatalf("expected one archive, got %v %v", paths, err)
	}
	doc, err := store.Get(ctx, paths[0])
	if err != nil {
		t.Fatalf("get archive: %v", err)
	}
	var archived weekArchive
	if err := json.Unmarshal(doc, &archived); err != nil {
		t.Fatalf("decode archive: %v", err)
	}
	if archived.Totals.ClosingCarry != 700 || len(archived.History) != 1 {
		t.Fatalf("archive incomplete: %+v", archived.Totals)
	}
}

func TestProcessRolloverIdempotentWithinWeek(t *testing.T) {
	repo := ledger.NewRepository(memory.New())
	proc := NewRolloverProcessor(repo, WeeklyStrategy{})
	ctx := context.Background()

	now := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	if done, err := proc.ProcessRollover(ctx, now); err != nil || !done {
		t.Fatalf("first run: done=%v err=%v", done, err)
	}
	if done, err := proc.ProcessRollover(ctx, now.Add(2*time.Hour)); err != nil || done {
		t.Fatalf("second run in the same week must be a no-op: done=%v err=%v", done, err)
	}
	if done, err := proc.ProcessRollover(ctx, now.AddDate(0, 0, 7)); err != nil || !done {
		t.Fatalf("next week must roll over again: done=%v err=%v", done, err)
	}
}
