package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"caja/internal/cache"
	"caja/internal/core"
	"caja/internal/docstore/memory"
	"caja/internal/ledger"
)

func newWeekService() (*WeekService, *ledger.Repository) {
	repo := ledger.NewRepository(memory.New())
	c := cache.NewLRUCache[core.WeekTotals](4, time.Minute)
	return NewWeekService(repo, nil, c), repo
}

func TestAddUpdateDeleteTransaction(t *testing.T) {
	svc, _ := newWeekService()
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, core.Monday, core.Incomes, "Venta", 500)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tx.ID == "" {
		t.Fatalf("transaction must get an id")
	}

	if _, err := svc.UpdateTransaction(ctx, core.Monday, core.Incomes, tx.ID, "Venta grande", 700); err != nil {
		t.Fatalf("update: %v", err)
	}

	week, totals, err := svc.Week(ctx)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	got := week.Day(core.Monday).Incomes
	if len(got) != 1 || got[0].Title != "Venta grande" || got[0].Amount != 700 {
		t.Fatalf("unexpected list after update: %+v", got)
	}
	if totals.Days[core.Monday].TotalIncome != 700 {
		t.Fatalf("totals must reflect the update: %+v", totals.Days[core.Monday])
	}

	if err := svc.DeleteTransaction(ctx, core.Monday, core.Incomes, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	history, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != tx.ID || history[0].OriginalType != core.Incomes {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	svc, _ := newWeekService()
	_, err := svc.UpdateTransaction(context.Background(), core.Monday, core.Incomes, "nope", "x", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTotalsCacheInvalidation(t *testing.T) {
	svc, _ := newWeekService()
	ctx := context.Background()

	if _, totals, err := svc.Week(ctx); err != nil || totals.ClosingCarry != 0 {
		t.Fatalf("empty week totals: %+v %v", totals, err)
	}

	if _, err := svc.AddTransaction(ctx, core.Tuesday, core.Incomes, "Venta", 300); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, totals, err := svc.Week(ctx)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if totals.ClosingCarry != 300 {
		t.Fatalf("stale totals after mutation: %+v", totals)
	}
}

func TestRestoreTransaction(t *testing.T) {
	svc, _ := newWeekService()
	ctx := context.Background()

	tx, err := svc.AddTransaction(ctx, core.Friday, core.Salaries, "Adelanto", 150)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, core.Friday, core.Salaries, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.RestoreTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}

	week, _, err := svc.Week(ctx)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	got := week.Day(core.Friday).Salaries
	if len(got) != 1 || got[0].ID != tx.ID || got[0].Title != "Adelanto" {
		t.Fatalf("unexpected list after restore: %+v", got)
	}

	history, err := svc.History(ctx)
	if err != nil || len(history) != 0 {
		t.Fatalf("history must be empty after restore: %+v %v", history, err)
	}

	if err := svc.RestoreTransaction(ctx, tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("restoring twice must fail with ErrNotFound, got %v", err)
	}
}

func TestSetOpeningAndReset(t *testing.T) {
	svc, _ := newWeekService()
	ctx := context.Background()

	office := 120.0
	treasury := 900.0
	if err := svc.SetOpening(ctx, core.Monday, &office, &treasury); err != nil {
		t.Fatalf("set opening: %v", err)
	}
	if err := svc.SetOpening(ctx, core.Wednesday, &office, &treasury); err == nil {
		t.Fatalf("treasury override outside monday must be rejected")
	}

	_, totals, err := svc.Week(ctx)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if totals.Days[core.Monday].OfficeOpening != 120 || totals.Days[core.Monday].TreasuryOpening != 900 {
		t.Fatalf("overrides not applied: %+v", totals.Days[core.Monday])
	}

	if err := svc.SetOpening(ctx, core.Monday, nil, nil); err != nil {
		t.Fatalf("clear opening: %v", err)
	}
	_, totals, err = svc.Week(ctx)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if totals.Days[core.Monday].OfficeOpening != 0 {
		t.Fatalf("cleared override still applied: %+v", totals.Days[core.Monday])
	}

	if _, err := svc.AddTransaction(ctx, core.Monday, core.Incomes, "Venta", 10); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.ResetWeek(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	week, _, err := svc.Week(ctx)
	if err != nil || len(week.Days) != 0 {
		t.Fatalf("week must be empty after reset: %+v %v", week, err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newWeekService()
	ctx := context.Background()

	if _, err := svc.AddTransaction(ctx, core.Saturday, core.ToBox, "tesoro", 250); err != nil {
		t.Fatalf("add: %v", err)
	}
	data, err := svc.ExportCSV(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := svc.ResetWeek(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := svc.ImportCSV(ctx, data); err != nil {
		t.Fatalf("import: %v", err)
	}

	week, _, err := svc.Week(ctx)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	got := week.Day(core.Saturday).ToBox
	if len(got) != 1 || got[0].Title != "tesoro" || got[0].Amount != 250 {
		t.Fatalf("round trip lost data: %+v", got)
	}
}
