package services

import (
	"context"
	"testing"

	"caja/internal/core"
	"caja/internal/docstore/memory"
	"caja/internal/ledger"
)

func newDeliveryService() (*DeliveryService, *ledger.Repository) {
	repo := ledger.NewRepository(memory.New())
	rosters := map[string][]string{
		"norte": {"A", "B"},
	}
	return NewDeliveryService(repo, rosters, 0), repo
}

func TestDayResolvesFromPriorSnapshot(t *testing.T) {
	svc, repo := newDeliveryService()
	ctx := context.Background()

	prior := []core.DeliveryRow{
		{ID: "1", Client: "A", Weight: 10, Price: 100, Payment: 200},
		{ID: "2", Client: "C", Weight: 5, Price: 50},
	}
	if err := repo.SaveDeliveryDay(ctx, "norte", "2026-08-22", prior); err != nil {
		t.Fatalf("save prior: %v", err)
	}

	rows, err := svc.Day(ctx, "norte", "2026-08-24")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected A, B and injected C, got %+v", rows)
	}
	if rows[0].Client != "A" || rows[0].PrevBalance != 800 {
		t.Fatalf("A must carry 800: %+v", rows[0])
	}
	if rows[1].Client != "B" || rows[1].PrevBalance != 0 {
		t.Fatalf("B must be fresh: %+v", rows[1])
	}
	if rows[2].Client != "C" || rows[2].PrevBalance != 250 || !rows[2].IsNew {
		t.Fatalf("C must be injected with 250: %+v", rows[2])
	}

	// The resolution must have been persisted as the day's snapshot.
	stored, err := repo.LoadDeliveryDay(ctx, "norte", "2026-08-24")
	if err != nil || len(stored) != 3 {
		t.Fatalf("resolved day must be stored: %+v %v", stored, err)
	}
}

func TestDayReturnsExistingSnapshotVerbatim(t *testing.T) {
	svc, repo := newDeliveryService()
	ctx := context.Background()

	edited := []core.DeliveryRow{{ID: "x", Client: "Zutano", PrevBalance: 42}}
	if err := repo.SaveDeliveryDay(ctx, "norte", "2026-08-24", edited); err != nil {
		t.Fatalf("save: %v", err)
	}

	rows, err := svc.Day(ctx, "norte", "2026-08-24")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "x" || rows[0].PrevBalance != 42 {
		t.Fatalf("existing snapshot must not be re-resolved: %+v", rows)
	}
}

func TestDayWithoutPriorSeedsRosterOnly(t *testing.T) {
	svc, _ := newDeliveryService()

	rows, err := svc.Day(context.Background(), "norte", "2026-08-24")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if len(rows) != 2 || rows[0].Client != "A" || rows[1].Client != "B" {
		t.Fatalf("expected roster-only rows: %+v", rows)
	}
	for _, r := range rows {
		if r.ID == "" {
			t.Fatalf("roster rows must get ids: %+v", r)
		}
	}
}

func TestSaveDayMintsMissingIDs(t *testing.T) {
	svc, repo := newDeliveryService()
	ctx := context.Background()

	rows := []core.DeliveryRow{
		{ID: "keep", Client: "A"},
		{Client: "Nuevo"},
	}
	if err := svc.SaveDay(ctx, "norte", "2026-08-24", rows); err != nil {
		t.Fatalf("save day: %v", err)
	}

	stored, err := repo.LoadDeliveryDay(ctx, "norte", "2026-08-24")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored[0].ID != "keep" || stored[1].ID == "" {
		t.Fatalf("id handling wrong: %+v", stored)
	}
}
