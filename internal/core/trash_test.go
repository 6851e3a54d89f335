package core

import (
	"testing"
	"time"
)

func TestRemoveAndRestoreRoundTrip(t *testing.T) {
	day := DayLedger{Expenses: []Transaction{
		{ID: "1", Title: "Flete", Amount: 100},
		{ID: "2", Title: "Hielo", Amount: 50},
		{ID: "3", Title: "Gasolina", Amount: 200},
	}}
	week := WeekPeriod{}.SetDay(Wednesday, day)
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	updated, item, ok := RemoveTransaction(Wednesday, day, Expenses, "2", now)
	if !ok {
		t.Fatalf("expected removal to succeed")
	}
	if len(updated.Expenses) != 2 || updated.Expenses[0].ID != "1" || updated.Expenses[1].ID != "3" {
		t.Fatalf("unexpected remaining list: %+v", updated.Expenses)
	}
	if len(day.Expenses) != 3 {
		t.Fatalf("input day must not be mutated")
	}
	if item.OriginalDayID != Wednesday || item.OriginalType != Expenses || item.Title != "Hielo" || !item.DeletedAt.Equal(now) {
		t.Fatalf("unexpected history item: %+v", item)
	}

	week = week.SetDay(Wednesday, updated)
	restored, ok := RestoreTransaction(week, item)
	if !ok {
		t.Fatalf("expected restore to succeed")
	}
	got := restored.Day(Wednesday).Expenses
	// Restored at the end of its original list, content preserved.
	if len(got) != 3 || got[2].ID != "2" || got[2].Title != "Hielo" || got[2].Amount != 50 {
		t.Fatalf("unexpected restored list: %+v", got)
	}
}

func TestRemoveTransactionMissing(t *testing.T) {
	day := DayLedger{Incomes: txns(10)}
	got, _, ok := RemoveTransaction(Monday, day, Incomes, "nope", time.Now())
	if ok {
		t.Fatalf("expected removal to fail")
	}
	if len(got.Incomes) != 1 {
		t.Fatalf("day must be unchanged, got %+v", got)
	}
}

func TestRestoreTransactionGuard(t *testing.T) {
	week := WeekPeriod{}
	_, ok := RestoreTransaction(week, HistoryItem{
		Transaction:   Transaction{ID: "1"},
		OriginalDayID: "sunday",
		OriginalType:  Expenses,
	})
	if ok {
		t.Fatalf("unknown day must be a no-op")
	}
	_, ok = RestoreTransaction(week, HistoryItem{
		Transaction:   Transaction{ID: "1"},
		OriginalDayID: Monday,
		OriginalType:  "misc",
	})
	if ok {
		t.Fatalf("unknown list must be a no-op")
	}
}

func TestRemoveHistoryItem(t *testing.T) {
	history := []HistoryItem{
		{Transaction: Transaction{ID: "a"}},
		{Transaction: Transaction{ID: "b"}},
	}
	updated, item, ok := RemoveHistoryItem(history, "a")
	if !ok || item.ID != "a" || len(updated) != 1 || updated[0].ID != "b" {
		t.Fatalf("unexpected result: %+v %+v", updated, item)
	}
	if len(history) != 2 {
		t.Fatalf("input history must not be mutated")
	}
	if _, _, ok := RemoveHistoryItem(history, "zzz"); ok {
		t.Fatalf("missing id must report false")
	}
}
