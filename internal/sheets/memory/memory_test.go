package memory

import (
	"context"
	"testing"
	"time"

	ports "caja/internal/sheets"
)

func TestAppendAndRows(t *testing.T) {
	m := New()
	ctx := context.Background()

	rows := []ports.SummaryRow{
		{Day: "monday", DayName: "Lunes", OfficeClosing: 500, ExportedAt: time.Now()},
		{Day: "tuesday", DayName: "Martes", OfficeClosing: 300, ExportedAt: time.Now()},
	}
	if err := m.AppendWeekSummary(ctx, rows); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := m.AppendWeekSummary(ctx, rows[:1]); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := m.Rows()
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0].DayName != "Lunes" || got[2].Day != "monday" {
		t.Fatalf("unexpected rows: %+v", got)
	}

	got[0].Day = "mutated"
	if m.Rows()[0].Day == "mutated" {
		t.Fatalf("Rows must return a copy")
	}
}
