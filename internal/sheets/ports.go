package sheets

import (
	"context"
	"time"
)

// SummaryRow is one day's computed balances as mirrored to a spreadsheet.
type SummaryRow struct {
	Day             string
	DayName         string
	OfficeOpening   float64
	TotalIncome     float64
	TotalExpense    float64
	OfficeClosing   float64
	TreasuryClosing float64
	CarryOut        float64
	ExportedAt      time.Time
}

// WeekMirror is the outbound port for spreadsheet mirroring. Implementations
// append whole-week summaries; the mirror is write-only and best effort.
type WeekMirror interface {
	AppendWeekSummary(ctx context.Context, rows []SummaryRow) error
}
