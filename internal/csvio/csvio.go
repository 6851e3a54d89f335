// Package csvio implements the CSV interchange schema for week and history
// data. Rows are DayID,DayName,Type,Title,Amount,Metadata; a sentinel row
// switches from week rows to history rows. Parsing is lenient: unparsable
// amounts read as 0 and unrecognized rows are skipped.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"caja/internal/core"
)

const (
	historySentinel = "---HISTORY---"

	typeInitial = "initial"
	typeHistory = "history"

	// Metadata values on initial rows.
	metaOffice   = "office"
	metaTreasury = "treasury"
)

var header = []string{"DayID", "DayName", "Type", "Title", "Amount", "Metadata"}

// Export renders the week and the deleted-transaction history as CSV.
func Export(week core.WeekPeriod, history []core.HistoryItem) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, dayID := range core.WeekDays {
		day := week.Day(dayID)

		if day.ManualInitialAmount != nil {
			if err := writeRow(w, dayID, typeInitial, "Saldo inicial", *day.ManualInitialAmount, metaOffice); err != nil {
				return nil, err
			}
		}
		if day.InitialBoxAmount != nil {
			if err := writeRow(w, dayID, typeInitial, "Caja inicial", *day.InitialBoxAmount, metaTreasury); err != nil {
				return nil, err
			}
		}

		for _, kind := range []core.ListKind{core.Incomes, core.Deliveries, core.Expenses, core.Salaries, core.ToBox} {
			for _, tx := range day.List(kind) {
				if err := writeRow(w, dayID, string(kind), tx.Title, tx.Amount, ""); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := w.Write([]string{historySentinel}); err != nil {
		return nil, fmt.Errorf("write sentinel: %w", err)
	}

	for _, item := range history {
		meta := strings.Join([]string{
			item.DeletedAt.UTC().Format(time.RFC3339),
			string(item.OriginalType),
			string(item.OriginalDayID),
		}, "|")
		if err := writeRow(w, item.OriginalDayID, typeHistory, item.Title, item.Amount, meta); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(w *csv.Writer, day core.DayID, typ, title string, amount float64, meta string) error {
	rec := []string{
		string(day),
		day.Name(),
		typ,
		title,
		strconv.FormatFloat(amount, 'f', -1, 64),
		meta,
	}
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	return nil
}

// Parse reads CSV produced by Export (or hand-edited data in the same
// schema) back into a week and a history. Transaction ids are re-minted;
// every other field round-trips. Rows that name an unknown day or type are
// skipped rather than failing the whole import.
func Parse(data []byte) (core.WeekPeriod, []core.HistoryItem, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return core.WeekPeriod{}, nil, fmt.Errorf("read csv: %w", err)
	}

	week := core.WeekPeriod{}
	var history []core.HistoryItem
	inHistory := false

	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if rec[0] == historySentinel {
			inHistory = true
			continue
		}
		if rec[0] == header[0] {
			continue
		}
		if len(rec) < 6 {
			continue
		}

		dayID := core.DayID(rec[0])
		typ := rec[2]
		title := rec[3]
		amount := core.ParseAmount(rec[4])
		meta := rec[5]

		if inHistory || typ == typeHistory {
			item, ok := parseHistoryRow(title, amount, meta)
			if ok {
				history = append(history, item)
			}
			continue
		}

		if !dayID.Valid() {
			continue
		}
		day := week.Day(dayID)

		switch {
		case typ == typeInitial:
			v := amount
			if meta == metaTreasury {
				day.InitialBoxAmount = &v
			} else {
				day.ManualInitialAmount = &v
			}
		case core.ListKind(typ).Valid():
			kind := core.ListKind(typ)
			list := append(day.List(kind), core.Transaction{
				ID:     core.NewID(),
				Title:  title,
				Amount: amount,
			})
			day = day.WithList(kind, list)
		default:
			continue
		}
		week = week.SetDay(dayID, day)
	}

	return week, history, nil
}

func parseHistoryRow(title string, amount float64, meta string) (core.HistoryItem, bool) {
	parts := strings.SplitN(meta, "|", 3)
	if len(parts) != 3 {
		return core.HistoryItem{}, false
	}
	kind := core.ListKind(parts[1])
	dayID := core.DayID(parts[2])
	if !kind.Valid() || !dayID.Valid() {
		return core.HistoryItem{}, false
	}
	deletedAt, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		deletedAt = time.Time{}
	}
	return core.HistoryItem{
		Transaction:   core.Transaction{ID: core.NewID(), Title: title, Amount: amount},
		DeletedAt:     deletedAt,
		OriginalType:  kind,
		OriginalDayID: dayID,
	}, true
}
