package csvio

import (
	"strings"
	"testing"
	"time"

	"caja/internal/core"
)

func sampleWeek() core.WeekPeriod {
	manual := 120.0
	box := 900.0
	week := core.WeekPeriod{}.SetDay(core.Monday, core.DayLedger{
		Incomes:          []core.Transaction{{ID: "i1", Title: "Venta mostrador", Amount: 500}},
		ToBox:            []core.Transaction{{ID: "t1", Title: "oficina", Amount: 200}},
		InitialBoxAmount: &box,
	})
	return week.SetDay(core.Thursday, core.DayLedger{
		Expenses:            []core.Transaction{{ID: "e1", Title: "Flete, urgente", Amount: 80.5}},
		Salaries:            []core.Transaction{{ID: "s1", Title: "Adelanto Juan", Amount: 150}},
		ManualInitialAmount: &manual,
	})
}

func sampleHistory() []core.HistoryItem {
	return []core.HistoryItem{{
		Transaction:   core.Transaction{ID: "h1", Title: "Hielo", Amount: 60},
		DeletedAt:     time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC),
		OriginalDayID: core.Tuesday,
		OriginalType:  core.Expenses,
	}}
}

func TestRoundTrip(t *testing.T) {
	week := sampleWeek()
	history := sampleHistory()

	data, err := Export(week, history)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	gotWeek, gotHistory, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	monday := gotWeek.Day(core.Monday)
	if len(monday.Incomes) != 1 || monday.Incomes[0].Title != "Venta mostrador" || monday.Incomes[0].Amount != 500 {
		t.Fatalf("monday incomes lost: %+v", monday.Incomes)
	}
	if len(monday.ToBox) != 1 || monday.ToBox[0].Title != "oficina" || monday.ToBox[0].Amount != 200 {
		t.Fatalf("monday toBox lost: %+v", monday.ToBox)
	}
	if monday.InitialBoxAmount == nil || *monday.InitialBoxAmount != 900 {
		t.Fatalf("treasury override lost: %+v", monday)
	}

	thursday := gotWeek.Day(core.Thursday)
	if thursday.ManualInitialAmount == nil || *thursday.ManualInitialAmount != 120 {
		t.Fatalf("office override lost: %+v", thursday)
	}
	if len(thursday.Expenses) != 1 || thursday.Expenses[0].Title != "Flete, urgente" || thursday.Expenses[0].Amount != 80.5 {
		t.Fatalf("quoted title lost: %+v", thursday.Expenses)
	}

	if len(gotHistory) != 1 {
		t.Fatalf("expected one history item, got %+v", gotHistory)
	}
	h := gotHistory[0]
	if h.Title != "Hielo" || h.Amount != 60 || h.OriginalDayID != core.Tuesday || h.OriginalType != core.Expenses {
		t.Fatalf("history fields lost: %+v", h)
	}
	if !h.DeletedAt.Equal(sampleHistory()[0].DeletedAt) {
		t.Fatalf("deletedAt lost: %v", h.DeletedAt)
	}
	if h.ID == "h1" {
		t.Fatalf("ids must be re-minted on import")
	}
}

func TestExportOrderFollowsWeekDays(t *testing.T) {
	data, err := Export(sampleWeek(), nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	text := string(data)
	if strings.Index(text, "monday") > strings.Index(text, "thursday") {
		t.Fatalf("days must be exported in chronological order:\n%s", text)
	}
	if !strings.Contains(text, "---HISTORY---") {
		t.Fatalf("sentinel missing even with empty history:\n%s", text)
	}
}

func TestParseLenient(t *testing.T) {
	csvText := "DayID,DayName,Type,Title,Amount,Metadata\n" +
		"monday,Lunes,incomes,Venta,abc,\n" +
		"sunday,Domingo,incomes,Fantasma,100,\n" +
		"monday,Lunes,misc,Raro,50,\n" +
		"---HISTORY---\n" +
		"tuesday,Martes,history,Roto,20,malformed-metadata\n"

	week, history, err := Parse([]byte(csvText))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	monday := week.Day(core.Monday)
	if len(monday.Incomes) != 1 || monday.Incomes[0].Amount != 0 {
		t.Fatalf("unparsable amount must read as 0: %+v", monday.Incomes)
	}
	if !week.Day("sunday").IsEmpty() {
		t.Fatalf("unknown day must be skipped")
	}
	if len(history) != 0 {
		t.Fatalf("history row with malformed metadata must be skipped, got %+v", history)
	}
}

func TestParseCommaDecimalAmount(t *testing.T) {
	csvText := "monday,Lunes,expenses,Gas,\"10,5\",\n"
	week, _, err := Parse([]byte(csvText))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := week.Day(core.Monday).Expenses
	if len(got) != 1 || got[0].Amount != 10.5 {
		t.Fatalf("comma decimals must parse: %+v", got)
	}
}
