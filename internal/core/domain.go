package core

import (
	"errors"

	"github.com/google/uuid"
)

const (
	Monday    DayID = "monday"
	Tuesday   DayID = "tuesday"
	Wednesday DayID = "wednesday"
	Thursday  DayID = "thursday"
	Friday    DayID = "friday"
	Saturday  DayID = "saturday"
)

const (
	Incomes    ListKind = "incomes"
	Deliveries ListKind = "deliveries"
	Expenses   ListKind = "expenses"
	Salaries   ListKind = "salaries"
	ToBox      ListKind = "toBox"
)

type (
	// DayID identifies one of the six fixed business days of a week.
	DayID string

	// ListKind identifies one of the five transaction lists a day owns.
	ListKind string

	// Transaction is a single cash movement. Amount is signed only in the
	// toBox (treasury) context; everywhere else it is a plain magnitude.
	Transaction struct {
		ID     string  `json:"id"`
		Title  string  `json:"title"`
		Amount float64 `json:"amount"`
	}

	// DayLedger holds one day's transaction lists plus the optional manual
	// opening-balance overrides. The zero value is a valid empty day.
	DayLedger struct {
		Incomes    []Transaction `json:"incomes,omitempty"`
		Deliveries []Transaction `json:"deliveries,omitempty"`
		Expenses   []Transaction `json:"expenses,omitempty"`
		Salaries   []Transaction `json:"salaries,omitempty"`
		ToBox      []Transaction `json:"toBox,omitempty"`

		// ManualInitialAmount overrides the office opening balance chained
		// from the previous day. Nil means "use the automatic carry".
		ManualInitialAmount *float64 `json:"manualInitialAmount,omitempty"`

		// InitialBoxAmount overrides the treasury opening balance. Only
		// meaningful on Monday.
		InitialBoxAmount *float64 `json:"initialBoxAmount,omitempty"`
	}

	// WeekPeriod is the six-day ledger of one calendar week. Days absent
	// from the map are empty ledgers, never an error.
	WeekPeriod struct {
		Days map[DayID]DayLedger `json:"days,omitempty"`
	}
)

var (
	// WeekDays is the fixed chronological iteration order of a week.
	WeekDays = [6]DayID{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

	ErrUnknownDay  = errors.New("unknown day")
	ErrUnknownList = errors.New("unknown transaction list")
)

var dayNames = map[DayID]string{
	Monday:    "Lunes",
	Tuesday:   "Martes",
	Wednesday: "Miércoles",
	Thursday:  "Jueves",
	Friday:    "Viernes",
	Saturday:  "Sábado",
}

// Valid reports whether d is one of the six fixed day identifiers.
func (d DayID) Valid() bool {
	_, ok := dayNames[d]
	return ok
}

// Name returns the display name of the day.
func (d DayID) Name() string {
	return dayNames[d]
}

// Valid reports whether k is one of the five transaction lists.
func (k ListKind) Valid() bool {
	switch k {
	case Incomes, Deliveries, Expenses, Salaries, ToBox:
		return true
	}
	return false
}

// List returns the transactions of the given kind. An invalid kind yields nil.
func (d DayLedger) List(k ListKind) []Transaction {
	switch k {
	case Incomes:
		return d.Incomes
	case Deliveries:
		return d.Deliveries
	case Expenses:
		return d.Expenses
	case Salaries:
		return d.Salaries
	case ToBox:
		return d.ToBox
	}
	return nil
}

// WithList returns a copy of the day with the given list replaced. The
// receiver is not modified; day collections are treated as immutable.
func (d DayLedger) WithList(k ListKind, list []Transaction) DayLedger {
	switch k {
	case Incomes:
		d.Incomes = list
	case Deliveries:
		d.Deliveries = list
	case Expenses:
		d.Expenses = list
	case Salaries:
		d.Salaries = list
	case ToBox:
		d.ToBox = list
	}
	return d
}

// IsEmpty reports whether the day has no transactions and no overrides.
func (d DayLedger) IsEmpty() bool {
	return len(d.Incomes) == 0 && len(d.Deliveries) == 0 && len(d.Expenses) == 0 &&
		len(d.Salaries) == 0 && len(d.ToBox) == 0 &&
		d.ManualInitialAmount == nil && d.InitialBoxAmount == nil
}

// Day returns the ledger for the given day. Missing days are empty ledgers.
func (w WeekPeriod) Day(id DayID) DayLedger {
	if w.Days == nil {
		return DayLedger{}
	}
	return w.Days[id]
}

// SetDay returns a copy of the week with the given day replaced.
func (w WeekPeriod) SetDay(id DayID, day DayLedger) WeekPeriod {
	days := make(map[DayID]DayLedger, len(w.Days)+1)
	for k, v := range w.Days {
		days[k] = v
	}
	days[id] = day
	return WeekPeriod{Days: days}
}

// NewID mints an opaque unique transaction/row identifier.
func NewID() string {
	return uuid.NewString()
}
