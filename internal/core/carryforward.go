package core

import "math"

// settledEpsilon absorbs floating-point noise when deciding whether a
// leftover client balance is worth carrying forward. Balances at or below
// this magnitude are treated as settled.
const settledEpsilon = 0.1

// DeliveryRow is one client line in a zone's daily delivery snapshot.
// PrevBalance is fixed at row-creation time and never recomputed once
// stored, except by explicit user edit.
type DeliveryRow struct {
	ID          string  `json:"id"`
	Client      string  `json:"client"`
	Product     string  `json:"product"`
	Weight      float64 `json:"weight"`
	Price       float64 `json:"price"`
	PrevBalance float64 `json:"prevBalance"`
	Payment     float64 `json:"payment"`

	// IsNew marks a carry-over row injected for a client outside the
	// standing roster; such rows need the operator's attention.
	IsNew bool `json:"isNew,omitempty"`
}

// ClosingBalance is what the client owes (or is owed, when negative) at the
// end of the row's day.
func (r DeliveryRow) ClosingBalance() float64 {
	return r.Weight*r.Price + r.PrevBalance - r.Payment
}

// ResolveOpeningRows builds the initial row set for a day that has no
// snapshot yet. Each roster entry gets a fresh row; rows from the prior
// snapshot then contribute their closing balance: roster clients (matched by
// normalized name, last one wins on collisions) have their PrevBalance
// overwritten, and clients who left the roster but still carry a non-settled
// balance are injected as IsNew rows so outstanding money never silently
// disappears.
//
// prior is the most recent snapshot strictly before the day being opened;
// callers resolve date gaps before invoking this. Row order is roster order
// followed by injected carry-overs in prior-snapshot order.
func ResolveOpeningRows(roster []string, prior []DeliveryRow) []DeliveryRow {
	rows := make(map[string]DeliveryRow, len(roster))
	order := make([]string, 0, len(roster))

	for _, name := range roster {
		key := NormalizeName(name)
		if _, ok := rows[key]; !ok {
			order = append(order, key)
		}
		rows[key] = DeliveryRow{ID: NewID(), Client: name}
	}

	for _, prev := range prior {
		key := NormalizeName(prev.Client)
		closing := prev.ClosingBalance()

		if row, ok := rows[key]; ok {
			row.PrevBalance = closing
			rows[key] = row
			continue
		}
		if math.Abs(closing) > settledEpsilon {
			order = append(order, key)
			rows[key] = DeliveryRow{
				ID:          NewID(),
				Client:      prev.Client,
				PrevBalance: closing,
				IsNew:       true,
			}
		}
	}

	resolved := make([]DeliveryRow, 0, len(order))
	for _, key := range order {
		resolved = append(resolved, rows[key])
	}
	return resolved
}
