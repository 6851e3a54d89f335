package core

// WeekTotals is the result of chaining the six day calculations.
type WeekTotals struct {
	Days map[DayID]DayTotals `json:"days"`

	// ClosingCarry is the chain carry after Saturday: the office balance
	// propagated into the next period.
	ClosingCarry float64 `json:"closingCarry"`

	// TreasuryClosing is Saturday's treasury closing balance, the default
	// Monday treasury opening of the next week.
	TreasuryClosing float64 `json:"treasuryClosing"`
}

// ComputeWeek runs the six days monday → saturday, carrying each day's chain
// balance into the next day's opening. prevTreasuryClosing is the previous
// week's treasury closing, supplied by the caller (0 when no prior data).
//
// A day's manual override replaces its opening for that day's own
// computation, but the value recorded as the day's AutoPrevBalance is always
// the unmodified chain carry: the user edits against the automatic figure.
// Always completes in exactly six steps; missing days are empty ledgers.
func ComputeWeek(week WeekPeriod, prevTreasuryClosing float64) WeekTotals {
	totals := WeekTotals{Days: make(map[DayID]DayTotals, len(WeekDays))}

	carry := 0.0
	treasury := prevTreasuryClosing
	for _, id := range WeekDays {
		day := week.Day(id)

		officeOpening := carry
		if day.ManualInitialAmount != nil {
			officeOpening = *day.ManualInitialAmount
		}
		if id == Monday && day.InitialBoxAmount != nil {
			treasury = *day.InitialBoxAmount
		}

		dt := ComputeDay(day, officeOpening, treasury)
		dt.AutoPrevBalance = carry

		totals.Days[id] = dt
		carry = dt.CarryOut
		treasury = dt.TreasuryClosing
	}

	totals.ClosingCarry = carry
	totals.TreasuryClosing = treasury
	return totals
}
