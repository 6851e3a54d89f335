package core

// DayTotals holds everything a single day's view needs: the component sums,
// both closing balances, and the chain carry used as the next day's
// automatic opening balance.
//
// Two balance definitions coexist and both are user-visible. The office
// closing nets treasury transfers against the office (additions excluded),
// while the chain carry treats every toBox entry, additions and transfers
// alike, as a reduction of the office balance being carried forward. They
// must not be merged.
type DayTotals struct {
	// AutoPrevBalance is the unmodified chain value shown as the day's
	// "automatic previous balance" for editing. A manual override changes
	// the day's own computation but never this field.
	AutoPrevBalance float64 `json:"autoPrevBalance"`

	// OfficeOpening is the opening balance actually used: the manual
	// override when set, otherwise AutoPrevBalance.
	OfficeOpening float64 `json:"officeOpening"`

	TotalIncome     float64 `json:"totalIncome"`
	TotalDeliveries float64 `json:"totalDeliveries"`
	TotalExpense    float64 `json:"totalExpense"`
	TotalSalaries   float64 `json:"totalSalaries"`

	// BoxAdditions is the sum of plain treasury deposits; ToOffice and
	// ToTreasury are the sums of the two transfer directions.
	BoxAdditions float64 `json:"boxAdditions"`
	ToOffice     float64 `json:"toOffice"`
	ToTreasury   float64 `json:"toTreasury"`
	TotalToBox   float64 `json:"totalToBox"`

	OfficeClosing float64 `json:"officeClosing"`

	TreasuryOpening float64 `json:"treasuryOpening"`
	// TreasuryNetTransfer is the day's office/treasury exchange figure:
	// transfers only, additions excluded.
	TreasuryNetTransfer float64 `json:"treasuryNetTransfer"`
	TreasuryClosing     float64 `json:"treasuryClosing"`

	// CarryOut is the chain carry after this day, the automatic opening
	// balance of the next day.
	CarryOut float64 `json:"carryOut"`
}

func sumAmounts(txns []Transaction) float64 {
	var total float64
	for _, t := range txns {
		total += t.Amount
	}
	return total
}

// ComputeDay computes one day's totals from its ledger and opening balances.
// Pure function of its inputs; absent lists count as zero.
func ComputeDay(day DayLedger, officeOpening, treasuryOpening float64) DayTotals {
	t := DayTotals{
		AutoPrevBalance: officeOpening,
		OfficeOpening:   officeOpening,
		TotalIncome:     sumAmounts(day.Incomes),
		TotalDeliveries: sumAmounts(day.Deliveries),
		TotalExpense:    sumAmounts(day.Expenses),
		TotalSalaries:   sumAmounts(day.Salaries),
		TreasuryOpening: treasuryOpening,
	}

	for _, txn := range day.ToBox {
		t.TotalToBox += txn.Amount
		switch ClassifyTransfer(txn.Title) {
		case TransferToOffice:
			t.ToOffice += txn.Amount
		case TransferToTreasury:
			t.ToTreasury += txn.Amount
		default:
			t.BoxAdditions += txn.Amount
		}
	}

	net := t.TotalIncome + t.TotalDeliveries - t.TotalExpense - t.TotalSalaries

	t.OfficeClosing = officeOpening + net + t.ToOffice - t.ToTreasury
	t.TreasuryNetTransfer = t.ToTreasury - t.ToOffice
	t.TreasuryClosing = treasuryOpening + t.TreasuryNetTransfer + t.BoxAdditions
	t.CarryOut = officeOpening + net - t.TotalToBox

	return t
}
