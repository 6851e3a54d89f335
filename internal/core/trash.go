package core

import "time"

// HistoryItem is a removed transaction plus the context needed to restore it
// to its original location.
type HistoryItem struct {
	Transaction

	DeletedAt     time.Time `json:"deletedAt"`
	OriginalDayID DayID     `json:"originalDayId"`
	OriginalType  ListKind  `json:"originalType"`
}

// RemoveTransaction takes the transaction with the given id out of the day's
// list and returns the updated day plus the history item recording where it
// came from. The inputs are not mutated. The third return is false when the
// transaction is not in the list.
func RemoveTransaction(dayID DayID, day DayLedger, kind ListKind, id string, deletedAt time.Time) (DayLedger, HistoryItem, bool) {
	list := day.List(kind)
	for i, txn := range list {
		if txn.ID != id {
			continue
		}
		updated := make([]Transaction, 0, len(list)-1)
		updated = append(updated, list[:i]...)
		updated = append(updated, list[i+1:]...)
		item := HistoryItem{
			Transaction:   txn,
			DeletedAt:     deletedAt,
			OriginalDayID: dayID,
			OriginalType:  kind,
		}
		return day.WithList(kind, updated), item, true
	}
	return day, HistoryItem{}, false
}

// RestoreTransaction re-inserts a history item's transaction at the end of
// its original list in its original day and returns the updated week. The
// fixed six-day set means the original day always exists; an item recorded
// with an unknown day or list is returned unchanged as a guard.
func RestoreTransaction(week WeekPeriod, item HistoryItem) (WeekPeriod, bool) {
	if !item.OriginalDayID.Valid() || !item.OriginalType.Valid() {
		return week, false
	}
	day := week.Day(item.OriginalDayID)
	list := day.List(item.OriginalType)
	updated := make([]Transaction, 0, len(list)+1)
	updated = append(updated, list...)
	updated = append(updated, item.Transaction)
	return week.SetDay(item.OriginalDayID, day.WithList(item.OriginalType, updated)), true
}

// RemoveHistoryItem drops the item with the given transaction id from the
// history list, returning the new list and the removed item.
func RemoveHistoryItem(history []HistoryItem, id string) ([]HistoryItem, HistoryItem, bool) {
	for i, item := range history {
		if item.ID != id {
			continue
		}
		updated := make([]HistoryItem, 0, len(history)-1)
		updated = append(updated, history[:i]...)
		updated = append(updated, history[i+1:]...)
		return updated, item, true
	}
	return history, HistoryItem{}, false
}
