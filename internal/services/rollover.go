package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"caja/internal/core"
	"caja/internal/ledger"
)

// RolloverStatePath holds the processor's bookkeeping document.
const RolloverStatePath = "rolloverState"

// ArchivePrefix roots the closed-week archives: weeks/{year}-W{week}.
const ArchivePrefix = "weeks/"

// RolloverStrategy decides whether a week rollover is due. Implementations
// must be idempotent against repeated calls within the same period.
type RolloverStrategy interface {
	IsDue(lastRun, now time.Time) bool
}

// WeeklyStrategy triggers once per ISO week.
type WeeklyStrategy struct{}

func (WeeklyStrategy) IsDue(lastRun, now time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	return isoWeekLabel(lastRun) != isoWeekLabel(now)
}

func isoWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

type rolloverState struct {
	LastRun time.Time `json:"lastRun"`
	Week    string    `json:"week"`
}

// weekArchive is the document written for a closed week.
type weekArchive struct {
	Week    core.WeekPeriod    `json:"week"`
	History []core.HistoryItem `json:"history,omitempty"`
	Totals  core.WeekTotals    `json:"totals"`
}

// RolloverProcessor closes the current week at period boundaries: it
// archives the week and its trash history, then seeds a fresh week whose
// Monday opens with the closed week's carry and treasury closing.
type RolloverProcessor struct {
	repo     *ledger.Repository
	strategy RolloverStrategy
}

func NewRolloverProcessor(repo *ledger.Repository, strategy RolloverStrategy) *RolloverProcessor {
	if strategy == nil {
		strategy = WeeklyStrategy{}
	}
	return &RolloverProcessor{repo: repo, strategy: strategy}
}

// ProcessRollover runs one rollover check. It reports whether a rollover
// was performed.
func (p *RolloverProcessor) ProcessRollover(ctx context.Context, now time.Time) (bool, error) {
	state, err := p.loadState(ctx)
	if err != nil {
		return false, err
	}
	if !p.strategy.IsDue(state.LastRun, now) {
		return false, nil
	}

	week, err := p.repo.LoadWeek(ctx)
	if err != nil {
		return false, err
	}
	history, err := p.repo.LoadHistory(ctx)
	if err != nil {
		return false, err
	}

	totals := core.ComputeWeek(week, 0)

	// Label of the week being closed. The state records the label active
	// when the week was seeded; first-ever runs fall back to last week.
	closedLabel := state.Week
	if closedLabel == "" {
		closedLabel = isoWeekLabel(now.AddDate(0, 0, -7))
	}

	if len(week.Days) > 0 || len(history) > 0 {
		if err := p.archive(ctx, closedLabel, week, history, totals); err != nil {
			return false, err
		}
	}

	carry := totals.ClosingCarry
	treasury := totals.TreasuryClosing
	fresh := core.WeekPeriod{}.SetDay(core.Monday, core.DayLedger{
		ManualInitialAmount: &carry,
		InitialBoxAmount:    &treasury,
	})

	if err := p.repo.SaveWeek(ctx, fresh); err != nil {
		return false, err
	}
	if err := p.repo.SaveHistory(ctx, nil); err != nil {
		return false, err
	}

	if err := p.saveState(ctx, rolloverState{LastRun: now, Week: isoWeekLabel(now)}); err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "Week rollover complete",
		"closed_week", closedLabel,
		"new_week", isoWeekLabel(now),
		"carry", carry,
		"treasury", treasury)
	return true, nil
}

func (p *RolloverProcessor) archive(ctx context.Context, label string, week core.WeekPeriod, history []core.HistoryItem, totals core.WeekTotals) error {
	doc, err := json.Marshal(weekArchive{Week: week, History: history, Totals: totals})
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := p.repo.Store().Put(ctx, ArchivePrefix+label, doc); err != nil {
		return fmt.Errorf("archive week %s: %w", label, err)
	}
	return nil
}

func (p *RolloverProcessor) loadState(ctx context.Context) (rolloverState, error) {
	doc, err := p.repo.Store().Get(ctx, RolloverStatePath)
	if err != nil {
		return rolloverState{}, fmt.Errorf("load rollover state: %w", err)
	}
	if doc == nil {
		return rolloverState{}, nil
	}
	var state rolloverState
	if err := json.Unmarshal(doc, &state); err != nil {
		return rolloverState{}, fmt.Errorf("decode rollover state: %w", err)
	}
	return state, nil
}

func (p *RolloverProcessor) saveState(ctx context.Context, state rolloverState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode rollover state: %w", err)
	}
	if err := p.repo.Store().Put(ctx, RolloverStatePath, doc); err != nil {
		return fmt.Errorf("save rollover state: %w", err)
	}
	return nil
}
