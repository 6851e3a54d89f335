// Package worker mirrors the cashbook out of process: it consumes
// document-change events and exports the recomputed week to a CSV backup
// file and, when configured, to a spreadsheet mirror.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"caja/internal/amqp"
	"caja/internal/core"
	"caja/internal/csvio"
	"caja/internal/docstore"
	"caja/internal/ledger"
	"caja/internal/sheets"
)

const backupFileName = "caja-week.csv"

type MirrorWorker struct {
	repo      *ledger.Repository
	mirror    sheets.WeekMirror
	backupDir string
}

// NewMirrorWorker creates the worker. mirror may be nil; only the CSV
// backup is written then.
func NewMirrorWorker(repo *ledger.Repository, mirror sheets.WeekMirror, backupDir string) *MirrorWorker {
	return &MirrorWorker{
		repo:      repo,
		mirror:    mirror,
		backupDir: backupDir,
	}
}

// HandleChange processes one document-change event. Only week and history
// changes trigger an export; delivery snapshot changes are ignored.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.DocumentChangedMessage) error {
	switch msg.Path {
	case docstore.WeekPath, docstore.HistoryPath:
	default:
		slog.DebugContext(ctx, "Ignoring change", "path", msg.Path)
		return nil
	}
	return w.Export(ctx)
}

// StartupExport runs one unconditional export. Events published while the
// worker was down are recovered this way; the export always reflects the
// latest stored state.
func (w *MirrorWorker) StartupExport(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup export")
	return w.Export(ctx)
}

// Export reloads the week, recomputes totals, writes the CSV backup, and
// appends a summary to the mirror.
func (w *MirrorWorker) Export(ctx context.Context) error {
	week, err := w.repo.LoadWeek(ctx)
	if err != nil {
		return fmt.Errorf("load week: %w", err)
	}
	history, err := w.repo.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if err := w.writeBackup(ctx, week, history); err != nil {
		return err
	}

	if w.mirror != nil {
		totals := core.ComputeWeek(week, 0)
		if err := w.mirror.AppendWeekSummary(ctx, summaryRows(totals)); err != nil {
			return fmt.Errorf("mirror week summary: %w", err)
		}
	}

	return nil
}

func (w *MirrorWorker) writeBackup(ctx context.Context, week core.WeekPeriod, history []core.HistoryItem) error {
	if w.backupDir == "" {
		return nil
	}

	data, err := csvio.Export(week, history)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	if err := os.MkdirAll(w.backupDir, 0755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	// Write-then-rename so a crash never leaves a truncated backup.
	path := filepath.Join(w.backupDir, backupFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename backup: %w", err)
	}

	slog.InfoContext(ctx, "Wrote CSV backup", "path", path, "size", len(data))
	return nil
}

func summaryRows(totals core.WeekTotals) []sheets.SummaryRow {
	now := time.Now().UTC()
	rows := make([]sheets.SummaryRow, 0, len(core.WeekDays))
	for _, dayID := range core.WeekDays {
		dt := totals.Days[dayID]
		rows = append(rows, sheets.SummaryRow{
			Day:             string(dayID),
			DayName:         dayID.Name(),
			OfficeOpening:   dt.OfficeOpening,
			TotalIncome:     dt.TotalIncome + dt.TotalDeliveries,
			TotalExpense:    dt.TotalExpense + dt.TotalSalaries,
			OfficeClosing:   dt.OfficeClosing,
			TreasuryClosing: dt.TreasuryClosing,
			CarryOut:        dt.CarryOut,
			ExportedAt:      now,
		})
	}
	return rows
}
