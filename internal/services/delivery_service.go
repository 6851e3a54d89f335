package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"caja/internal/core"
	"caja/internal/docstore"
	"caja/internal/ledger"
)

// DeliveryService resolves and persists the per-zone delivery ledger. A day
// that already has a snapshot is returned verbatim; a fresh day is seeded
// from the zone roster and the most recent prior snapshot.
type DeliveryService struct {
	repo         *ledger.Repository
	rosters      map[string][]string
	lookbackDays int

	group singleflight.Group
}

func NewDeliveryService(repo *ledger.Repository, rosters map[string][]string, lookbackDays int) *DeliveryService {
	return &DeliveryService{
		repo:         repo,
		rosters:      rosters,
		lookbackDays: lookbackDays,
	}
}

// Day returns the delivery rows for a zone and date, resolving and storing
// the opening snapshot on first access. Concurrent first accesses of the
// same day collapse into a single resolution.
func (s *DeliveryService) Day(ctx context.Context, zone, date string) ([]core.DeliveryRow, error) {
	rows, err := s.repo.LoadDeliveryDay(ctx, zone, date)
	if err != nil {
		return nil, err
	}
	if rows != nil {
		return rows, nil
	}

	v, err, _ := s.group.Do(zone+"|"+date, func() (any, error) {
		// Re-check under the flight: another caller may have stored it.
		rows, err := s.repo.LoadDeliveryDay(ctx, zone, date)
		if err != nil {
			return nil, err
		}
		if rows != nil {
			return rows, nil
		}
		return s.resolveDay(ctx, zone, date)
	})
	if err != nil {
		return nil, err
	}
	return v.([]core.DeliveryRow), nil
}

func (s *DeliveryService) resolveDay(ctx context.Context, zone, date string) ([]core.DeliveryRow, error) {
	prior, priorDate, err := s.repo.LookupPriorSnapshot(ctx, zone, date, s.lookbackDays)
	if err != nil {
		return nil, err
	}

	rows := core.ResolveOpeningRows(s.rosters[zone], prior)
	if err := s.repo.SaveDeliveryDay(ctx, zone, date, rows); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Resolved delivery day",
		"zone", zone,
		"date", date,
		"prior_date", priorDate,
		"rows", len(rows))
	return rows, nil
}

// SaveDay persists user-edited rows for a zone and date. Rows keep their
// ids; rows without one are treated as newly added and get one minted.
func (s *DeliveryService) SaveDay(ctx context.Context, zone, date string, rows []core.DeliveryRow) error {
	if zone == "" || date == "" {
		return fmt.Errorf("zone and date are required: %w", ErrNotFound)
	}
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = core.NewID()
		}
	}
	if err := s.repo.SaveDeliveryDay(ctx, zone, date, rows); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Saved delivery day", "zone", zone, "date", date, "rows", len(rows))
	return nil
}

// Zones returns the configured zone names.
func (s *DeliveryService) Zones() []string {
	zones := make([]string, 0, len(s.rosters))
	for zone := range s.rosters {
		zones = append(zones, zone)
	}
	return zones
}

// DeliveryPath exposes the storage path for a day, used by change consumers.
func DeliveryPath(zone, date string) string {
	return docstore.DeliveryPath(zone, date)
}
