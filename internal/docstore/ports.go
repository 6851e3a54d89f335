// Package docstore defines the path-addressed JSON document store the
// engine persists into. The store is a collaborator, not part of the core:
// absence of a document at a path is semantically "empty", never an error.
package docstore

import (
	"context"
	"encoding/json"
)

// Paths used by the engine.
const (
	WeekPath    = "weekData"
	HistoryPath = "history"

	// DeliveriesPrefix roots the per-zone, per-date delivery snapshots:
	// deliveries/{zone}/{YYYY-MM-DD}.
	DeliveriesPrefix = "deliveries"
)

// Store is a path-addressed key/value document store with change
// subscription. Writes are last-writer-wins; subscribers receive whole
// documents, and the engine recomputes from the latest snapshot instead of
// maintaining incremental state.
type Store interface {
	// Get returns the document at path, or nil with no error when absent.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Put stores the document at path, replacing any previous version.
	Put(ctx context.Context, path string, doc json.RawMessage) error

	// Delete removes the document at path. Deleting an absent path is not
	// an error.
	Delete(ctx context.Context, path string) error

	// List returns the sorted paths of all documents under prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Subscribe registers fn for changes to the document at path. fn is
	// called with the new document, or nil on delete. The returned
	// function unregisters the subscription.
	Subscribe(path string, fn func(doc json.RawMessage)) (unsubscribe func())
}

// DeliveryPath builds the snapshot path for a zone and ISO date (YYYY-MM-DD).
func DeliveryPath(zone, date string) string {
	return DeliveriesPrefix + "/" + zone + "/" + date
}
