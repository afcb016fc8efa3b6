package interfaces

import (
	"context"

	"github.com/ternarybob/rogo/internal/models"
)

// CatalogProvider - read-only snapshot fetch from the external catalog
// collaborator. A fresh snapshot is fetched per request for each
// dynamic-catalog step; nothing in this service caches snapshots.
type CatalogProvider interface {
	// Snapshot returns the current entries for the named step's
	// catalog (e.g. "topics", "audiences").
	Snapshot(ctx context.Context, step string) (*models.CatalogSnapshot, error)
}
