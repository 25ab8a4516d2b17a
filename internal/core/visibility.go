package core

import (
	"context"

	"github.com/parkshare/parkshare-backend/internal/models"
)

// VisibilityFilter projects the listing store down to what a given viewer is
// entitled to browse. Stateless; recomputed on every read.
type VisibilityFilter struct {
	graph    *RelationshipGraph
	listings ListingStore
}

func NewVisibilityFilter(graph *RelationshipGraph, listings ListingStore) *VisibilityFilter {
	return &VisibilityFilter{graph: graph, listings: listings}
}

// VisibleListings returns every listing owned by one of the viewer's visible
// peers. The viewer's own listings are always included.
func (v *VisibilityFilter) VisibleListings(ctx context.Context, viewerID uint) ([]models.ParkingLot, error) {
	peers, err := v.graph.VisiblePeers(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return v.listings.ByOwners(ctx, peers)
}

// VisibleAvailableListings is the renter-facing browse view: visible
// listings whose availability flag is currently on. The booking engine
// re-checks availability at request time, so a stale flag here only affects
// what gets surfaced, never what gets booked.
func (v *VisibilityFilter) VisibleAvailableListings(ctx context.Context, viewerID uint) ([]models.ParkingLot, error) {
	lots, err := v.VisibleListings(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	available := lots[:0]
	for _, lot := range lots {
		if lot.IsAvailable {
			available = append(available, lot)
		}
	}
	return available, nil
}

// CanView reports whether the viewer is entitled to see the given listing.
func (v *VisibilityFilter) CanView(ctx context.Context, viewerID uint, lot *models.ParkingLot) (bool, error) {
	peers, err := v.graph.VisiblePeers(ctx, viewerID)
	if err != nil {
		return false, err
	}
	for _, id := range peers {
		if id == lot.OwnerID {
			return true, nil
		}
	}
	return false, nil
}
