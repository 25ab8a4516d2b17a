package core

import (
	"context"
	"time"

	"github.com/parkshare/parkshare-backend/internal/models"
)

// The engine talks to persistence through these narrow interfaces. The gorm
// implementations live in internal/database; tests substitute in-memory
// fakes. Lookups return (nil, nil) when the record does not exist.

type FriendshipStore interface {
	ByID(ctx context.Context, id uint) (*models.Friendship, error)
	// ActiveBetween returns the pending or accepted edge between the pair,
	// in either direction.
	ActiveBetween(ctx context.Context, a, b uint) (*models.Friendship, error)
	Create(ctx context.Context, f *models.Friendship) error
	Save(ctx context.Context, f *models.Friendship) error
	Delete(ctx context.Context, f *models.Friendship) error
	// AcceptedPartners returns the ids of every user with an accepted edge
	// to userID, regardless of which side sent the request.
	AcceptedPartners(ctx context.Context, userID uint) ([]uint, error)
}

type GroupStore interface {
	GroupByID(ctx context.Context, id uint) (*models.LuckyGroup, error)
	// CreateGroup persists the group and the creator's accepted membership
	// as one atomic operation.
	CreateGroup(ctx context.Context, g *models.LuckyGroup, creatorMembership *models.GroupMembership) error
	MembershipByID(ctx context.Context, id uint) (*models.GroupMembership, error)
	MembershipFor(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error)
	CreateMembership(ctx context.Context, m *models.GroupMembership) error
	SaveMembership(ctx context.Context, m *models.GroupMembership) error
	DeleteMembership(ctx context.Context, m *models.GroupMembership) error
	// AcceptedCoMembers returns ids of users sharing at least one group with
	// userID where both memberships are accepted.
	AcceptedCoMembers(ctx context.Context, userID uint) ([]uint, error)
}

type ListingStore interface {
	ByID(ctx context.Context, id uint) (*models.ParkingLot, error)
	ByOwners(ctx context.Context, ownerIDs []uint) ([]models.ParkingLot, error)
}

type BookingStore interface {
	ByID(ctx context.Context, id uint) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error
	Save(ctx context.Context, b *models.Booking) error
	// ForUser returns bookings where the user is the renter or owns the
	// booked listing.
	ForUser(ctx context.Context, userID uint) ([]models.Booking, error)
	// PaidEndedBefore returns paid bookings whose window ended before t.
	PaidEndedBefore(ctx context.Context, t time.Time) ([]models.Booking, error)
}
