package core

import (
	"context"
	"time"

	"github.com/parkshare/parkshare-backend/internal/models"
)

// In-memory store fakes backing the engine tests.

type memFriendshipStore struct {
	nextID uint
	items  map[uint]*models.Friendship
}

func newMemFriendshipStore() *memFriendshipStore {
	return &memFriendshipStore{nextID: 1, items: make(map[uint]*models.Friendship)}
}

func (s *memFriendshipStore) ByID(_ context.Context, id uint) (*models.Friendship, error) {
	f, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (s *memFriendshipStore) ActiveBetween(_ context.Context, a, b uint) (*models.Friendship, error) {
	for _, f := range s.items {
		if f.Involves(a, b) && f.Active() {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memFriendshipStore) Create(_ context.Context, f *models.Friendship) error {
	f.ID = s.nextID
	s.nextID++
	cp := *f
	s.items[f.ID] = &cp
	return nil
}

func (s *memFriendshipStore) Save(_ context.Context, f *models.Friendship) error {
	cp := *f
	s.items[f.ID] = &cp
	return nil
}

func (s *memFriendshipStore) Delete(_ context.Context, f *models.Friendship) error {
	delete(s.items, f.ID)
	return nil
}

func (s *memFriendshipStore) AcceptedPartners(_ context.Context, userID uint) ([]uint, error) {
	var partners []uint
	for _, f := range s.items {
		if f.Status != models.FriendshipAccepted {
			continue
		}
		if f.SenderID == userID {
			partners = append(partners, f.ReceiverID)
		} else if f.ReceiverID == userID {
			partners = append(partners, f.SenderID)
		}
	}
	return partners, nil
}

type memGroupStore struct {
	nextGroupID      uint
	nextMembershipID uint
	groups           map[uint]*models.LuckyGroup
	memberships      map[uint]*models.GroupMembership
}

func newMemGroupStore() *memGroupStore {
	return &memGroupStore{
		nextGroupID:      1,
		nextMembershipID: 1,
		groups:           make(map[uint]*models.LuckyGroup),
		memberships:      make(map[uint]*models.GroupMembership),
	}
}

func (s *memGroupStore) GroupByID(_ context.Context, id uint) (*models.LuckyGroup, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (s *memGroupStore) CreateGroup(ctx context.Context, g *models.LuckyGroup, creatorMembership *models.GroupMembership) error {
	g.ID = s.nextGroupID
	s.nextGroupID++
	cp := *g
	s.groups[g.ID] = &cp

	creatorMembership.GroupID = g.ID
	return s.CreateMembership(ctx, creatorMembership)
}

func (s *memGroupStore) MembershipByID(_ context.Context, id uint) (*models.GroupMembership, error) {
	m, ok := s.memberships[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *memGroupStore) MembershipFor(_ context.Context, groupID, userID uint) (*models.GroupMembership, error) {
	for _, m := range s.memberships {
		if m.GroupID == groupID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memGroupStore) CreateMembership(_ context.Context, m *models.GroupMembership) error {
	m.ID = s.nextMembershipID
	s.nextMembershipID++
	cp := *m
	s.memberships[m.ID] = &cp
	return nil
}

func (s *memGroupStore) SaveMembership(_ context.Context, m *models.GroupMembership) error {
	cp := *m
	s.memberships[m.ID] = &cp
	return nil
}

func (s *memGroupStore) DeleteMembership(_ context.Context, m *models.GroupMembership) error {
	delete(s.memberships, m.ID)
	return nil
}

func (s *memGroupStore) AcceptedCoMembers(_ context.Context, userID uint) ([]uint, error) {
	seen := map[uint]bool{}
	var coMembers []uint
	for _, mine := range s.memberships {
		if mine.UserID != userID || mine.Status != models.MembershipAccepted {
			continue
		}
		for _, theirs := range s.memberships {
			if theirs.GroupID != mine.GroupID || theirs.UserID == userID {
				continue
			}
			if theirs.Status == models.MembershipAccepted && !seen[theirs.UserID] {
				seen[theirs.UserID] = true
				coMembers = append(coMembers, theirs.UserID)
			}
		}
	}
	return coMembers, nil
}

type memListingStore struct {
	nextID uint
	lots   []*models.ParkingLot
}

func newMemListingStore() *memListingStore {
	return &memListingStore{nextID: 1}
}

func (s *memListingStore) add(lot models.ParkingLot) *models.ParkingLot {
	lot.ID = s.nextID
	s.nextID++
	cp := lot
	s.lots = append(s.lots, &cp)
	return &cp
}

func (s *memListingStore) ByID(_ context.Context, id uint) (*models.ParkingLot, error) {
	for _, lot := range s.lots {
		if lot.ID == id {
			cp := *lot
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memListingStore) ByOwners(_ context.Context, ownerIDs []uint) ([]models.ParkingLot, error) {
	owners := map[uint]bool{}
	for _, id := range ownerIDs {
		owners[id] = true
	}
	var result []models.ParkingLot
	for _, lot := range s.lots {
		if owners[lot.OwnerID] {
			result = append(result, *lot)
		}
	}
	return result, nil
}

type memBookingStore struct {
	nextID   uint
	bookings map[uint]*models.Booking
	listings *memListingStore
}

func newMemBookingStore(listings *memListingStore) *memBookingStore {
	return &memBookingStore{nextID: 1, bookings: make(map[uint]*models.Booking), listings: listings}
}

func (s *memBookingStore) ByID(_ context.Context, id uint) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (s *memBookingStore) Create(_ context.Context, b *models.Booking) error {
	b.ID = s.nextID
	s.nextID++
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memBookingStore) Save(_ context.Context, b *models.Booking) error {
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memBookingStore) ForUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var result []models.Booking
	for _, b := range s.bookings {
		if b.RenterID == userID {
			result = append(result, *b)
			continue
		}
		lot, err := s.listings.ByID(ctx, b.ParkingLotID)
		if err != nil {
			return nil, err
		}
		if lot != nil && lot.OwnerID == userID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (s *memBookingStore) PaidEndedBefore(_ context.Context, t time.Time) ([]models.Booking, error) {
	var result []models.Booking
	for _, b := range s.bookings {
		if b.Status == models.BookingStatusPaid && !b.EndTime().After(t) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func lotFixture(ownerID uint, rate float64, available bool) models.ParkingLot {
	return models.ParkingLot{
		OwnerID:      ownerID,
		Street:       "12 Elm St",
		City:         "Springfield",
		State:        "IL",
		ZipCode:      "62704",
		Country:      "United States",
		Latitude:     39.7817,
		Longitude:    -89.6501,
		IsAvailable:  available,
		PricePerHour: rate,
	}
}
