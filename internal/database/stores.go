package database

import (
	"context"
	"errors"
	"time"

	"github.com/parkshare/parkshare-backend/internal/models"
	"gorm.io/gorm"
)

// gorm-backed implementations of the core store interfaces. Missing records
// come back as (nil, nil) so the engine owns the NotFound semantics.

type FriendshipStore struct {
	db *gorm.DB
}

func NewFriendshipStore(db *gorm.DB) *FriendshipStore {
	return &FriendshipStore{db: db}
}

func (s *FriendshipStore) ByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var f models.Friendship
	err := s.db.WithContext(ctx).First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FriendshipStore) ActiveBetween(ctx context.Context, a, b uint) (*models.Friendship, error) {
	var f models.Friendship
	err := s.db.WithContext(ctx).
		Where("status IN ?", []models.FriendshipStatus{models.FriendshipPending, models.FriendshipAccepted}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FriendshipStore) Create(ctx context.Context, f *models.Friendship) error {
	return s.db.WithContext(ctx).Create(f).Error
}

func (s *FriendshipStore) Save(ctx context.Context, f *models.Friendship) error {
	return s.db.WithContext(ctx).Save(f).Error
}

func (s *FriendshipStore) Delete(ctx context.Context, f *models.Friendship) error {
	return s.db.WithContext(ctx).Delete(f).Error
}

func (s *FriendshipStore) AcceptedPartners(ctx context.Context, userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := s.db.WithContext(ctx).
		Where("status = ?", models.FriendshipAccepted).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	partners := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		if f.SenderID == userID {
			partners = append(partners, f.ReceiverID)
		} else {
			partners = append(partners, f.SenderID)
		}
	}
	return partners, nil
}

type GroupStore struct {
	db *gorm.DB
}

func NewGroupStore(db *gorm.DB) *GroupStore {
	return &GroupStore{db: db}
}

func (s *GroupStore) GroupByID(ctx context.Context, id uint) (*models.LuckyGroup, error) {
	var g models.LuckyGroup
	err := s.db.WithContext(ctx).First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GroupStore) CreateGroup(ctx context.Context, g *models.LuckyGroup, creatorMembership *models.GroupMembership) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		creatorMembership.GroupID = g.ID
		return tx.Create(creatorMembership).Error
	})
}

func (s *GroupStore) MembershipByID(ctx context.Context, id uint) (*models.GroupMembership, error) {
	var m models.GroupMembership
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GroupStore) MembershipFor(ctx context.Context, groupID, userID uint) (*models.GroupMembership, error) {
	var m models.GroupMembership
	err := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GroupStore) CreateMembership(ctx context.Context, m *models.GroupMembership) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *GroupStore) SaveMembership(ctx context.Context, m *models.GroupMembership) error {
	return s.db.WithContext(ctx).Save(m).Error
}

func (s *GroupStore) DeleteMembership(ctx context.Context, m *models.GroupMembership) error {
	return s.db.WithContext(ctx).Delete(m).Error
}

func (s *GroupStore) AcceptedCoMembers(ctx context.Context, userID uint) ([]uint, error) {
	var coMembers []uint
	err := s.db.WithContext(ctx).
		Table("group_members AS mine").
		Select("DISTINCT theirs.user_id").
		Joins("JOIN group_members AS theirs ON theirs.group_id = mine.group_id").
		Where("mine.user_id = ? AND mine.status = ?", userID, models.MembershipAccepted).
		Where("theirs.user_id <> ? AND theirs.status = ?", userID, models.MembershipAccepted).
		Where("mine.deleted_at IS NULL AND theirs.deleted_at IS NULL").
		Scan(&coMembers).Error
	if err != nil {
		return nil, err
	}
	return coMembers, nil
}

type ListingStore struct {
	db *gorm.DB
}

func NewListingStore(db *gorm.DB) *ListingStore {
	return &ListingStore{db: db}
}

func (s *ListingStore) ByID(ctx context.Context, id uint) (*models.ParkingLot, error) {
	var lot models.ParkingLot
	err := s.db.WithContext(ctx).Preload("Owner").First(&lot, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (s *ListingStore) ByOwners(ctx context.Context, ownerIDs []uint) ([]models.ParkingLot, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var lots []models.ParkingLot
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id IN ?", ownerIDs).
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

func (s *BookingStore) ByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).
		Preload("ParkingLot").
		Preload("ParkingLot.Owner").
		Preload("Renter").
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BookingStore) Create(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *BookingStore) Save(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Save(b).Error
}

func (s *BookingStore) ForUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Joins("JOIN parking_lots ON parking_lots.id = bookings.parking_lot_id").
		Where("bookings.renter_id = ? OR parking_lots.owner_id = ?", userID, userID).
		Preload("ParkingLot").
		Preload("ParkingLot.Owner").
		Preload("Renter").
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *BookingStore) PaidEndedBefore(ctx context.Context, t time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ?", models.BookingStatusPaid).
		Where("start_time + (duration_hours * INTERVAL '1 hour') <= ?", t).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
