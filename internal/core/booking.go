package core

import (
	"context"
	"fmt"
	"time"

	"github.com/parkshare/parkshare-backend/internal/models"
	"github.com/parkshare/parkshare-backend/pkg/utils"
)

type BookingDecision string

const (
	BookingConfirm BookingDecision = "confirm"
	BookingDecline BookingDecision = "decline"
)

// BookingEngine drives the booking lifecycle:
//
//	pending   -> confirmed | declined | cancelled
//	confirmed -> paid | cancelled
//	paid      -> completed
//
// declined, cancelled and completed are terminal. A listing is single-slot
// with a plain availability flag, so overlapping bookings on the same lot
// are possible; preventing them would need a reservation calendar this model
// deliberately does not have.
type BookingEngine struct {
	bookings BookingStore
	listings ListingStore

	now func() time.Time
}

func NewBookingEngine(bookings BookingStore, listings ListingStore) *BookingEngine {
	return &BookingEngine{bookings: bookings, listings: listings, now: time.Now}
}

// RequestBooking creates a pending booking for the renter against an
// available listing, snapshotting address, duration and price.
func (e *BookingEngine) RequestBooking(ctx context.Context, listingID, renterID uint, startTime, endTime time.Time) (*models.Booking, error) {
	if !endTime.After(startTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	if startTime.Before(e.now()) {
		return nil, fmt.Errorf("%w", ErrInThePast)
	}

	lot, err := e.listings.ByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: parking lot %d", ErrNotFound, listingID)
	}
	if lot.OwnerID == renterID {
		return nil, fmt.Errorf("%w: cannot book your own listing", ErrValidation)
	}
	if !lot.IsAvailable {
		return nil, fmt.Errorf("%w", ErrNotAvailable)
	}

	hours := utils.HoursBetween(startTime, endTime)
	booking := &models.Booking{
		ParkingLotID:  lot.ID,
		RenterID:      renterID,
		Address:       lot.DisplayAddress(),
		StartTime:     startTime,
		DurationHours: hours,
		Price:         utils.BookingPrice(lot.PricePerHour, hours),
		Status:        models.BookingStatusPending,
	}
	if err := e.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// RespondToBooking lets the listing owner confirm or decline a pending
// booking.
func (e *BookingEngine) RespondToBooking(ctx context.Context, bookingID, ownerID uint, decision BookingDecision) (*models.Booking, error) {
	booking, lot, err := e.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if lot.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the listing owner may respond", ErrNotAuthorized)
	}
	if booking.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}

	switch decision {
	case BookingConfirm:
		booking.Status = models.BookingStatusConfirmed
	case BookingDecline:
		booking.Status = models.BookingStatusDeclined
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}
	if err := e.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// MarkPaid transitions a confirmed booking to paid. Only the renter may pay.
func (e *BookingEngine) MarkPaid(ctx context.Context, bookingID, renterID uint) (*models.Booking, error) {
	booking, _, err := e.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != renterID {
		return nil, fmt.Errorf("%w: only the renter may pay", ErrNotAuthorized)
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}

	booking.Status = models.BookingStatusPaid
	if err := e.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// CompleteBooking transitions a paid booking to completed. Invocable by
// either party or the background sweep once the rental window has elapsed.
func (e *BookingEngine) CompleteBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	booking, _, err := e.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPaid {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}

	booking.Status = models.BookingStatusCompleted
	if err := e.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking cancels a pending or confirmed booking. Either the renter or
// the listing owner may cancel.
func (e *BookingEngine) CancelBooking(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	booking, lot, err := e.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != actorID && lot.OwnerID != actorID {
		return nil, fmt.Errorf("%w: only the renter or owner may cancel", ErrNotAuthorized)
	}
	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidState, booking.Status)
	}

	booking.Status = models.BookingStatusCancelled
	if err := e.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListBookingsFor returns every booking where the user is the renter or owns
// the booked listing, serving the single "my bookings" view for both roles.
func (e *BookingEngine) ListBookingsFor(ctx context.Context, userID uint) ([]models.Booking, error) {
	return e.bookings.ForUser(ctx, userID)
}

// GetBooking returns a booking visible to the given user (renter or owner).
func (e *BookingEngine) GetBooking(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	booking, lot, err := e.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != userID && lot.OwnerID != userID {
		return nil, fmt.Errorf("%w: not a party to this booking", ErrNotAuthorized)
	}
	return booking, nil
}

// CompleteElapsed sweeps paid bookings whose window has ended and completes
// them. InvalidState races are skipped, not surfaced: a concurrent
// transition just means someone else got there first.
func (e *BookingEngine) CompleteElapsed(ctx context.Context) (int, error) {
	elapsed, err := e.bookings.PaidEndedBefore(ctx, e.now())
	if err != nil {
		return 0, err
	}
	completed := 0
	for i := range elapsed {
		if _, err := e.CompleteBooking(ctx, elapsed[i].ID); err != nil {
			if ctx.Err() != nil {
				return completed, ctx.Err()
			}
			continue
		}
		completed++
	}
	return completed, nil
}

func (e *BookingEngine) load(ctx context.Context, bookingID uint) (*models.Booking, *models.ParkingLot, error) {
	booking, err := e.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
	}
	lot, err := e.listings.ByID(ctx, booking.ParkingLotID)
	if err != nil {
		return nil, nil, err
	}
	if lot == nil {
		return nil, nil, fmt.Errorf("%w: parking lot %d", ErrNotFound, booking.ParkingLotID)
	}
	return booking, lot, nil
}
