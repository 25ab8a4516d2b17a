package core

import (
	"context"
	"testing"
	"time"

	"github.com/parkshare/parkshare-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupEngine(t *testing.T) (*BookingEngine, *memListingStore, *memBookingStore) {
	t.Helper()
	listings := newMemListingStore()
	bookings := newMemBookingStore(listings)
	engine := NewBookingEngine(bookings, listings)
	engine.now = func() time.Time { return testNow }
	return engine, listings, bookings
}

func TestRequestBooking(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))

	start := testNow.Add(time.Hour)
	end := start.Add(150 * time.Minute) // 2.5 hours

	booking, err := engine.RequestBooking(ctx, lot.ID, 2, start, end)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, 2.5, booking.DurationHours)
	assert.Equal(t, 25.00, booking.Price)
	assert.Equal(t, "12 Elm St, Springfield, IL", booking.Address)
}

func TestRequestBooking_Validation(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))
	start := testNow.Add(time.Hour)

	tests := []struct {
		name    string
		listing uint
		renter  uint
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"end equals start", lot.ID, 2, start, start, ErrValidation},
		{"end before start", lot.ID, 2, start, start.Add(-time.Hour), ErrValidation},
		{"start in the past", lot.ID, 2, testNow.Add(-time.Hour), testNow.Add(time.Hour), ErrInThePast},
		{"own listing", lot.ID, 1, start, start.Add(time.Hour), ErrValidation},
		{"unknown listing", 99, 2, start, start.Add(time.Hour), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RequestBooking(ctx, tt.listing, tt.renter, tt.start, tt.end)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequestBooking_NotAvailable(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, false))

	start := testNow.Add(time.Hour)
	_, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestBookingPriceSnapshot(t *testing.T) {
	engine, listings, bookings := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))

	start := testNow.Add(time.Hour)
	booking, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 20.00, booking.Price)

	// A later rate hike must not rewrite booking history
	lot.PricePerHour = 99
	stored, err := bookings.ByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.00, stored.Price)
	assert.Equal(t, "12 Elm St, Springfield, IL", stored.Address)
}

func TestRespondToBooking(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))

	start := testNow.Add(time.Hour)
	booking, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(time.Hour))
	require.NoError(t, err)

	// Only the listing owner may respond
	_, err = engine.RespondToBooking(ctx, booking.ID, 2, BookingConfirm)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	confirmed, err := engine.RespondToBooking(ctx, booking.ID, 1, BookingConfirm)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	// A settled booking rejects further responses
	_, err = engine.RespondToBooking(ctx, booking.ID, 1, BookingDecline)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDeclineIsTerminal(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))

	start := testNow.Add(time.Hour)
	booking, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(150*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 25.00, booking.Price)

	declined, err := engine.RespondToBooking(ctx, booking.ID, 1, BookingDecline)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDeclined, declined.Status)
	assert.True(t, declined.Status.Terminal())

	_, err = engine.RespondToBooking(ctx, booking.ID, 1, BookingConfirm)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = engine.MarkPaid(ctx, booking.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBookingLifecycle_HappyPath(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))

	start := testNow.Add(time.Hour)
	booking, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(time.Hour))
	require.NoError(t, err)

	// No shortcut from pending to paid or completed
	_, err = engine.MarkPaid(ctx, booking.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = engine.CompleteBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = engine.RespondToBooking(ctx, booking.ID, 1, BookingConfirm)
	require.NoError(t, err)

	// Still no completion before payment
	_, err = engine.CompleteBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Only the renter may pay
	_, err = engine.MarkPaid(ctx, booking.ID, 1)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	paid, err := engine.MarkPaid(ctx, booking.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaid, paid.Status)

	completed, err := engine.CompleteBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, completed.Status)
	assert.True(t, completed.Status.Terminal())
}

func TestCancelBooking(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))
	start := testNow.Add(time.Hour)

	// Renter cancels from pending
	b1, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(time.Hour))
	require.NoError(t, err)
	cancelled, err := engine.CancelBooking(ctx, b1.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	// Owner cancels from confirmed
	b2, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(time.Hour))
	require.NoError(t, err)
	_, err = engine.RespondToBooking(ctx, b2.ID, 1, BookingConfirm)
	require.NoError(t, err)
	cancelled, err = engine.CancelBooking(ctx, b2.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	// A third party may not cancel
	b3, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(time.Hour))
	require.NoError(t, err)
	_, err = engine.CancelBooking(ctx, b3.ID, 3)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Not from paid
	_, err = engine.RespondToBooking(ctx, b3.ID, 1, BookingConfirm)
	require.NoError(t, err)
	_, err = engine.MarkPaid(ctx, b3.ID, 2)
	require.NoError(t, err)
	_, err = engine.CancelBooking(ctx, b3.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Not twice
	_, err = engine.CancelBooking(ctx, b1.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestListBookingsFor(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	myLot := listings.add(lotFixture(1, 10, true))
	otherLot := listings.add(lotFixture(3, 20, true))

	start := testNow.Add(time.Hour)

	// User 2 rents my lot; I rent user 3's lot... from user 1's view both
	// sides of the marketplace land in one list
	rented, err := engine.RequestBooking(ctx, myLot.ID, 2, start, start.Add(time.Hour))
	require.NoError(t, err)
	mine, err := engine.RequestBooking(ctx, otherLot.ID, 1, start, start.Add(time.Hour))
	require.NoError(t, err)

	bookings, err := engine.ListBookingsFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	ids := []uint{bookings[0].ID, bookings[1].ID}
	assert.Contains(t, ids, rented.ID)
	assert.Contains(t, ids, mine.ID)

	// User 4 is party to nothing
	none, err := engine.ListBookingsFor(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetBooking_PartiesOnly(t *testing.T) {
	engine, listings, _ := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))
	start := testNow.Add(time.Hour)

	booking, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = engine.GetBooking(ctx, booking.ID, 1)
	assert.NoError(t, err)
	_, err = engine.GetBooking(ctx, booking.ID, 2)
	assert.NoError(t, err)
	_, err = engine.GetBooking(ctx, booking.ID, 3)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCompleteElapsed(t *testing.T) {
	engine, listings, bookings := setupEngine(t)
	ctx := context.Background()
	lot := listings.add(lotFixture(1, 10, true))

	start := testNow.Add(time.Hour)
	ended, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(time.Hour))
	require.NoError(t, err)
	running, err := engine.RequestBooking(ctx, lot.ID, 2, start, start.Add(8*time.Hour))
	require.NoError(t, err)

	for _, id := range []uint{ended.ID, running.ID} {
		_, err = engine.RespondToBooking(ctx, id, 1, BookingConfirm)
		require.NoError(t, err)
		_, err = engine.MarkPaid(ctx, id, 2)
		require.NoError(t, err)
	}

	// Move the clock past the first booking's window only
	engine.now = func() time.Time { return start.Add(3 * time.Hour) }

	completed, err := engine.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	b, err := bookings.ByID(ctx, ended.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)

	b, err = bookings.ByID(ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaid, b.Status)
}
