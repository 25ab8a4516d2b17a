package handlers

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/parkshare/parkshare-backend/internal/core"
	"github.com/parkshare/parkshare-backend/internal/models"
	"github.com/parkshare/parkshare-backend/internal/services"
)

func publishBookingUpdate(c *gin.Context, booking *models.Booking) {
	err := services.PublishBookingUpdate(c.Request.Context(), booking.ID, string(booking.Status), map[string]interface{}{
		"renterId":     booking.RenterID,
		"parkingLotId": booking.ParkingLotID,
	})
	if err != nil {
		log.Printf("Failed to publish booking update for %d: %v", booking.ID, err)
	}
}

// CreateBooking requests a booking against an available listing.
func CreateBooking(engine *core.BookingEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			ParkingLotID uint      `json:"parkingLotId" binding:"required"`
			StartTime    time.Time `json:"startTime" binding:"required"`
			EndTime      time.Time `json:"endTime" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := engine.RequestBooking(c.Request.Context(), input.ParkingLotID, userId, input.StartTime, input.EndTime)
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		publishBookingUpdate(c, booking)
		c.JSON(201, booking)
	}
}

// GetBookings serves the single "my bookings" view for both roles.
func GetBookings(engine *core.BookingEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		bookings, err := engine.ListBookingsFor(c.Request.Context(), userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		// The counterpart name depends on which side of the booking the
		// viewer is on
		response := make([]gin.H, 0, len(bookings))
		for _, b := range bookings {
			counterpart := b.Renter.Name
			role := "owner"
			if b.RenterID == userId {
				counterpart = b.ParkingLot.Owner.Name
				role = "renter"
			}
			response = append(response, gin.H{
				"id":            b.ID,
				"parkingLotId":  b.ParkingLotID,
				"address":       b.Address,
				"startTime":     b.StartTime,
				"durationHours": b.DurationHours,
				"price":         b.Price,
				"status":        b.Status,
				"role":          role,
				"counterpart":   counterpart,
			})
		}

		c.JSON(200, response)
	}
}

// GetBooking returns booking details for either party.
func GetBooking(engine *core.BookingEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		booking, err := engine.GetBooking(c.Request.Context(), uint(bookingId), userId)
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		c.JSON(200, booking)
	}
}

// RespondToBooking lets the listing owner confirm or decline.
func RespondToBooking(engine *core.BookingEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		var input struct {
			Decision string `json:"decision" binding:"required,oneof=confirm decline"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := engine.RespondToBooking(c.Request.Context(), uint(bookingId), userId, core.BookingDecision(input.Decision))
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		publishBookingUpdate(c, booking)
		c.JSON(200, booking)
	}
}

// PayBooking marks a confirmed booking as paid. Payment is simulated with a
// fixed processing delay; no gateway is involved.
func PayBooking(engine *core.BookingEngine) gin.HandlerFunc {
	delay := 2 * time.Second
	if v := os.Getenv("PAYMENT_SIM_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			delay = time.Duration(ms) * time.Millisecond
		}
	}

	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}

		booking, err := engine.MarkPaid(c.Request.Context(), uint(bookingId), userId)
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		publishBookingUpdate(c, booking)
		c.JSON(200, booking)
	}
}

// CancelBooking cancels a pending or confirmed booking for either party.
func CancelBooking(engine *core.BookingEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		booking, err := engine.CancelBooking(c.Request.Context(), uint(bookingId), userId)
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		publishBookingUpdate(c, booking)
		c.JSON(200, booking)
	}
}

// CompleteBooking finishes a paid booking once the window has elapsed.
// Either party may trigger it; the cron sweep covers the rest.
func CompleteBooking(engine *core.BookingEngine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		bookingId, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		// Completion is only offered to a party of the booking
		if _, err := engine.GetBooking(c.Request.Context(), uint(bookingId), userId); err != nil {
			abortWithCoreError(c, err)
			return
		}

		booking, err := engine.CompleteBooking(c.Request.Context(), uint(bookingId))
		if err != nil {
			abortWithCoreError(c, err)
			return
		}

		publishBookingUpdate(c, booking)
		c.JSON(200, booking)
	}
}
