package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusDeclined || s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking is a renter's request to occupy a parking lot for a time window.
// Address, duration and price are snapshotted at request time so later
// listing edits never rewrite booking history. Only Status changes after
// creation.
type Booking struct {
	gorm.Model
	ParkingLotID  uint          `json:"parkingLotId" gorm:"not null;index"`
	ParkingLot    ParkingLot    `json:"parkingLot"`
	RenterID      uint          `json:"renterId" gorm:"not null;index"`
	Renter        User          `json:"renter"`
	Address       string        `json:"address" gorm:"not null"`
	StartTime     time.Time     `json:"startTime" gorm:"not null"`
	DurationHours float64       `json:"durationHours" gorm:"not null"`
	Price         float64       `json:"price" gorm:"not null"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
}

func (Booking) TableName() string {
	return "bookings"
}

// EndTime is the end of the booked window, derived from the stored start and
// duration.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationHours * float64(time.Hour)))
}
