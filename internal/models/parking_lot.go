package models

import (
	"fmt"

	"gorm.io/gorm"
)

// ParkingLot is a single parking space offered by an owner. Availability is a
// plain flag, not a calendar: the lot stays bookable until the owner toggles
// it off.
type ParkingLot struct {
	gorm.Model
	OwnerID      uint     `json:"ownerId" gorm:"not null;index"`
	Owner        User     `json:"owner"`
	Street       string   `json:"street" gorm:"not null"`
	City         string   `json:"city" gorm:"not null"`
	State        string   `json:"state" gorm:"not null"`
	ZipCode      string   `json:"zipCode" gorm:"not null"`
	Country      string   `json:"country" gorm:"not null;default:'United States'"`
	Latitude     float64  `json:"latitude" gorm:"not null"`
	Longitude    float64  `json:"longitude" gorm:"not null"`
	Instructions string   `json:"instructions"`
	PhotoURL     string   `json:"photoUrl"`
	IsAvailable  bool     `json:"isAvailable" gorm:"default:true"`
	PricePerHour float64  `json:"pricePerHour" gorm:"not null"`
	Amenities    []string `json:"amenities" gorm:"serializer:json"`
	Floor        string   `json:"floor"`
	SpotNumber   string   `json:"spotNumber"`
	Restriction  string   `json:"restriction"`
}

func (ParkingLot) TableName() string {
	return "parking_lots"
}

// DisplayAddress renders the address line snapshotted into bookings.
func (p *ParkingLot) DisplayAddress() string {
	return fmt.Sprintf("%s, %s, %s", p.Street, p.City, p.State)
}
