package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parkshare/parkshare-backend/internal/core"
	"github.com/parkshare/parkshare-backend/internal/models"
	"github.com/parkshare/parkshare-backend/internal/services"
	"github.com/parkshare/parkshare-backend/pkg/utils"
	"gorm.io/gorm"
)

type listingInput struct {
	Street       string   `json:"street"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zipCode"`
	Country      string   `json:"country"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Instructions string   `json:"instructions"`
	PhotoURL     string   `json:"photoUrl"`
	PricePerHour *float64 `json:"pricePerHour"`
	Amenities    []string `json:"amenities"`
	Floor        string   `json:"floor"`
	SpotNumber   string   `json:"spotNumber"`
	Restriction  string   `json:"restriction"`
}

// CreateListing registers a new parking lot for the authenticated owner.
// Coordinates are geocoded from the address when not supplied.
func CreateListing(db *gorm.DB, geocoder *services.Geocoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeOwner) {
			c.JSON(403, gin.H{"error": "Only owners can create listings"})
			return
		}

		var input listingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Street == "" || input.City == "" || input.State == "" {
			c.JSON(400, gin.H{"error": "Street, city and state are required"})
			return
		}
		if input.PricePerHour == nil || *input.PricePerHour < 0 {
			c.JSON(400, gin.H{"error": "Price per hour must be non-negative"})
			return
		}

		lot := models.ParkingLot{
			OwnerID:      userId,
			Street:       input.Street,
			City:         input.City,
			State:        input.State,
			ZipCode:      input.ZipCode,
			Country:      input.Country,
			Instructions: input.Instructions,
			PhotoURL:     input.PhotoURL,
			IsAvailable:  true,
			PricePerHour: *input.PricePerHour,
			Amenities:    input.Amenities,
			Floor:        input.Floor,
			SpotNumber:   input.SpotNumber,
			Restriction:  input.Restriction,
		}
		if lot.Country == "" {
			lot.Country = "United States"
		}

		if input.Latitude != nil && input.Longitude != nil {
			if !utils.ValidCoordinate(*input.Latitude, *input.Longitude) {
				c.JSON(400, gin.H{"error": "Coordinates out of range"})
				return
			}
			lot.Latitude = *input.Latitude
			lot.Longitude = *input.Longitude
		} else {
			query := fmt.Sprintf("%s, %s, %s %s", input.Street, input.City, input.State, input.ZipCode)
			result, err := geocoder.Geocode(c.Request.Context(), query)
			if err != nil {
				c.JSON(400, gin.H{"error": "Could not resolve address: " + err.Error()})
				return
			}
			lot.Latitude = result.Latitude
			lot.Longitude = result.Longitude
			if lot.ZipCode == "" {
				lot.ZipCode = result.ZipCode
			}
		}

		if err := db.Create(&lot).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create listing"})
			return
		}

		// Owner expects their own map to reflect the new spot immediately
		if err := services.InvalidateMapMarkers(c.Request.Context(), userId); err != nil {
			log.Printf("Failed to invalidate marker cache for user %d: %v", userId, err)
		}

		c.JSON(201, lot)
	}
}

// GetListings is the renter browse view: listings visible to the viewer with
// availability on, optionally filtered by location text or a lat/lng radius.
func GetListings(filter *core.VisibilityFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		lots, err := filter.VisibleAvailableListings(c.Request.Context(), userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch listings"})
			return
		}

		if location := strings.ToLower(strings.TrimSpace(c.Query("location"))); location != "" {
			matched := lots[:0]
			for _, lot := range lots {
				if strings.Contains(strings.ToLower(lot.City), location) ||
					strings.Contains(strings.ToLower(lot.Street), location) ||
					strings.Contains(strings.ToLower(lot.State), location) {
					matched = append(matched, lot)
				}
			}
			lots = matched
		}

		latStr, lngStr := c.Query("lat"), c.Query("lng")
		if latStr != "" && lngStr != "" {
			lat, errLat := strconv.ParseFloat(latStr, 64)
			lng, errLng := strconv.ParseFloat(lngStr, 64)
			if errLat != nil || errLng != nil || !utils.ValidCoordinate(lat, lng) {
				c.JSON(400, gin.H{"error": "Invalid coordinates"})
				return
			}
			radiusKm := 5.0
			if radiusStr := c.Query("radius"); radiusStr != "" {
				if r, err := strconv.ParseFloat(radiusStr, 64); err == nil && r > 0 {
					radiusKm = r
				}
			}
			nearby := lots[:0]
			for _, lot := range lots {
				if utils.IsWithinRadius(lat, lng, lot.Latitude, lot.Longitude, radiusKm) {
					nearby = append(nearby, lot)
				}
			}
			lots = nearby
		}

		c.JSON(200, lots)
	}
}

// GetMyListings returns every listing owned by the caller, available or not.
func GetMyListings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var lots []models.ParkingLot
		if err := db.Where("owner_id = ?", userId).
			Order("created_at DESC").
			Find(&lots).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch listings"})
			return
		}

		c.JSON(200, lots)
	}
}

// GetListing returns a single listing, subject to the visibility filter.
func GetListing(db *gorm.DB, filter *core.VisibilityFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		listingId := c.Param("id")

		var lot models.ParkingLot
		if err := db.Preload("Owner").First(&lot, listingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		visible, err := filter.CanView(c.Request.Context(), userId, &lot)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to check visibility"})
			return
		}
		if !visible {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		c.JSON(200, lot)
	}
}

// UpdateListing edits a listing. Only its owner may do so.
func UpdateListing(db *gorm.DB, geocoder *services.Geocoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		listingId := c.Param("id")

		var lot models.ParkingLot
		if err := db.First(&lot, listingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}
		if lot.OwnerID != userId {
			c.JSON(403, gin.H{"error": "You can only update your own listings"})
			return
		}

		var input listingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		addressChanged := false
		if input.Street != "" && input.Street != lot.Street {
			lot.Street = input.Street
			addressChanged = true
		}
		if input.City != "" && input.City != lot.City {
			lot.City = input.City
			addressChanged = true
		}
		if input.State != "" && input.State != lot.State {
			lot.State = input.State
			addressChanged = true
		}
		if input.ZipCode != "" {
			lot.ZipCode = input.ZipCode
		}
		if input.Country != "" {
			lot.Country = input.Country
		}
		if input.Instructions != "" {
			lot.Instructions = input.Instructions
		}
		if input.PhotoURL != "" {
			lot.PhotoURL = input.PhotoURL
		}
		if input.Amenities != nil {
			lot.Amenities = input.Amenities
		}
		if input.Floor != "" {
			lot.Floor = input.Floor
		}
		if input.SpotNumber != "" {
			lot.SpotNumber = input.SpotNumber
		}
		if input.Restriction != "" {
			lot.Restriction = input.Restriction
		}
		if input.PricePerHour != nil {
			if *input.PricePerHour < 0 {
				c.JSON(400, gin.H{"error": "Price per hour must be non-negative"})
				return
			}
			lot.PricePerHour = *input.PricePerHour
		}

		if input.Latitude != nil && input.Longitude != nil {
			if !utils.ValidCoordinate(*input.Latitude, *input.Longitude) {
				c.JSON(400, gin.H{"error": "Coordinates out of range"})
				return
			}
			lot.Latitude = *input.Latitude
			lot.Longitude = *input.Longitude
		} else if addressChanged {
			query := fmt.Sprintf("%s, %s, %s %s", lot.Street, lot.City, lot.State, lot.ZipCode)
			if result, err := geocoder.Geocode(c.Request.Context(), query); err == nil {
				lot.Latitude = result.Latitude
				lot.Longitude = result.Longitude
			} else {
				log.Printf("Geocoding failed for listing %d: %v", lot.ID, err)
			}
		}

		if err := db.Save(&lot).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update listing"})
			return
		}

		if err := services.InvalidateMapMarkers(c.Request.Context(), userId); err != nil {
			log.Printf("Failed to invalidate marker cache for user %d: %v", userId, err)
		}

		c.JSON(200, lot)
	}
}

// UpdateAvailability toggles the listing's availability flag.
func UpdateAvailability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		listingId := c.Param("id")

		var input struct {
			IsAvailable *bool `json:"isAvailable" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var lot models.ParkingLot
		if err := db.First(&lot, listingId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}
		if lot.OwnerID != userId {
			c.JSON(403, gin.H{"error": "You can only update your own listings"})
			return
		}

		lot.IsAvailable = *input.IsAvailable
		if err := db.Save(&lot).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update availability"})
			return
		}

		if err := services.InvalidateMapMarkers(c.Request.Context(), userId); err != nil {
			log.Printf("Failed to invalidate marker cache for user %d: %v", userId, err)
		}

		c.JSON(200, lot)
	}
}

// GetMapMarkers returns the marker projection for the viewer's map, cached
// briefly in Redis per viewer.
func GetMapMarkers(filter *core.VisibilityFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		ctx := c.Request.Context()

		if markers, err := services.GetMapMarkers(ctx, userId); err == nil {
			c.JSON(200, markers)
			return
		}

		lots, err := filter.VisibleListings(ctx, userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch listings"})
			return
		}

		markers := make([]services.MapMarker, 0, len(lots))
		for _, lot := range lots {
			markers = append(markers, services.MapMarker{
				ID:           lot.ID,
				Latitude:     lot.Latitude,
				Longitude:    lot.Longitude,
				PricePerHour: lot.PricePerHour,
				IsAvailable:  lot.IsAvailable,
				OwnerName:    lot.Owner.Name,
			})
		}

		if err := services.SetMapMarkers(ctx, userId, markers); err != nil {
			log.Printf("Failed to cache markers for user %d: %v", userId, err)
		}

		c.JSON(200, markers)
	}
}
