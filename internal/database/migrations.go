package database

import (
	"github.com/parkshare/parkshare-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.ParkingLot{},
		&models.Friendship{},
		&models.LuckyGroup{},
		&models.GroupMembership{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// Update users table
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS phone_number text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS user_type text DEFAULT 'renter'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('owner', 'renter'))`)
	}

	// Hourly rates are validated at creation time; the constraint backstops
	// direct writes
	if db.Migrator().HasTable(&models.ParkingLot{}) {
		db.Exec(`ALTER TABLE parking_lots DROP CONSTRAINT IF EXISTS parking_lots_rate_check`)
		if err := db.Exec(`ALTER TABLE parking_lots ADD CONSTRAINT parking_lots_rate_check CHECK (price_per_hour >= 0)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check
			CHECK (status IN ('pending', 'confirmed', 'declined', 'paid', 'completed', 'cancelled'))`).Error; err != nil {
			return err
		}
	}

	// One live membership row per (group, user) pair
	if db.Migrator().HasTable(&models.GroupMembership{}) {
		if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_group_members_pair
			ON group_members (group_id, user_id) WHERE deleted_at IS NULL`).Error; err != nil {
			return err
		}
	}

	return nil
}
