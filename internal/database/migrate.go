package database

import (
	"gymclass/internal/domain"

	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every table plus the partial unique
// indexes AutoMigrate cannot express. Both postgres and sqlite accept
// the partial-index syntax, so the same statements cover production and
// the test databases.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Class{},
		&domain.Reservation{},
		&domain.WaitlistEntry{},
		&domain.Notification{},
	); err != nil {
		return err
	}

	// At most one CONFIRMED reservation per (member, class); history rows
	// (cancelled/no_show/completed) stay out of the constraint.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_confirmed_reservation
ON reservations (member_id, class_id) WHERE status = 'confirmed'`).Error; err != nil {
		return err
	}

	// One active queue slot per (member, class).
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_waiting_entry
ON waitlist_entries (member_id, class_id) WHERE status = 'waiting'`).Error; err != nil {
		return err
	}

	// WAITING positions are unique per class. Concurrent joins that
	// snapshot the same maximum collide here instead of landing on
	// duplicate positions; the loser retries with a fresh maximum.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_waiting_position
ON waitlist_entries (class_id, position) WHERE status = 'waiting'`).Error
}
