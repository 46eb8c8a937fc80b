package domain

import "time"

type ClassType string

const (
	ClassSpinning ClassType = "spinning"
	ClassYoga     ClassType = "yoga"
	ClassPilates  ClassType = "pilates"
	ClassStrength ClassType = "strength"
	ClassCardio   ClassType = "cardio"
)

type ClassStatus string

const (
	ClassActive    ClassStatus = "active"
	ClassCancelled ClassStatus = "cancelled"
	ClassCompleted ClassStatus = "completed"
)

type Class struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name" validate:"required"`
	Type           ClassType   `json:"type" validate:"required"`
	Description    string      `json:"description,omitempty" gorm:"type:text"`
	InstructorID   *int64      `json:"instructor_id,omitempty"`
	StartsAt       time.Time   `json:"starts_at" validate:"required"`
	EndsAt         time.Time   `json:"ends_at" validate:"required"`
	Capacity       int         `json:"capacity" validate:"required,gte=1"`
	Occupied       int         `json:"occupied"`
	Status         ClassStatus `json:"status"`
	AllowsWaitlist bool        `json:"allows_waitlist"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Instructor *User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
}

// AvailableSeats returns capacity - occupied. Never negative while the
// seat invariant holds; occupied is mutated only through the class
// repository's increment/decrement operations.
func (c *Class) AvailableSeats() int {
	return c.Capacity - c.Occupied
}

func (c *Class) IsFull() bool {
	return c.Occupied >= c.Capacity
}

// CanAcceptBooking reports whether the class accepts new bookings:
// active, not full, and scheduled today or later (date granularity).
func (c *Class) CanAcceptBooking(now time.Time) bool {
	return c.Status == ClassActive && !c.IsFull() && !startDateBefore(c.StartsAt, now)
}

// HasStarted reports whether the class start time has passed.
func (c *Class) HasStarted(now time.Time) bool {
	return !now.Before(c.StartsAt)
}

// HasEnded reports whether the class end time has passed.
func (c *Class) HasEnded(now time.Time) bool {
	return now.After(c.EndsAt)
}

func startDateBefore(startsAt, now time.Time) bool {
	sy, sm, sd := startsAt.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	start := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return start.Before(today)
}
