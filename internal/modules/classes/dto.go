package classes

import "time"

type CreateClassRequest struct {
	Name           string    `json:"name" binding:"required"`
	Type           string    `json:"type" binding:"required"`
	Description    string    `json:"description"`
	InstructorID   *int64    `json:"instructor_id"`
	StartsAt       time.Time `json:"starts_at" binding:"required"`
	EndsAt         time.Time `json:"ends_at" binding:"required"`
	Capacity       int       `json:"capacity"`
	AllowsWaitlist *bool     `json:"allows_waitlist"`
}

type UpdateClassRequest struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	StartsAt       *time.Time `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	Capacity       *int       `json:"capacity"`
	AllowsWaitlist *bool      `json:"allows_waitlist"`
}

// ClassDetails is the read model handed to clients: the raw class plus
// the ledger-derived fields the UI needs.
type ClassDetails struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Description    string    `json:"description,omitempty"`
	InstructorID   *int64    `json:"instructor_id,omitempty"`
	InstructorName string    `json:"instructor_name,omitempty"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Capacity       int       `json:"capacity"`
	Occupied       int       `json:"occupied"`
	AvailableSeats int       `json:"available_seats"`
	IsFull         bool      `json:"is_full"`
	Status         string    `json:"status"`
	AllowsWaitlist bool      `json:"allows_waitlist"`
	CanBook        bool      `json:"can_book"`
}
