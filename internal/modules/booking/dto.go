package booking

import "time"

type CreateBookingRequest struct {
	ClassID int64  `json:"class_id" binding:"required"`
	Notes   string `json:"notes"`
}

// ReservationDetails is the member-facing read model with the computed
// can_cancel predicate filled in.
type ReservationDetails struct {
	ID          int64      `json:"id"`
	ClassID     int64      `json:"class_id"`
	ClassName   string     `json:"class_name,omitempty"`
	StartsAt    time.Time  `json:"starts_at,omitempty"`
	EndsAt      time.Time  `json:"ends_at,omitempty"`
	Status      string     `json:"status"`
	BookedAt    time.Time  `json:"booked_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CanCancel   bool       `json:"can_cancel"`
}

type NoShowBulkRequest struct {
	ReservationIDs []int64 `json:"reservation_ids"`
	All            bool    `json:"all"`
}
