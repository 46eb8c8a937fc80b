package waitlist

import "time"

type JoinWaitlistRequest struct {
	ClassID int64 `json:"class_id" binding:"required"`
}

// EntryDetails is the member-facing view of a queue entry.
type EntryDetails struct {
	ID         int64      `json:"id"`
	ClassID    int64      `json:"class_id"`
	ClassName  string     `json:"class_name,omitempty"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	Status     string     `json:"status"`
	Position   int        `json:"position"`
	JoinedAt   time.Time  `json:"joined_at"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
}
