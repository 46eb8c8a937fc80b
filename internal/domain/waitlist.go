package domain

import "time"

type WaitlistStatus string

const (
	WaitlistWaiting   WaitlistStatus = "waiting"
	WaitlistAssigned  WaitlistStatus = "assigned"
	WaitlistExpired   WaitlistStatus = "expired"
	WaitlistCancelled WaitlistStatus = "cancelled"
)

// WaitlistEntry is one member's slot in a class's FIFO queue. Positions
// among WAITING entries of a class are contiguous starting at 1; the
// waitlist repository owns assignment and compaction.
type WaitlistEntry struct {
	ID         int64          `json:"id"`
	MemberID   int64          `json:"member_id" validate:"required"`
	ClassID    int64          `json:"class_id" validate:"required"`
	Status     WaitlistStatus `json:"status"`
	Position   int            `json:"position"`
	JoinedAt   time.Time      `json:"joined_at"`
	AssignedAt *time.Time     `json:"assigned_at,omitempty"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Member *User  `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	Class  *Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}
