package domain

import "time"

type UserRole string

const (
	RoleMember     UserRole = "member"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipInactive  MembershipStatus = "inactive"
	MembershipSuspended MembershipStatus = "suspended"
)

type User struct {
	ID               int64            `json:"id"`
	Email            string           `json:"email" validate:"required,email"`
	PasswordHash     string           `json:"-"`
	Role             UserRole         `json:"role"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone,omitempty"`
	MembershipStatus MembershipStatus `json:"membership_status"`
	TotalNoShows     int              `json:"total_no_shows"`
	MonthNoShows     int              `json:"month_no_shows"`
	BlockedUntil     *time.Time       `json:"blocked_until,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IsBlocked reports whether the user is inside a no-show block window.
// A blocked_until in the future overrides the stored membership status.
func (u *User) IsBlocked(now time.Time) bool {
	return u.BlockedUntil != nil && now.Before(*u.BlockedUntil)
}

// CanBook reports whether the user may create bookings or join waitlists.
func (u *User) CanBook(now time.Time) bool {
	return u.MembershipStatus == MembershipActive && !u.IsBlocked(now)
}
