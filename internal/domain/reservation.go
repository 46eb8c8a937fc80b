package domain

import "time"

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationNoShow    ReservationStatus = "no_show"
	ReservationCompleted ReservationStatus = "completed"
)

type Reservation struct {
	ID          int64             `json:"id"`
	MemberID    int64             `json:"member_id" validate:"required"`
	ClassID     int64             `json:"class_id" validate:"required"`
	Status      ReservationStatus `json:"status"`
	Notes       string            `json:"notes,omitempty" gorm:"type:text"`
	BookedAt    time.Time         `json:"booked_at"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Member *User  `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	Class  *Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}
