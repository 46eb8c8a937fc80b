package domain

import "time"

type NotificationType string

const (
	NotifReservationConfirmed NotificationType = "reservation_confirmed"
	NotifReservationCancelled NotificationType = "reservation_cancelled"
	NotifNewBooking           NotificationType = "new_booking"
	NotifBookingCancelled     NotificationType = "booking_cancelled"
	NotifClassCancelled       NotificationType = "class_cancelled"
	NotifSeatAvailable        NotificationType = "seat_available"
	NotifNoShowWarning        NotificationType = "no_show_warning"
	NotifAccountBlocked       NotificationType = "account_blocked"
	NotifReminder             NotificationType = "reminder"
)

type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "in_app"
	ChannelEmail NotificationChannel = "email"
	ChannelPush  NotificationChannel = "push"
	ChannelSMS   NotificationChannel = "sms"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification is a queued trigger event. Rows are written synchronously
// by the booking components; actual delivery (email/push) is an external
// sender that flips Status and never feeds back into booking state.
type Notification struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Type      NotificationType    `json:"type"`
	Channel   NotificationChannel `json:"channel"`
	Status    NotificationStatus  `json:"status"`
	Title     string              `json:"title"`
	Message   string              `json:"message,omitempty"`
	IsRead    bool                `json:"is_read"`
	Data      any                 `json:"data,omitempty" gorm:"serializer:json"`
	Attempts  int                 `json:"attempts,omitempty"`
	LastError string              `json:"-"`
	CreatedAt time.Time           `json:"created_at"`
	SentAt    *time.Time          `json:"sent_at,omitempty"`
	ReadAt    *time.Time          `json:"read_at,omitempty"`
}
