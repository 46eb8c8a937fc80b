package waitlist

import (
	"context"
	"time"

	"gymclass/internal/domain"
)

// WaitlistRepository is the persistence port for the per-class queues.
// Create assigns the position inside the insert statement.
type WaitlistRepository interface {
	Create(ctx context.Context, e *domain.WaitlistEntry) error
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	Update(ctx context.Context, e *domain.WaitlistEntry) error
	GetWaiting(ctx context.Context, memberID, classID int64) (*domain.WaitlistEntry, error)
	NextWaiting(ctx context.Context, classID int64) (*domain.WaitlistEntry, error)
	ListWaitingByClass(ctx context.Context, classID int64) ([]domain.WaitlistEntry, error)
	ListByMember(ctx context.Context, memberID int64) ([]domain.WaitlistEntry, error)
	CompactAfter(ctx context.Context, classID int64, position int) error
}

type ClassRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Class, error)
}

// ReservationChecker answers whether the member already holds an active
// reservation for the class. ExistsConfirmed guards joins; ExistsActive
// also counts COMPLETED and lets promotion settle entries whose member
// got a seat another way.
type ReservationChecker interface {
	ExistsConfirmed(ctx context.Context, memberID, classID int64) (bool, error)
	ExistsActive(ctx context.Context, memberID, classID int64) (bool, error)
}

// SeatBooker is the booking entry point promotions go through, so a
// promoted member gets the same checks and the same seat claim as a
// direct booking.
type SeatBooker interface {
	CreateBooking(ctx context.Context, memberID, classID int64, notes string, now time.Time) (*domain.Reservation, error)
}

type AccountPolicy interface {
	CanBook(ctx context.Context, memberID int64, now time.Time) (bool, error)
}

type NotificationSender interface {
	NotifySeatAvailable(ctx context.Context, memberID int64, class *domain.Class, reservationID int64) error
}
