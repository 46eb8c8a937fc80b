package booking

import (
	"context"
	"time"

	"gymclass/internal/domain"
)

// ReservationRepository is the persistence port for reservations.
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) error
	ExistsConfirmed(ctx context.Context, memberID, classID int64) (bool, error)
	ListByMember(ctx context.Context, memberID int64, limit, offset int) ([]domain.Reservation, error)
	ListByClass(ctx context.Context, classID int64) ([]domain.Reservation, error)
}

// ClassRepository exposes the capacity ledger: reads plus the atomic
// seat claim/release operations. IncrementOccupied returning false
// means the last seat was taken by someone else.
type ClassRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Class, error)
	IncrementOccupied(ctx context.Context, classID int64) (bool, error)
	DecrementOccupied(ctx context.Context, classID int64) (bool, error)
}

// AccountPolicy is the no-show policy port.
type AccountPolicy interface {
	CanBook(ctx context.Context, memberID int64, now time.Time) (bool, error)
	RecordNoShow(ctx context.Context, memberID int64, now time.Time) error
}

// WaitlistPromoter hands the freed seat to the class queue after a
// cancellation. Optional collaborator; wired after construction because
// the waitlist service itself books through this module.
type WaitlistPromoter interface {
	PromoteNext(ctx context.Context, classID int64, now time.Time) (*domain.Reservation, error)
}

// NotificationSender receives booking trigger events; every call is
// fire-and-forget.
type NotificationSender interface {
	NotifyReservationConfirmed(ctx context.Context, memberID int64, class *domain.Class, reservationID int64) error
	NotifyReservationCancelled(ctx context.Context, memberID int64, class *domain.Class, reservationID int64) error
	NotifyInstructorNewBooking(ctx context.Context, instructorID int64, class *domain.Class, memberID int64) error
	NotifyInstructorCancellation(ctx context.Context, instructorID int64, class *domain.Class, memberID int64) error
}
