package classes

import (
	"context"
	"time"

	"gymclass/internal/domain"
	"gymclass/internal/repository"
)

type ClassRepository interface {
	Create(ctx context.Context, c *domain.Class) error
	GetByID(ctx context.Context, id int64) (*domain.Class, error)
	Update(ctx context.Context, c *domain.Class) error
	ListAvailable(ctx context.Context, f repository.ClassFilters) ([]domain.Class, int64, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]domain.Class, error)
	ListFinishedActive(ctx context.Context, now time.Time) ([]domain.Class, error)
	SetOccupied(ctx context.Context, classID int64, occupied int) error
}

type ReservationStore interface {
	ListConfirmedByClass(ctx context.Context, classID int64) ([]domain.Reservation, error)
	CancelConfirmedByClass(ctx context.Context, classID int64, now time.Time) (int64, error)
	CompleteConfirmedByClass(ctx context.Context, classID int64) (int64, error)
}

type WaitlistStore interface {
	ExpireWaitingByClass(ctx context.Context, classID int64, now time.Time) (int64, error)
}

// Transactor runs fn inside one database transaction; repository calls
// made with the derived context join it and commit or roll back as a
// unit.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type NotificationSender interface {
	NotifyClassCancelled(ctx context.Context, memberID int64, class *domain.Class) error
}
