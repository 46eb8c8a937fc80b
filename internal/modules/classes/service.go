package classes

import (
	"context"
	"errors"
	"time"

	"gymclass/internal/domain"
	"gymclass/internal/repository"

	"gorm.io/gorm"
)

var classTypes = map[domain.ClassType]bool{
	domain.ClassSpinning: true,
	domain.ClassYoga:     true,
	domain.ClassPilates:  true,
	domain.ClassStrength: true,
	domain.ClassCardio:   true,
}

// Service manages the class catalog and owns the administrative side of
// the capacity ledger. Seat increments/decrements during booking go
// through the class repository's atomic operations; this service only
// reads the counters and resets them on class-wide transitions.
type Service struct {
	classes      ClassRepository
	reservations ReservationStore
	waitlist     WaitlistStore
	notifs       NotificationSender
	tx           Transactor

	defaultCapacity int
}

func NewService(
	classes ClassRepository,
	reservations ReservationStore,
	waitlist WaitlistStore,
	notifs NotificationSender,
	tx Transactor,
	defaultCapacity int,
) *Service {
	if defaultCapacity < 1 {
		defaultCapacity = 20
	}
	return &Service{
		classes:         classes,
		reservations:    reservations,
		waitlist:        waitlist,
		notifs:          notifs,
		tx:              tx,
		defaultCapacity: defaultCapacity,
	}
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.Transaction(ctx, fn)
}

func (s *Service) CreateClass(ctx context.Context, req CreateClassRequest, actorID int64, actorRole domain.UserRole) (*domain.Class, error) {
	if !classTypes[domain.ClassType(req.Type)] {
		return nil, ErrValidation
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrValidation
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = s.defaultCapacity
	}
	if capacity < 1 {
		return nil, ErrValidation
	}

	instructorID := req.InstructorID
	if actorRole == domain.RoleInstructor {
		// Instructors always create classes for themselves.
		instructorID = &actorID
	}

	allowsWaitlist := true
	if req.AllowsWaitlist != nil {
		allowsWaitlist = *req.AllowsWaitlist
	}

	c := &domain.Class{
		Name:           req.Name,
		Type:           domain.ClassType(req.Type),
		Description:    req.Description,
		InstructorID:   instructorID,
		StartsAt:       req.StartsAt.UTC(),
		EndsAt:         req.EndsAt.UTC(),
		Capacity:       capacity,
		Occupied:       0,
		Status:         domain.ClassActive,
		AllowsWaitlist: allowsWaitlist,
	}

	if err := s.classes.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetClass(ctx context.Context, id int64) (*domain.Class, error) {
	c, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) ListAvailable(ctx context.Context, f repository.ClassFilters, now time.Time) ([]domain.Class, int64, error) {
	if f.From.IsZero() {
		y, m, d := now.UTC().Date()
		f.From = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return s.classes.ListAvailable(ctx, f)
}

func (s *Service) ListByInstructor(ctx context.Context, instructorID int64) ([]domain.Class, error) {
	return s.classes.ListByInstructor(ctx, instructorID)
}

func (s *Service) UpdateClass(ctx context.Context, id int64, req UpdateClassRequest, actorID int64, actorRole domain.UserRole) (*domain.Class, error) {
	c, err := s.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkActor(c, actorID, actorRole); err != nil {
		return nil, err
	}
	if c.Status != domain.ClassActive {
		return nil, ErrInvalidState
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.StartsAt != nil {
		c.StartsAt = req.StartsAt.UTC()
	}
	if req.EndsAt != nil {
		c.EndsAt = req.EndsAt.UTC()
	}
	if !c.EndsAt.After(c.StartsAt) {
		return nil, ErrValidation
	}
	if req.Capacity != nil {
		// Capacity may grow freely but can never drop below the seats
		// already claimed.
		if *req.Capacity < c.Occupied {
			return nil, ErrValidation
		}
		c.Capacity = *req.Capacity
	}
	if req.AllowsWaitlist != nil {
		c.AllowsWaitlist = *req.AllowsWaitlist
	}

	if err := s.classes.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CancelClass cancels the class and everything attached to it: every
// CONFIRMED reservation is cancelled, WAITING waitlist entries expire,
// the seat counter resets, and affected members are notified. The
// cascade runs in one transaction, so a mid-cascade failure rolls the
// whole class back and a concurrent booking either lands before the
// cascade (and is cancelled with the rest) or observes the class
// CANCELLED. Notifications go out after commit.
func (s *Service) CancelClass(ctx context.Context, id int64, actorID int64, actorRole domain.UserRole, now time.Time) error {
	c, err := s.GetClass(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkActor(c, actorID, actorRole); err != nil {
		return err
	}

	if c.Status == domain.ClassCancelled {
		return nil
	}
	if c.Status == domain.ClassCompleted {
		return ErrInvalidState
	}

	var affected []domain.Reservation
	err = s.inTx(ctx, func(ctx context.Context) error {
		var err error
		affected, err = s.reservations.ListConfirmedByClass(ctx, c.ID)
		if err != nil {
			return err
		}
		if _, err = s.reservations.CancelConfirmedByClass(ctx, c.ID, now); err != nil {
			return err
		}
		if err = s.classes.SetOccupied(ctx, c.ID, 0); err != nil {
			return err
		}
		if _, err = s.waitlist.ExpireWaitingByClass(ctx, c.ID, now); err != nil {
			return err
		}

		c.Status = domain.ClassCancelled
		c.Occupied = 0
		return s.classes.Update(ctx, c)
	})
	if err != nil {
		return err
	}

	if s.notifs != nil {
		for _, res := range affected {
			_ = s.notifs.NotifyClassCancelled(ctx, res.MemberID, c)
		}
	}

	return nil
}

// CompleteFinished transitions past ACTIVE classes (and their CONFIRMED
// reservations) to COMPLETED. Invoked by the maintenance sweep;
// re-running is harmless.
func (s *Service) CompleteFinished(ctx context.Context, now time.Time) (int, error) {
	finished, err := s.classes.ListFinishedActive(ctx, now)
	if err != nil {
		return 0, err
	}

	done := 0
	for i := range finished {
		c := &finished[i]
		err := s.inTx(ctx, func(ctx context.Context) error {
			if _, err := s.reservations.CompleteConfirmedByClass(ctx, c.ID); err != nil {
				return err
			}
			c.Status = domain.ClassCompleted
			return s.classes.Update(ctx, c)
		})
		if err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

func (s *Service) checkActor(c *domain.Class, actorID int64, actorRole domain.UserRole) error {
	if actorRole == domain.RoleAdmin {
		return nil
	}
	if actorRole == domain.RoleInstructor && c.InstructorID != nil && *c.InstructorID == actorID {
		return nil
	}
	return ErrForbidden
}

// Details builds the client-facing read model with the ledger-derived
// fields filled in.
func Details(c *domain.Class, now time.Time) ClassDetails {
	d := ClassDetails{
		ID:             c.ID,
		Name:           c.Name,
		Type:           string(c.Type),
		Description:    c.Description,
		InstructorID:   c.InstructorID,
		StartsAt:       c.StartsAt,
		EndsAt:         c.EndsAt,
		Capacity:       c.Capacity,
		Occupied:       c.Occupied,
		AvailableSeats: c.AvailableSeats(),
		IsFull:         c.IsFull(),
		Status:         string(c.Status),
		AllowsWaitlist: c.AllowsWaitlist,
		CanBook:        c.CanAcceptBooking(now),
	}
	if c.Instructor != nil {
		d.InstructorName = c.Instructor.Name
	}
	return d
}
