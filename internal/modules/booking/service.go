package booking

import (
	"context"
	"errors"
	"time"

	"gymclass/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Service is the reservation state machine. Confirmed is the only
// non-terminal state; cancel, no-show and complete are the outgoing
// transitions, each guarded by the class clock and the account policy.
type Service struct {
	reservations ReservationRepository
	classes      ClassRepository
	accounts     AccountPolicy
	notifs       NotificationSender
	promoter     WaitlistPromoter

	cancelLeadTime time.Duration
}

func NewService(
	reservations ReservationRepository,
	classes ClassRepository,
	accounts AccountPolicy,
	notifs NotificationSender,
	cancelLeadTime time.Duration,
) *Service {
	if cancelLeadTime <= 0 {
		cancelLeadTime = time.Hour
	}
	return &Service{
		reservations:   reservations,
		classes:        classes,
		accounts:       accounts,
		notifs:         notifs,
		cancelLeadTime: cancelLeadTime,
	}
}

// SetPromoter wires the waitlist collaborator. Called once at startup;
// the waitlist service books through this module, so the two are
// connected after both exist.
func (s *Service) SetPromoter(p WaitlistPromoter) {
	s.promoter = p
}

// CreateBooking books a seat for the member. The seat is claimed first
// with the ledger's atomic increment, then the CONFIRMED row is
// inserted; when the insert fails the claim is released, so the seat
// invariant holds on both paths.
func (s *Service) CreateBooking(ctx context.Context, memberID, classID int64, notes string, now time.Time) (*domain.Reservation, error) {
	ok, err := s.accounts.CanBook(ctx, memberID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMemberBlocked
	}

	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !class.CanAcceptBooking(now) {
		return nil, ErrClassUnavailable
	}

	exists, err := s.reservations.ExistsConfirmed(ctx, memberID, classID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateBooking
	}

	claimed, err := s.classes.IncrementOccupied(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Lost the race for the last seat.
		return nil, ErrClassUnavailable
	}

	res := &domain.Reservation{
		MemberID: memberID,
		ClassID:  classID,
		Status:   domain.ReservationConfirmed,
		Notes:    notes,
		BookedAt: now,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		_, _ = s.classes.DecrementOccupied(ctx, classID)
		if isUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyReservationConfirmed(ctx, memberID, class, res.ID)
		if class.InstructorID != nil {
			_ = s.notifs.NotifyInstructorNewBooking(ctx, *class.InstructorID, class, memberID)
		}
	}

	return res, nil
}

// CanCancel is the pure lead-time predicate: only CONFIRMED
// reservations can be cancelled, and only before the cancellation
// window closes.
func (s *Service) CanCancel(res *domain.Reservation, class *domain.Class, now time.Time) bool {
	if res.Status != domain.ReservationConfirmed {
		return false
	}
	return now.Before(class.StartsAt.Add(-s.cancelLeadTime))
}

// CancelReservation cancels a booking. Cancelling an already-cancelled
// reservation is a no-op success. Non-privileged actors must own the
// reservation and respect the lead-time window; staff bypass both the
// window and ownership. A freed seat is offered to the class waitlist
// when the class has not started yet.
func (s *Service) CancelReservation(ctx context.Context, reservationID, actorID int64, privileged bool, now time.Time) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !privileged && res.MemberID != actorID {
		return nil, ErrForbidden
	}

	if res.Status == domain.ReservationCancelled {
		return res, nil
	}
	if res.Status == domain.ReservationNoShow {
		return nil, ErrInvalidState
	}

	class, err := s.classes.GetByID(ctx, res.ClassID)
	if err != nil {
		return nil, err
	}

	if !privileged && !s.CanCancel(res, class, now) {
		return nil, &LateCancellationError{Remaining: class.StartsAt.Sub(now)}
	}

	prior := res.Status
	res.Status = domain.ReservationCancelled
	cancelledAt := now
	res.CancelledAt = &cancelledAt
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, err
	}

	if prior == domain.ReservationConfirmed {
		_, _ = s.classes.DecrementOccupied(ctx, class.ID)

		if s.promoter != nil && !class.HasStarted(now) {
			// Promotion failures leave the entry WAITING; the next freed
			// seat retries.
			_, _ = s.promoter.PromoteNext(ctx, class.ID, now)
		}
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyReservationCancelled(ctx, res.MemberID, class, res.ID)
		if class.InstructorID != nil {
			_ = s.notifs.NotifyInstructorCancellation(ctx, *class.InstructorID, class, res.MemberID)
		}
	}

	return res, nil
}

// MarkNoShow records that the member did not attend. Valid only from
// CONFIRMED after the class has ended; frees the seat and feeds the
// account policy.
func (s *Service) MarkNoShow(ctx context.Context, reservationID, actorID int64, actorRole domain.UserRole, now time.Time) error {
	res, class, err := s.loadForAttendance(ctx, reservationID, actorID, actorRole)
	if err != nil {
		return err
	}
	if res.Status != domain.ReservationConfirmed {
		return ErrInvalidState
	}
	if !class.HasEnded(now) {
		return ErrClassNotEnded
	}

	res.Status = domain.ReservationNoShow
	if err := s.reservations.Update(ctx, res); err != nil {
		return err
	}

	_, _ = s.classes.DecrementOccupied(ctx, class.ID)

	return s.accounts.RecordNoShow(ctx, res.MemberID, now)
}

// MarkCompleted records attendance. No seat-count effect: the seat was
// occupied and the class is simply over.
func (s *Service) MarkCompleted(ctx context.Context, reservationID, actorID int64, actorRole domain.UserRole, now time.Time) error {
	res, class, err := s.loadForAttendance(ctx, reservationID, actorID, actorRole)
	if err != nil {
		return err
	}
	if res.Status != domain.ReservationConfirmed {
		return ErrInvalidState
	}
	if !class.HasEnded(now) {
		return ErrClassNotEnded
	}

	res.Status = domain.ReservationCompleted
	return s.reservations.Update(ctx, res)
}

// MarkNoShowBulk applies MarkNoShow to several reservations of one
// class, or to every remaining CONFIRMED one when all is set. Returns
// how many were marked.
func (s *Service) MarkNoShowBulk(ctx context.Context, classID int64, ids []int64, all bool, actorID int64, actorRole domain.UserRole, now time.Time) (int, error) {
	list, err := s.reservations.ListByClass(ctx, classID)
	if err != nil {
		return 0, err
	}

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	marked := 0
	for i := range list {
		res := &list[i]
		if res.Status != domain.ReservationConfirmed {
			continue
		}
		if !all && !wanted[res.ID] {
			continue
		}
		if err := s.MarkNoShow(ctx, res.ID, actorID, actorRole, now); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

func (s *Service) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListMemberReservations returns the member's reservations newest
// first, with the can_cancel predicate evaluated against now.
func (s *Service) ListMemberReservations(ctx context.Context, memberID int64, limit, offset int, now time.Time) ([]ReservationDetails, error) {
	list, err := s.reservations.ListByMember(ctx, memberID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]ReservationDetails, 0, len(list))
	for i := range list {
		res := &list[i]
		d := ReservationDetails{
			ID:          res.ID,
			ClassID:     res.ClassID,
			Status:      string(res.Status),
			BookedAt:    res.BookedAt,
			CancelledAt: res.CancelledAt,
		}
		if class, err := s.classes.GetByID(ctx, res.ClassID); err == nil {
			d.ClassName = class.Name
			d.StartsAt = class.StartsAt
			d.EndsAt = class.EndsAt
			d.CanCancel = s.CanCancel(res, class, now)
		}
		out = append(out, d)
	}
	return out, nil
}

// ListClassReservations is the instructor/admin view of one class's
// roster.
func (s *Service) ListClassReservations(ctx context.Context, classID, actorID int64, actorRole domain.UserRole) ([]domain.Reservation, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.checkAttendanceActor(class, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.reservations.ListByClass(ctx, classID)
}

func (s *Service) loadForAttendance(ctx context.Context, reservationID, actorID int64, actorRole domain.UserRole) (*domain.Reservation, *domain.Class, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	class, err := s.classes.GetByID(ctx, res.ClassID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.checkAttendanceActor(class, actorID, actorRole); err != nil {
		return nil, nil, err
	}
	return res, class, nil
}

func (s *Service) checkAttendanceActor(class *domain.Class, actorID int64, actorRole domain.UserRole) error {
	if actorRole == domain.RoleAdmin {
		return nil
	}
	if actorRole == domain.RoleInstructor && class.InstructorID != nil && *class.InstructorID == actorID {
		return nil
	}
	return ErrForbidden
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
