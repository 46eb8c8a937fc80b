package waitlist

import (
	"context"
	"errors"
	"time"

	"gymclass/internal/domain"
	"gymclass/internal/modules/booking"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Service manages the per-class FIFO queues. Positions are contiguous
// from 1 among WAITING entries; leaving compacts the tail, and a freed
// seat promotes the head through the regular booking path.
type Service struct {
	entries      WaitlistRepository
	classes      ClassRepository
	reservations ReservationChecker
	booker       SeatBooker
	accounts     AccountPolicy
	notifs       NotificationSender
}

func NewService(
	entries WaitlistRepository,
	classes ClassRepository,
	reservations ReservationChecker,
	booker SeatBooker,
	accounts AccountPolicy,
	notifs NotificationSender,
) *Service {
	return &Service{
		entries:      entries,
		classes:      classes,
		reservations: reservations,
		booker:       booker,
		accounts:     accounts,
		notifs:       notifs,
	}
}

// Join appends the member to the class queue. Only full, not-yet-started
// ACTIVE classes with the waitlist enabled accept joins; a member with a
// seat or an existing WAITING entry is rejected.
func (s *Service) Join(ctx context.Context, memberID, classID int64, now time.Time) (*domain.WaitlistEntry, error) {
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
	if class.Status != domain.ClassActive || class.HasStarted(now) {
		return nil, ErrClassNotOpen
	}
	if !class.AllowsWaitlist {
		return nil, ErrWaitlistNotAllowed
	}
	if !class.IsFull() {
		return nil, ErrClassNotFull
	}

	booked, err := s.reservations.ExistsConfirmed(ctx, memberID, classID)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, ErrAlreadyBooked
	}

	if _, err := s.entries.GetWaiting(ctx, memberID, classID); err == nil {
		return nil, ErrAlreadyWaiting
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	e := &domain.WaitlistEntry{
		MemberID: memberID,
		ClassID:  classID,
		JoinedAt: now,
	}
	if err := s.entries.Create(ctx, e); err != nil {
		// The partial unique index catches a concurrent double-join.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyWaiting
		}
		return nil, err
	}
	return e, nil
}

// Leave removes the member from the queue and closes the gap behind
// them. Leaving an already-cancelled entry is a no-op success.
func (s *Service) Leave(ctx context.Context, entryID, actorID int64, privileged bool, now time.Time) (*domain.WaitlistEntry, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !privileged && e.MemberID != actorID {
		return nil, ErrForbidden
	}

	switch e.Status {
	case domain.WaitlistCancelled:
		return e, nil
	case domain.WaitlistWaiting:
	default:
		return nil, ErrInvalidState
	}

	freed := e.Position
	e.Status = domain.WaitlistCancelled
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}
	if err := s.entries.CompactAfter(ctx, e.ClassID, freed); err != nil {
		return nil, err
	}
	return e, nil
}

// PromoteNext hands a freed seat to the head of the queue. The booking
// goes through the normal path, so the promoted member is re-checked
// against the account policy and races for the seat like everyone else.
// A head who already holds a seat is settled as ASSIGNED without a new
// booking; a blocked head is dropped. When the seat is gone again the
// head stays WAITING for the next attempt. Returns nil without error
// when the queue is empty.
func (s *Service) PromoteNext(ctx context.Context, classID int64, now time.Time) (*domain.Reservation, error) {
	for {
		e, err := s.entries.NextWaiting(ctx, classID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}

		// A member who got a seat another way is satisfied, not queued;
		// mark the entry ASSIGNED without creating a second booking.
		taken, err := s.reservations.ExistsActive(ctx, e.MemberID, classID)
		if err != nil {
			return nil, err
		}
		if taken {
			if err := s.closeEntry(ctx, e, domain.WaitlistAssigned, now); err != nil {
				return nil, err
			}
			continue
		}

		res, err := s.booker.CreateBooking(ctx, e.MemberID, classID, "", now)
		if err == nil {
			if err := s.closeEntry(ctx, e, domain.WaitlistAssigned, now); err != nil {
				return nil, err
			}
			if s.notifs != nil {
				if class, cerr := s.classes.GetByID(ctx, classID); cerr == nil {
					_ = s.notifs.NotifySeatAvailable(ctx, e.MemberID, class, res.ID)
				}
			}
			return res, nil
		}

		switch {
		case errors.Is(err, booking.ErrDuplicateBooking):
			// Lost the race with the pre-check above; same outcome.
			if uerr := s.closeEntry(ctx, e, domain.WaitlistAssigned, now); uerr != nil {
				return nil, uerr
			}
		case errors.Is(err, booking.ErrMemberBlocked):
			// Blocked since joining; drop the entry and try the next.
			if uerr := s.closeEntry(ctx, e, domain.WaitlistCancelled, now); uerr != nil {
				return nil, uerr
			}
		case errors.Is(err, booking.ErrClassUnavailable):
			// Seat already reclaimed; the entry stays WAITING.
			return nil, nil
		default:
			return nil, err
		}
	}
}

// closeEntry finalizes a queue entry and closes the position gap it
// leaves behind.
func (s *Service) closeEntry(ctx context.Context, e *domain.WaitlistEntry, status domain.WaitlistStatus, now time.Time) error {
	freed := e.Position
	e.Status = status
	if status == domain.WaitlistAssigned {
		assignedAt := now
		e.AssignedAt = &assignedAt
	}
	if err := s.entries.Update(ctx, e); err != nil {
		return err
	}
	return s.entries.CompactAfter(ctx, e.ClassID, freed)
}

// ListMemberEntries returns the member's waitlist history with class
// context, newest first.
func (s *Service) ListMemberEntries(ctx context.Context, memberID int64) ([]EntryDetails, error) {
	list, err := s.entries.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	out := make([]EntryDetails, 0, len(list))
	for i := range list {
		e := &list[i]
		d := EntryDetails{
			ID:         e.ID,
			ClassID:    e.ClassID,
			Status:     string(e.Status),
			Position:   e.Position,
			JoinedAt:   e.JoinedAt,
			AssignedAt: e.AssignedAt,
		}
		if e.Class != nil {
			d.ClassName = e.Class.Name
			startsAt := e.Class.StartsAt
			d.StartsAt = &startsAt
		}
		out = append(out, d)
	}
	return out, nil
}

// ListClassQueue is the staff view of the WAITING queue in promotion
// order.
func (s *Service) ListClassQueue(ctx context.Context, classID int64) ([]domain.WaitlistEntry, error) {
	return s.entries.ListWaitingByClass(ctx, classID)
}
