package account

import (
	"context"
	"errors"
	"time"

	"gymclass/internal/domain"

	"gorm.io/gorm"
)

// Service implements the no-show account policy: counters accrue per
// member, and crossing the monthly threshold suspends the membership
// for the block window. The block is a one-way ratchet inside the
// month; only the scheduled reset sweep lifts it.
type Service struct {
	members MemberRepository
	notifs  NotificationSender

	threshold int
	blockFor  time.Duration
}

func NewService(members MemberRepository, notifs NotificationSender, threshold int, blockFor time.Duration) *Service {
	return &Service{
		members:   members,
		notifs:    notifs,
		threshold: threshold,
		blockFor:  blockFor,
	}
}

func (s *Service) GetMember(ctx context.Context, memberID int64) (*domain.User, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// CanBook reports whether the member may create bookings right now.
func (s *Service) CanBook(ctx context.Context, memberID int64, now time.Time) (bool, error) {
	m, err := s.GetMember(ctx, memberID)
	if err != nil {
		return false, err
	}
	return m.CanBook(now), nil
}

// RecordNoShow increments both counters and applies the block when the
// monthly counter reaches the threshold in this call. The "account
// blocked" notification fires exactly at the crossing, a warning one
// no-show earlier.
func (s *Service) RecordNoShow(ctx context.Context, memberID int64, now time.Time) error {
	m, err := s.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	m.TotalNoShows++
	m.MonthNoShows++

	if m.MonthNoShows >= s.threshold {
		until := now.Add(s.blockFor)
		m.BlockedUntil = &until
		m.MembershipStatus = domain.MembershipSuspended
	}

	if err := s.members.Update(ctx, m); err != nil {
		return err
	}

	if s.notifs != nil {
		// The blocked notification fires only in the call that crosses
		// the threshold, not on later no-shows inside the block.
		if m.MonthNoShows == s.threshold {
			_ = s.notifs.NotifyAccountBlocked(ctx, m.ID, *m.BlockedUntil)
		} else if m.MonthNoShows == s.threshold-1 {
			_ = s.notifs.NotifyNoShowWarning(ctx, m.ID, m.MonthNoShows, s.threshold)
		}
	}

	return nil
}

// ResetMonthlyCounters is the periodic sweep entry point.
func (s *Service) ResetMonthlyCounters(ctx context.Context, now time.Time) (reset int64, unblocked int64, err error) {
	return s.members.ResetMonthlyNoShows(ctx, now)
}
