package account

import (
	"context"
	"time"

	"gymclass/internal/domain"
)

// MemberRepository is the persistence port for member accounts.
type MemberRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	ResetMonthlyNoShows(ctx context.Context, now time.Time) (reset int64, unblocked int64, err error)
}

// NotificationSender receives account-policy trigger events. Delivery
// failures are swallowed by callers.
type NotificationSender interface {
	NotifyNoShowWarning(ctx context.Context, memberID int64, monthCount, threshold int) error
	NotifyAccountBlocked(ctx context.Context, memberID int64, blockedUntil time.Time) error
}
