package notification

import (
	"context"
	"fmt"
	"time"

	"gymclass/internal/domain"
)

// Service persists trigger events and pushes them to connected members.
// Rows are written synchronously by the booking flow; websocket delivery
// is best-effort and a failed push leaves the row pending for the next
// fetch.
type Service struct {
	repo *Repository
	hub  *Hub
}

func NewService(repo *Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Create stores the event and attempts in-app delivery.
func (s *Service) Create(ctx context.Context, userID int64, t domain.NotificationType, title, message string, data map[string]any) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    t,
		Channel: domain.ChannelInApp,
		Status:  domain.NotificationPending,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.hub != nil && s.hub.SendToUser(userID, n) {
		_ = s.repo.MarkSent(ctx, n.ID, time.Now().UTC())
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID, time.Now().UTC())
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID, time.Now().UTC())
}

func (s *Service) NotifyReservationConfirmed(ctx context.Context, memberID int64, class *domain.Class, reservationID int64) error {
	return s.Create(
		ctx,
		memberID,
		domain.NotifReservationConfirmed,
		"Reservation confirmed",
		fmt.Sprintf("Your seat for %s on %s is confirmed", class.Name, class.StartsAt.Format("02.01.2006 15:04")),
		map[string]any{
			"reservation_id": reservationID,
			"class_id":       class.ID,
		},
	)
}

func (s *Service) NotifyReservationCancelled(ctx context.Context, memberID int64, class *domain.Class, reservationID int64) error {
	return s.Create(
		ctx,
		memberID,
		domain.NotifReservationCancelled,
		"Reservation cancelled",
		fmt.Sprintf("Your reservation for %s has been cancelled", class.Name),
		map[string]any{
			"reservation_id": reservationID,
			"class_id":       class.ID,
		},
	)
}

func (s *Service) NotifyInstructorNewBooking(ctx context.Context, instructorID int64, class *domain.Class, memberID int64) error {
	return s.Create(
		ctx,
		instructorID,
		domain.NotifNewBooking,
		"New booking",
		fmt.Sprintf("A member booked a seat in %s on %s", class.Name, class.StartsAt.Format("02.01.2006 15:04")),
		map[string]any{
			"class_id":  class.ID,
			"member_id": memberID,
		},
	)
}

func (s *Service) NotifyInstructorCancellation(ctx context.Context, instructorID int64, class *domain.Class, memberID int64) error {
	return s.Create(
		ctx,
		instructorID,
		domain.NotifBookingCancelled,
		"Booking cancelled",
		fmt.Sprintf("A member cancelled their seat in %s", class.Name),
		map[string]any{
			"class_id":  class.ID,
			"member_id": memberID,
		},
	)
}

func (s *Service) NotifySeatAvailable(ctx context.Context, memberID int64, class *domain.Class, reservationID int64) error {
	return s.Create(
		ctx,
		memberID,
		domain.NotifSeatAvailable,
		"A seat opened up",
		fmt.Sprintf("A seat in %s became available and was booked for you from the waitlist", class.Name),
		map[string]any{
			"reservation_id": reservationID,
			"class_id":       class.ID,
		},
	)
}

func (s *Service) NotifyClassCancelled(ctx context.Context, memberID int64, class *domain.Class) error {
	return s.Create(
		ctx,
		memberID,
		domain.NotifClassCancelled,
		"Class cancelled",
		fmt.Sprintf("%s on %s was cancelled; your reservation is void", class.Name, class.StartsAt.Format("02.01.2006 15:04")),
		map[string]any{
			"class_id": class.ID,
		},
	)
}

func (s *Service) NotifyNoShowWarning(ctx context.Context, memberID int64, count, threshold int) error {
	return s.Create(
		ctx,
		memberID,
		domain.NotifNoShowWarning,
		"No-show warning",
		fmt.Sprintf("You have missed %d classes this month; %d will block your account", count, threshold),
		map[string]any{
			"month_no_shows": count,
			"threshold":      threshold,
		},
	)
}

func (s *Service) NotifyAccountBlocked(ctx context.Context, memberID int64, until time.Time) error {
	return s.Create(
		ctx,
		memberID,
		domain.NotifAccountBlocked,
		"Account blocked",
		fmt.Sprintf("Too many missed classes; booking is blocked until %s", until.Format("02.01.2006")),
		map[string]any{
			"blocked_until": until,
		},
	)
}
