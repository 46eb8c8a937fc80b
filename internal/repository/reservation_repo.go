package repository

import (
	"context"
	"time"

	"gymclass/internal/domain"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) DB() *gorm.DB {
	return r.db
}

type reservationModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	MemberID    int64      `gorm:"column:member_id"`
	ClassID     int64      `gorm:"column:class_id"`
	Status      string     `gorm:"column:status"`
	Notes       *string    `gorm:"column:notes"`
	BookedAt    time.Time  `gorm:"column:booked_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}

	return &domain.Reservation{
		ID:          m.ID,
		MemberID:    m.MemberID,
		ClassID:     m.ClassID,
		Status:      domain.ReservationStatus(m.Status),
		Notes:       notes,
		BookedAt:    m.BookedAt,
		CancelledAt: m.CancelledAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toReservationModel(res *domain.Reservation) reservationModel {
	var notes *string
	if res.Notes != "" {
		v := res.Notes
		notes = &v
	}

	return reservationModel{
		ID:          res.ID,
		MemberID:    res.MemberID,
		ClassID:     res.ClassID,
		Status:      string(res.Status),
		Notes:       notes,
		BookedAt:    res.BookedAt,
		CancelledAt: res.CancelledAt,
		UpdatedAt:   res.UpdatedAt,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	if m.BookedAt.IsZero() {
		m.BookedAt = time.Now().UTC()
	}
	tx := conn(ctx, r.db).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	if err := conn(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainReservation(m), nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	return conn(ctx, r.db).Save(&m).Error
}

// ExistsConfirmed reports whether the member already holds a CONFIRMED
// reservation for the class.
func (r *ReservationRepository) ExistsConfirmed(ctx context.Context, memberID, classID int64) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&reservationModel{}).
		Where("member_id = ? AND class_id = ? AND status = ?",
			memberID, classID, domain.ReservationConfirmed).
		Count(&cnt).Error
	return cnt > 0, err
}

// ExistsActive reports whether a CONFIRMED or COMPLETED reservation
// exists for the pair; used by waitlist promotion to skip members who
// got their seat another way.
func (r *ReservationRepository) ExistsActive(ctx context.Context, memberID, classID int64) (bool, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&reservationModel{}).
		Where("member_id = ? AND class_id = ? AND status IN ?",
			memberID, classID,
			[]string{string(domain.ReservationConfirmed), string(domain.ReservationCompleted)}).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *ReservationRepository) ListByMember(ctx context.Context, memberID int64, limit, offset int) ([]domain.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var models []reservationModel
	err := conn(ctx, r.db).
		Where("member_id = ?", memberID).
		Order("booked_at DESC").
		Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) ListByClass(ctx context.Context, classID int64) ([]domain.Reservation, error) {
	var models []reservationModel
	err := conn(ctx, r.db).
		Where("class_id = ?", classID).
		Order("booked_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) ListConfirmedByClass(ctx context.Context, classID int64) ([]domain.Reservation, error) {
	var models []reservationModel
	err := conn(ctx, r.db).
		Where("class_id = ? AND status = ?", classID, domain.ReservationConfirmed).
		Order("booked_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) CountConfirmedByClass(ctx context.Context, classID int64) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&reservationModel{}).
		Where("class_id = ? AND status = ?", classID, domain.ReservationConfirmed).
		Count(&cnt).Error
	return cnt, err
}

// CancelConfirmedByClass cancels every CONFIRMED reservation of a
// class in one statement. Used when the class itself is cancelled; the
// caller is responsible for resetting the seat counter.
func (r *ReservationRepository) CancelConfirmedByClass(ctx context.Context, classID int64, now time.Time) (int64, error) {
	tx := conn(ctx, r.db).Model(&reservationModel{}).
		Where("class_id = ? AND status = ?", classID, domain.ReservationConfirmed).
		Updates(map[string]any{
			"status":       domain.ReservationCancelled,
			"cancelled_at": now,
		})
	return tx.RowsAffected, tx.Error
}

// CompleteConfirmedByClass flips every CONFIRMED reservation of a class
// to COMPLETED. Used by the maintenance sweep after the class ends; the
// seat counter is left untouched (the class is over).
func (r *ReservationRepository) CompleteConfirmedByClass(ctx context.Context, classID int64) (int64, error) {
	tx := conn(ctx, r.db).Model(&reservationModel{}).
		Where("class_id = ? AND status = ?", classID, domain.ReservationConfirmed).
		Update("status", domain.ReservationCompleted)
	return tx.RowsAffected, tx.Error
}
