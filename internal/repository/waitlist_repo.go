package repository

import (
	"context"
	"errors"
	"time"

	"gymclass/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type WaitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

func (r *WaitlistRepository) DB() *gorm.DB {
	return r.db
}

// Create inserts a WAITING entry with position = max(WAITING positions
// for the class) + 1, computed in the insert statement itself. Under
// read-committed MVCC two concurrent joins can still snapshot the same
// maximum; the partial unique index on (class_id, position) rejects the
// loser, which retries with a fresh maximum.
func (r *WaitlistRepository) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	if e.JoinedAt.IsZero() {
		e.JoinedAt = time.Now().UTC()
	}
	e.Status = domain.WaitlistWaiting

	const q = `
INSERT INTO waitlist_entries (member_id, class_id, status, position, joined_at, updated_at)
SELECT ?, ?, ?, COALESCE(MAX(CASE WHEN status = 'waiting' THEN position END), 0) + 1, ?, ?
FROM waitlist_entries WHERE class_id = ?
`
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = conn(ctx, r.db).Exec(q,
			e.MemberID, e.ClassID, e.Status, e.JoinedAt, e.JoinedAt, e.ClassID,
		).Error
		if err == nil || !isPositionCollision(err) {
			break
		}
	}
	if err != nil {
		return err
	}

	// Read the row back for the generated id and position.
	return conn(ctx, r.db).
		Where("member_id = ? AND class_id = ? AND status = ?",
			e.MemberID, e.ClassID, domain.WaitlistWaiting).
		First(e).Error
}

// isPositionCollision matches only the position index, not the
// one-waiting-entry-per-member index; a member duplicate must surface
// to the caller, not be retried.
func isPositionCollision(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" &&
		pgErr.ConstraintName == "idx_waiting_position"
}

func (r *WaitlistRepository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	if err := conn(ctx, r.db).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *WaitlistRepository) Update(ctx context.Context, e *domain.WaitlistEntry) error {
	return conn(ctx, r.db).Save(e).Error
}

// GetWaiting returns the member's WAITING entry for the class, if any.
func (r *WaitlistRepository) GetWaiting(ctx context.Context, memberID, classID int64) (*domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	err := conn(ctx, r.db).
		Where("member_id = ? AND class_id = ? AND status = ?",
			memberID, classID, domain.WaitlistWaiting).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// NextWaiting returns the head of the class queue: lowest position,
// earliest joined_at as tie-break.
func (r *WaitlistRepository) NextWaiting(ctx context.Context, classID int64) (*domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	err := conn(ctx, r.db).
		Where("class_id = ? AND status = ?", classID, domain.WaitlistWaiting).
		Order("position ASC, joined_at ASC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *WaitlistRepository) ListWaitingByClass(ctx context.Context, classID int64) ([]domain.WaitlistEntry, error) {
	var entries []domain.WaitlistEntry
	err := conn(ctx, r.db).
		Preload("Member").
		Where("class_id = ? AND status = ?", classID, domain.WaitlistWaiting).
		Order("position ASC, joined_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *WaitlistRepository) ListByMember(ctx context.Context, memberID int64) ([]domain.WaitlistEntry, error) {
	var entries []domain.WaitlistEntry
	err := conn(ctx, r.db).
		Preload("Class").
		Where("member_id = ?", memberID).
		Order("joined_at DESC").
		Find(&entries).Error
	return entries, err
}

// CompactAfter shifts every WAITING entry behind the removed position
// one step forward, keeping positions contiguous from 1.
func (r *WaitlistRepository) CompactAfter(ctx context.Context, classID int64, position int) error {
	return conn(ctx, r.db).Model(&domain.WaitlistEntry{}).
		Where("class_id = ? AND status = ? AND position > ?",
			classID, domain.WaitlistWaiting, position).
		UpdateColumn("position", gorm.Expr("position - 1")).Error
}

// ExpireWaitingByClass marks every WAITING entry of a class EXPIRED,
// used when the class itself is cancelled.
func (r *WaitlistRepository) ExpireWaitingByClass(ctx context.Context, classID int64, now time.Time) (int64, error) {
	tx := conn(ctx, r.db).Model(&domain.WaitlistEntry{}).
		Where("class_id = ? AND status = ?", classID, domain.WaitlistWaiting).
		Updates(map[string]any{
			"status":     domain.WaitlistExpired,
			"expires_at": now,
		})
	return tx.RowsAffected, tx.Error
}
