package repository

import (
	"context"
	"time"

	"gymclass/internal/domain"

	"gorm.io/gorm"
)

type ClassRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) DB() *gorm.DB {
	return r.db
}

// ClassFilters narrows ListAvailable results.
type ClassFilters struct {
	Type   string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

func (r *ClassRepository) Create(ctx context.Context, c *domain.Class) error {
	return conn(ctx, r.db).Create(c).Error
}

func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	var c domain.Class
	if err := conn(ctx, r.db).Preload("Instructor").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Update persists the class's descriptive fields and status. The
// occupied counter is owned by the conditional increment/decrement and
// SetOccupied below and is never written here, so a stale snapshot
// cannot clobber a seat claimed in between read and write.
func (r *ClassRepository) Update(ctx context.Context, c *domain.Class) error {
	return conn(ctx, r.db).Omit("occupied").Save(c).Error
}

// ListAvailable returns ACTIVE classes scheduled inside the filter
// window, newest day first within the window order.
func (r *ClassRepository) ListAvailable(ctx context.Context, f ClassFilters) ([]domain.Class, int64, error) {
	q := conn(ctx, r.db).Model(&domain.Class{}).
		Where("status = ?", domain.ClassActive)

	if !f.From.IsZero() {
		q = q.Where("starts_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("starts_at < ?", f.To)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	var classes []domain.Class
	err := q.Preload("Instructor").
		Order("starts_at ASC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&classes).Error
	if err != nil {
		return nil, 0, err
	}
	return classes, total, nil
}

func (r *ClassRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]domain.Class, error) {
	var classes []domain.Class
	err := conn(ctx, r.db).
		Where("instructor_id = ?", instructorID).
		Order("starts_at ASC").
		Find(&classes).Error
	return classes, err
}

// IncrementOccupied claims one seat with a single conditional UPDATE.
// Returns false when the class is full or not active; the seat counter
// can never exceed capacity through this path regardless of concurrent
// callers.
func (r *ClassRepository) IncrementOccupied(ctx context.Context, classID int64) (bool, error) {
	tx := conn(ctx, r.db).Model(&domain.Class{}).
		Where("id = ? AND status = ? AND occupied < capacity", classID, domain.ClassActive).
		UpdateColumn("occupied", gorm.Expr("occupied + 1"))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// DecrementOccupied releases one seat; no-op at zero.
func (r *ClassRepository) DecrementOccupied(ctx context.Context, classID int64) (bool, error) {
	tx := conn(ctx, r.db).Model(&domain.Class{}).
		Where("id = ? AND occupied > 0", classID).
		UpdateColumn("occupied", gorm.Expr("occupied - 1"))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// ListFinishedActive returns ACTIVE classes whose end time has passed,
// for the maintenance sweep that completes them.
func (r *ClassRepository) ListFinishedActive(ctx context.Context, now time.Time) ([]domain.Class, error) {
	var classes []domain.Class
	err := conn(ctx, r.db).
		Where("status = ? AND ends_at < ?", domain.ClassActive, now).
		Find(&classes).Error
	return classes, err
}

// OccupiedDivergence reports a class whose cached seat counter differs
// from the live count of CONFIRMED reservations.
type OccupiedDivergence struct {
	ClassID   int64 `gorm:"column:class_id"`
	Occupied  int   `gorm:"column:occupied"`
	Confirmed int   `gorm:"column:confirmed"`
}

// FindOccupiedDivergences surfaces seat-invariant violations. Any row
// here is a data-integrity defect; the reconcile sweep repairs it with
// SetOccupied.
func (r *ClassRepository) FindOccupiedDivergences(ctx context.Context) ([]OccupiedDivergence, error) {
	const q = `
SELECT c.id AS class_id, c.occupied AS occupied, COUNT(r.id) AS confirmed
FROM classes c
LEFT JOIN reservations r ON r.class_id = c.id AND r.status = 'confirmed'
GROUP BY c.id, c.occupied
HAVING c.occupied <> COUNT(r.id)
`
	var out []OccupiedDivergence
	err := conn(ctx, r.db).Raw(q).Scan(&out).Error
	return out, err
}

func (r *ClassRepository) SetOccupied(ctx context.Context, classID int64, occupied int) error {
	return conn(ctx, r.db).Model(&domain.Class{}).
		Where("id = ?", classID).
		UpdateColumn("occupied", occupied).Error
}
