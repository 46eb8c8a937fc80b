package repository

import (
	"context"
	"strings"
	"time"

	"gymclass/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB {
	return r.db
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	return conn(ctx, r.db).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	var u domain.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	var count int64
	err := conn(ctx, r.db).Model(&domain.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return conn(ctx, r.db).Save(u).Error
}

// ResetMonthlyNoShows zeroes every member's monthly counter and restores
// ACTIVE membership where a no-show block has lapsed. Run by the
// scheduled sweep at month boundaries; safe to re-run.
func (r *UserRepository) ResetMonthlyNoShows(ctx context.Context, now time.Time) (reset int64, unblocked int64, err error) {
	tx := conn(ctx, r.db).Model(&domain.User{}).
		Where("month_no_shows > 0").
		Update("month_no_shows", 0)
	if tx.Error != nil {
		return 0, 0, tx.Error
	}
	reset = tx.RowsAffected

	tx = conn(ctx, r.db).Model(&domain.User{}).
		Where("membership_status = ?", domain.MembershipSuspended).
		Where("blocked_until IS NOT NULL AND blocked_until <= ?", now).
		Updates(map[string]any{
			"membership_status": domain.MembershipActive,
			"blocked_until":     nil,
		})
	if tx.Error != nil {
		return reset, 0, tx.Error
	}
	return reset, tx.RowsAffected, nil
}
