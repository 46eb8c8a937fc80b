package account

import (
	"context"
	"testing"
	"time"

	"gymclass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockMemberRepository) ResetMonthlyNoShows(ctx context.Context, now time.Time) (int64, int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) NotifyNoShowWarning(ctx context.Context, memberID int64, count, threshold int) error {
	args := m.Called(ctx, memberID, count, threshold)
	return args.Error(0)
}

func (m *MockSender) NotifyAccountBlocked(ctx context.Context, memberID int64, until time.Time) error {
	args := m.Called(ctx, memberID, until)
	return args.Error(0)
}

func activeMember(id int64, monthNoShows int) *domain.User {
	return &domain.User{
		ID:               id,
		Role:             domain.RoleMember,
		MembershipStatus: domain.MembershipActive,
		MonthNoShows:     monthNoShows,
		TotalNoShows:     monthNoShows,
	}
}

func TestService_CanBook_ActiveMember(t *testing.T) {
	members := new(MockMemberRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	members.On("GetByID", mock.Anything, int64(1)).Return(activeMember(1, 0), nil)

	service := NewService(members, nil, 3, 30*24*time.Hour)

	ok, err := service.CanBook(context.Background(), 1, now)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestService_CanBook_BlockedMember(t *testing.T) {
	members := new(MockMemberRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	m := activeMember(1, 3)
	until := now.Add(10 * 24 * time.Hour)
	m.BlockedUntil = &until
	m.MembershipStatus = domain.MembershipSuspended
	members.On("GetByID", mock.Anything, int64(1)).Return(m, nil)

	service := NewService(members, nil, 3, 30*24*time.Hour)

	ok, err := service.CanBook(context.Background(), 1, now)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestService_CanBook_NotFound(t *testing.T) {
	members := new(MockMemberRepository)
	members.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(members, nil, 3, 30*24*time.Hour)

	_, err := service.CanBook(context.Background(), 404, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

// The second no-show of the month triggers the warning, not the block.
func TestService_RecordNoShow_WarningBeforeThreshold(t *testing.T) {
	members := new(MockMemberRepository)
	notifs := new(MockSender)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	m := activeMember(1, 1)
	members.On("GetByID", mock.Anything, int64(1)).Return(m, nil)
	members.On("Update", mock.Anything, m).Return(nil)
	notifs.On("NotifyNoShowWarning", mock.Anything, int64(1), 2, 3).Return(nil)

	service := NewService(members, notifs, 3, 30*24*time.Hour)

	err := service.RecordNoShow(context.Background(), 1, now)

	assert.NoError(t, err)
	assert.Equal(t, 2, m.MonthNoShows)
	assert.Nil(t, m.BlockedUntil)
	assert.Equal(t, domain.MembershipActive, m.MembershipStatus)
	notifs.AssertExpectations(t)
	notifs.AssertNotCalled(t, "NotifyAccountBlocked", mock.Anything, mock.Anything, mock.Anything)
}

// The third no-show crosses the threshold: 30-day block, suspension,
// and exactly one blocked notification.
func TestService_RecordNoShow_ThirdBlocksAccount(t *testing.T) {
	members := new(MockMemberRepository)
	notifs := new(MockSender)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	m := activeMember(1, 2)
	members.On("GetByID", mock.Anything, int64(1)).Return(m, nil)
	members.On("Update", mock.Anything, m).Return(nil)
	notifs.On("NotifyAccountBlocked", mock.Anything, int64(1), now.Add(30*24*time.Hour)).Return(nil)

	service := NewService(members, notifs, 3, 30*24*time.Hour)

	err := service.RecordNoShow(context.Background(), 1, now)

	assert.NoError(t, err)
	assert.Equal(t, 3, m.MonthNoShows)
	assert.Equal(t, domain.MembershipSuspended, m.MembershipStatus)
	assert.NotNil(t, m.BlockedUntil)
	assert.Equal(t, now.Add(30*24*time.Hour), *m.BlockedUntil)
	notifs.AssertExpectations(t)
	notifs.AssertNotCalled(t, "NotifyNoShowWarning", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Further no-shows above the threshold re-extend the block without a
// second blocked notification.
func TestService_RecordNoShow_FourthExtendsBlockSilently(t *testing.T) {
	members := new(MockMemberRepository)
	notifs := new(MockSender)
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	m := activeMember(1, 3)
	oldUntil := now.Add(-5 * 24 * time.Hour).Add(30 * 24 * time.Hour)
	m.BlockedUntil = &oldUntil
	m.MembershipStatus = domain.MembershipSuspended

	members.On("GetByID", mock.Anything, int64(1)).Return(m, nil)
	members.On("Update", mock.Anything, m).Return(nil)

	service := NewService(members, notifs, 3, 30*24*time.Hour)

	err := service.RecordNoShow(context.Background(), 1, now)

	assert.NoError(t, err)
	assert.Equal(t, 4, m.MonthNoShows)
	assert.Equal(t, now.Add(30*24*time.Hour), *m.BlockedUntil)
	notifs.AssertNotCalled(t, "NotifyAccountBlocked", mock.Anything, mock.Anything, mock.Anything)
	notifs.AssertNotCalled(t, "NotifyNoShowWarning", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ResetMonthlyCounters(t *testing.T) {
	members := new(MockMemberRepository)
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	members.On("ResetMonthlyNoShows", mock.Anything, now).Return(int64(7), int64(2), nil)

	service := NewService(members, nil, 3, 30*24*time.Hour)

	reset, unblocked, err := service.ResetMonthlyCounters(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), reset)
	assert.Equal(t, int64(2), unblocked)
}
