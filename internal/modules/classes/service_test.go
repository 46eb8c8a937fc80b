package classes

import (
	"context"
	"testing"
	"time"

	"gymclass/internal/domain"
	"gymclass/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) Create(ctx context.Context, c *domain.Class) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 42
	}
	return args.Error(0)
}

func (m *MockClassRepository) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Class), args.Error(1)
}

func (m *MockClassRepository) Update(ctx context.Context, c *domain.Class) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClassRepository) ListAvailable(ctx context.Context, f repository.ClassFilters) ([]domain.Class, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Class), args.Get(1).(int64), args.Error(2)
}

func (m *MockClassRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]domain.Class, error) {
	args := m.Called(ctx, instructorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Class), args.Error(1)
}

func (m *MockClassRepository) ListFinishedActive(ctx context.Context, now time.Time) ([]domain.Class, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Class), args.Error(1)
}

func (m *MockClassRepository) SetOccupied(ctx context.Context, classID int64, occupied int) error {
	args := m.Called(ctx, classID, occupied)
	return args.Error(0)
}

type MockReservationStore struct {
	mock.Mock
}

func (m *MockReservationStore) ListConfirmedByClass(ctx context.Context, classID int64) ([]domain.Reservation, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationStore) CancelConfirmedByClass(ctx context.Context, classID int64, now time.Time) (int64, error) {
	args := m.Called(ctx, classID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationStore) CompleteConfirmedByClass(ctx context.Context, classID int64) (int64, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).(int64), args.Error(1)
}

type MockWaitlistStore struct {
	mock.Mock
}

func (m *MockWaitlistStore) ExpireWaitingByClass(ctx context.Context, classID int64, now time.Time) (int64, error) {
	args := m.Called(ctx, classID, now)
	return args.Get(0).(int64), args.Error(1)
}

// txPassthrough stands in for the transaction manager; it runs the
// function directly and counts invocations.
type txPassthrough struct {
	calls int
}

func (t *txPassthrough) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type MockClassNotifier struct {
	mock.Mock
}

func (m *MockClassNotifier) NotifyClassCancelled(ctx context.Context, memberID int64, class *domain.Class) error {
	args := m.Called(ctx, memberID, class)
	return args.Error(0)
}

func scheduledClass(id int64, startsIn time.Duration, now time.Time) *domain.Class {
	instructorID := int64(77)
	return &domain.Class{
		ID:             id,
		Name:           "Morning Yoga",
		Type:           domain.ClassYoga,
		InstructorID:   &instructorID,
		StartsAt:       now.Add(startsIn),
		EndsAt:         now.Add(startsIn + time.Hour),
		Capacity:       20,
		Occupied:       5,
		Status:         domain.ClassActive,
		AllowsWaitlist: true,
	}
}

func TestService_CreateClass_Success(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	classRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Class")).Return(nil)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	created, err := service.CreateClass(context.Background(), CreateClassRequest{
		Name:     "Evening Spin",
		Type:     "spinning",
		StartsAt: now.Add(48 * time.Hour),
		EndsAt:   now.Add(49 * time.Hour),
		Capacity: 15,
	}, 1, domain.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, domain.ClassActive, created.Status)
	assert.Equal(t, 15, created.Capacity)
	assert.Equal(t, 0, created.Occupied)
	assert.True(t, created.AllowsWaitlist)
}

func TestService_CreateClass_DefaultsCapacity(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	classRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Class")).Return(nil)

	service := NewService(classRepo, nil, nil, nil, nil, 25)

	created, err := service.CreateClass(context.Background(), CreateClassRequest{
		Name:     "Pilates",
		Type:     "pilates",
		StartsAt: now.Add(24 * time.Hour),
		EndsAt:   now.Add(25 * time.Hour),
	}, 1, domain.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, 25, created.Capacity)
}

func TestService_CreateClass_UnknownType(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	_, err := service.CreateClass(context.Background(), CreateClassRequest{
		Name:     "Underwater Basket Weaving",
		Type:     "basket_weaving",
		StartsAt: now.Add(24 * time.Hour),
		EndsAt:   now.Add(25 * time.Hour),
	}, 1, domain.RoleAdmin)

	assert.ErrorIs(t, err, ErrValidation)
	classRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateClass_EndsBeforeStarts(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	_, err := service.CreateClass(context.Background(), CreateClassRequest{
		Name:     "Yoga",
		Type:     "yoga",
		StartsAt: now.Add(25 * time.Hour),
		EndsAt:   now.Add(24 * time.Hour),
	}, 1, domain.RoleAdmin)

	assert.ErrorIs(t, err, ErrValidation)
}

// An instructor creating a class is always its instructor, whatever the
// request body says.
func TestService_CreateClass_InstructorOwnsOwnClass(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	classRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Class")).Return(nil)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	other := int64(999)
	created, err := service.CreateClass(context.Background(), CreateClassRequest{
		Name:         "Strength",
		Type:         "strength",
		InstructorID: &other,
		StartsAt:     now.Add(24 * time.Hour),
		EndsAt:       now.Add(25 * time.Hour),
	}, 77, domain.RoleInstructor)

	assert.NoError(t, err)
	assert.Equal(t, int64(77), *created.InstructorID)
}

func TestService_UpdateClass_CapacityBelowOccupied(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	class.Occupied = 12
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	smaller := 10
	_, err := service.UpdateClass(context.Background(), 10, UpdateClassRequest{Capacity: &smaller}, 1, domain.RoleAdmin)

	assert.ErrorIs(t, err, ErrValidation)
	classRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateClass_GrowCapacity(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)
	classRepo.On("Update", mock.Anything, class).Return(nil)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	bigger := 30
	updated, err := service.UpdateClass(context.Background(), 10, UpdateClassRequest{Capacity: &bigger}, 1, domain.RoleAdmin)

	assert.NoError(t, err)
	assert.Equal(t, 30, updated.Capacity)
}

func TestService_UpdateClass_ForbiddenForOtherInstructor(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	name := "Renamed"
	_, err := service.UpdateClass(context.Background(), 10, UpdateClassRequest{Name: &name}, 88, domain.RoleInstructor)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_UpdateClass_CancelledClass(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	class.Status = domain.ClassCancelled
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	name := "Renamed"
	_, err := service.UpdateClass(context.Background(), 10, UpdateClassRequest{Name: &name}, 1, domain.RoleAdmin)

	assert.ErrorIs(t, err, ErrInvalidState)
}

// Cancelling a class cancels every confirmed reservation, expires the
// waitlist, resets the seat counter, and notifies each affected member.
func TestService_CancelClass_Cascade(t *testing.T) {
	classRepo := new(MockClassRepository)
	reservations := new(MockReservationStore)
	waitlistStore := new(MockWaitlistStore)
	notifs := new(MockClassNotifier)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)
	reservations.On("ListConfirmedByClass", mock.Anything, int64(10)).Return([]domain.Reservation{
		{ID: 1, MemberID: 100, ClassID: 10, Status: domain.ReservationConfirmed},
		{ID: 2, MemberID: 200, ClassID: 10, Status: domain.ReservationConfirmed},
	}, nil)
	reservations.On("CancelConfirmedByClass", mock.Anything, int64(10), now).Return(int64(2), nil)
	classRepo.On("SetOccupied", mock.Anything, int64(10), 0).Return(nil)
	waitlistStore.On("ExpireWaitingByClass", mock.Anything, int64(10), now).Return(int64(3), nil)
	classRepo.On("Update", mock.Anything, class).Return(nil)
	notifs.On("NotifyClassCancelled", mock.Anything, int64(100), class).Return(nil)
	notifs.On("NotifyClassCancelled", mock.Anything, int64(200), class).Return(nil)

	tx := &txPassthrough{}
	service := NewService(classRepo, reservations, waitlistStore, notifs, tx, 20)

	err := service.CancelClass(context.Background(), 10, 1, domain.RoleAdmin, now)

	assert.NoError(t, err)
	assert.Equal(t, domain.ClassCancelled, class.Status)
	assert.Equal(t, 0, class.Occupied)
	assert.Equal(t, 1, tx.calls)
	reservations.AssertExpectations(t)
	waitlistStore.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

// A failing step inside the cascade surfaces the error and stops it;
// the transaction leaves the class untouched and nobody is notified.
func TestService_CancelClass_FailedCascadeStopsBeforeNotify(t *testing.T) {
	classRepo := new(MockClassRepository)
	reservations := new(MockReservationStore)
	waitlistStore := new(MockWaitlistStore)
	notifs := new(MockClassNotifier)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)
	reservations.On("ListConfirmedByClass", mock.Anything, int64(10)).Return([]domain.Reservation{
		{ID: 1, MemberID: 100, ClassID: 10, Status: domain.ReservationConfirmed},
	}, nil)
	reservations.On("CancelConfirmedByClass", mock.Anything, int64(10), now).Return(int64(1), nil)
	classRepo.On("SetOccupied", mock.Anything, int64(10), 0).Return(nil)
	waitlistStore.On("ExpireWaitingByClass", mock.Anything, int64(10), now).
		Return(int64(0), gorm.ErrInvalidTransaction)

	service := NewService(classRepo, reservations, waitlistStore, notifs, &txPassthrough{}, 20)

	err := service.CancelClass(context.Background(), 10, 1, domain.RoleAdmin, now)

	assert.Error(t, err)
	classRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	notifs.AssertNotCalled(t, "NotifyClassCancelled", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CancelClass_Idempotent(t *testing.T) {
	classRepo := new(MockClassRepository)
	reservations := new(MockReservationStore)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	class.Status = domain.ClassCancelled
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)

	service := NewService(classRepo, reservations, nil, nil, nil, 20)

	err := service.CancelClass(context.Background(), 10, 1, domain.RoleAdmin, now)

	assert.NoError(t, err)
	reservations.AssertNotCalled(t, "CancelConfirmedByClass", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CancelClass_CompletedIsFinal(t *testing.T) {
	classRepo := new(MockClassRepository)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, -48*time.Hour, now)
	class.Status = domain.ClassCompleted
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	err := service.CancelClass(context.Background(), 10, 1, domain.RoleAdmin, now)

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_CancelClass_OwnInstructorAllowed(t *testing.T) {
	classRepo := new(MockClassRepository)
	reservations := new(MockReservationStore)
	waitlistStore := new(MockWaitlistStore)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	classRepo.On("GetByID", mock.Anything, int64(10)).Return(class, nil)
	reservations.On("ListConfirmedByClass", mock.Anything, int64(10)).Return([]domain.Reservation{}, nil)
	reservations.On("CancelConfirmedByClass", mock.Anything, int64(10), now).Return(int64(0), nil)
	classRepo.On("SetOccupied", mock.Anything, int64(10), 0).Return(nil)
	waitlistStore.On("ExpireWaitingByClass", mock.Anything, int64(10), now).Return(int64(0), nil)
	classRepo.On("Update", mock.Anything, class).Return(nil)

	service := NewService(classRepo, reservations, waitlistStore, nil, nil, 20)

	err := service.CancelClass(context.Background(), 10, 77, domain.RoleInstructor, now)

	assert.NoError(t, err)
}

func TestService_CompleteFinished(t *testing.T) {
	classRepo := new(MockClassRepository)
	reservations := new(MockReservationStore)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	finished := []domain.Class{
		*scheduledClass(1, -3*time.Hour, now),
		*scheduledClass(2, -2*time.Hour, now),
	}
	classRepo.On("ListFinishedActive", mock.Anything, now).Return(finished, nil)
	reservations.On("CompleteConfirmedByClass", mock.Anything, int64(1)).Return(int64(4), nil)
	reservations.On("CompleteConfirmedByClass", mock.Anything, int64(2)).Return(int64(0), nil)
	classRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Class")).Return(nil).Twice()

	service := NewService(classRepo, reservations, nil, nil, nil, 20)

	done, err := service.CompleteFinished(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, 2, done)
	reservations.AssertExpectations(t)
}

func TestService_GetClass_NotFound(t *testing.T) {
	classRepo := new(MockClassRepository)
	classRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(classRepo, nil, nil, nil, nil, 20)

	_, err := service.GetClass(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetails_DerivedFields(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	class := scheduledClass(10, 24*time.Hour, now)
	class.Occupied = 20

	d := Details(class, now)

	assert.True(t, d.IsFull)
	assert.Equal(t, 0, d.AvailableSeats)
	assert.False(t, d.CanBook)
}
