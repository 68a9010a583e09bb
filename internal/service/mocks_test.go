package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProvinceRepository mocks the ProvinceRepository interface
type MockProvinceRepository struct {
	mock.Mock
}

func (m *MockProvinceRepository) List(ctx context.Context) ([]domain.Province, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Province), args.Error(1)
}

func (m *MockProvinceRepository) GetByID(ctx context.Context, id int) (*domain.Province, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Province), args.Error(1)
}

// MockTravelPlanRepository mocks the TravelPlanRepository interface
type MockTravelPlanRepository struct {
	mock.Mock
}

func (m *MockTravelPlanRepository) Create(ctx context.Context, plan *domain.TravelPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockTravelPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TravelPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelPlan), args.Error(1)
}

func (m *MockTravelPlanRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, status string) ([]domain.TravelPlanDetail, error) {
	args := m.Called(ctx, ownerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TravelPlanDetail), args.Error(1)
}

func (m *MockTravelPlanRepository) Update(ctx context.Context, plan *domain.TravelPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockTravelPlanRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Bool(0), args.Error(1)
}

// MockStatsRepository mocks the StatsRepository interface
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Totals(ctx context.Context) (*domain.Totals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Totals), args.Error(1)
}

func (m *MockStatsRepository) PopularProvinces(ctx context.Context, limit int) ([]domain.PopularProvince, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PopularProvince), args.Error(1)
}

// MockProvinceCache mocks the ProvinceCache interface
type MockProvinceCache struct {
	mock.Mock
}

func (m *MockProvinceCache) Get(ctx context.Context) ([]domain.Province, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Province), args.Error(1)
}

func (m *MockProvinceCache) Set(ctx context.Context, provinces []domain.Province) error {
	args := m.Called(ctx, provinces)
	return args.Error(0)
}

// MockDatabase mocks the Database interface
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDatabase) Tables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// passthroughTx runs the unit of work without a real transaction
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
