// Package mocks provides mock implementations of the outbound ports for testing
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/internal/domain/shared"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserProfileRepository provides a mock implementation of UserProfileRepository
type MockUserProfileRepository struct {
	mock.Mock
}

// GetProfile returns the profile of a user
func (m *MockUserProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*outbound.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.UserProfile), args.Error(1)
}

// MockExclusionRepository provides a mock implementation of ExclusionRepository
type MockExclusionRepository struct {
	mock.Mock
}

// GetExclusions returns the exclusions of a user
func (m *MockExclusionRepository) GetExclusions(ctx context.Context, userID uuid.UUID) (mealplan.Exclusions, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(mealplan.Exclusions), args.Error(1)
}

// MockCatalogRepository provides a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

// ActiveRecipes returns the active catalog
func (m *MockCatalogRepository) ActiveRecipes(ctx context.Context) ([]*recipe.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recipe.Recipe), args.Error(1)
}

// MockPlanRepository provides a mock implementation of PlanRepository
type MockPlanRepository struct {
	mock.Mock
	plans map[uuid.UUID]*mealplan.Plan
	mu    sync.RWMutex
}

// NewMockPlanRepository creates a new mock plan repository
func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{
		plans: make(map[uuid.UUID]*mealplan.Plan),
	}
}

// Save saves a plan
func (m *MockPlanRepository) Save(ctx context.Context, p *mealplan.Plan) error {
	args := m.Called(ctx, p)

	if args.Error(0) == nil {
		m.mu.Lock()
		m.plans[p.ID] = p
		m.mu.Unlock()
	}

	return args.Error(0)
}

// FindByID finds a plan by ID, preferring plans stored through Save
func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error) {
	args := m.Called(ctx, id)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, exists := m.plans[id]; exists {
		return p, nil
	}
	if args.Get(0) == nil {
		return nil, outbound.ErrPlanNotFound
	}
	return args.Get(0).(*mealplan.Plan), nil
}

// Saved returns the number of plans stored through Save
func (m *MockPlanRepository) Saved() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plans)
}

// MockCacheRepository provides a mock cache backed by a map
type MockCacheRepository struct {
	mock.Mock
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMockCacheRepository creates a new mock cache
func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

// Get retrieves a value
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, outbound.ErrCacheMiss
}

// Set stores a value
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.data[key] = value
		m.mu.Unlock()
	}
	return args.Error(0)
}

// Delete removes a value
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return args.Error(0)
}

// Exists reports whether a key is present
func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	m.mu.RLock()
	_, ok := m.data[key]
	m.mu.RUnlock()
	return ok, args.Error(0)
}

// SetupStandardMockBehavior sets up common mock behaviors
func (m *MockCacheRepository) SetupStandardMockBehavior() {
	m.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
	m.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).Return(nil)
	m.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)
	m.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(nil)
}

// MockEventPublisher provides a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
	published []shared.DomainEvent
	mu        sync.RWMutex
}

// Publish records events
func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)

	if args.Error(0) == nil {
		m.mu.Lock()
		m.published = append(m.published, events...)
		m.mu.Unlock()
	}

	return args.Error(0)
}

// GetPublishedEvents returns all published events
func (m *MockEventPublisher) GetPublishedEvents() []shared.DomainEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]shared.DomainEvent, len(m.published))
	copy(events, m.published)
	return events
}

// MockPlanMetrics provides a mock implementation of PlanMetrics
type MockPlanMetrics struct {
	mock.Mock
}

// PlanGenerated records a successful generation
func (m *MockPlanMetrics) PlanGenerated(weeks, reusedDays, distinctRecipes int, duration time.Duration) {
	m.Called(weeks, reusedDays, distinctRecipes, duration)
}

// PlanFailed records a failed generation
func (m *MockPlanMetrics) PlanFailed(reason string) {
	m.Called(reason)
}

// CacheLookup records a cache hit or miss
func (m *MockPlanMetrics) CacheLookup(cache string, hit bool) {
	m.Called(cache, hit)
}

// SetupStandardMockBehavior accepts every observation
func (m *MockPlanMetrics) SetupStandardMockBehavior() {
	m.On("PlanGenerated", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	m.On("PlanFailed", mock.Anything).Return()
	m.On("CacheLookup", mock.Anything, mock.Anything).Return()
}

// Ports groups a mock for every outbound port
type Ports struct {
	Profiles   *MockUserProfileRepository
	Exclusions *MockExclusionRepository
	Catalog    *MockCatalogRepository
	Plans      *MockPlanRepository
	Cache      *MockCacheRepository
	Events     *MockEventPublisher
	Metrics    *MockPlanMetrics
}

// NewPorts creates mocks for every port with permissive cache and metrics behavior
func NewPorts() *Ports {
	p := &Ports{
		Profiles:   &MockUserProfileRepository{},
		Exclusions: &MockExclusionRepository{},
		Catalog:    &MockCatalogRepository{},
		Plans:      NewMockPlanRepository(),
		Cache:      NewMockCacheRepository(),
		Events:     &MockEventPublisher{},
		Metrics:    &MockPlanMetrics{},
	}
	p.Cache.SetupStandardMockBehavior()
	p.Metrics.SetupStandardMockBehavior()
	return p
}

// AssertExpectations asserts that all mocks met their expectations
func (p *Ports) AssertExpectations(t mock.TestingT) {
	p.Profiles.AssertExpectations(t)
	p.Exclusions.AssertExpectations(t)
	p.Catalog.AssertExpectations(t)
	p.Plans.AssertExpectations(t)
	p.Events.AssertExpectations(t)
}

// MockPlanService provides a mock implementation of inbound.PlanService
type MockPlanService struct {
	mock.Mock
}

// GeneratePlan generates a plan
func (m *MockPlanService) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*inbound.PlanSummaryDTO, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.PlanSummaryDTO), args.Error(1)
}

// GetPlan returns a plan
func (m *MockPlanService) GetPlan(ctx context.Context, planID uuid.UUID) (*inbound.PlanDTO, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.PlanDTO), args.Error(1)
}

// GetDay returns one day of a plan
func (m *MockPlanService) GetDay(ctx context.Context, planID uuid.UUID, dayIndex int) (*inbound.DayDTO, error) {
	args := m.Called(ctx, planID, dayIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.DayDTO), args.Error(1)
}

// GetShoppingList returns the shopping rows of a plan
func (m *MockPlanService) GetShoppingList(ctx context.Context, planID uuid.UUID, cadence inbound.Cadence) ([]inbound.ShoppingItemDTO, error) {
	args := m.Called(ctx, planID, cadence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbound.ShoppingItemDTO), args.Error(1)
}

// GetTargets returns the nutrition targets of a user
func (m *MockPlanService) GetTargets(ctx context.Context, userID uuid.UUID) (*inbound.TargetsDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.TargetsDTO), args.Error(1)
}
