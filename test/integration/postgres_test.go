//go:build integration

// Package integration runs the adapters against real PostgreSQL and Redis containers
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/application/planner"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/cache"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/container"
	gormRepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/migrations"
	redisRepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/security"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/healthcheck"
	"github.com/alchemorsel/mealplanner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx    context.Context
	testDB *testutils.TestDatabase
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.testDB = testutils.SetupTestDatabase(s.T())
}

func (s *PostgresIntegrationSuite) TestMigrations_UpDownUp() {
	log := zaptest.NewLogger(s.T())
	m, err := migrations.Open(s.testDB.Config.DSN(s.testDB.Config.Host, s.testDB.Config.Port), log)
	s.Require().NoError(err)
	defer m.Close()

	s.Require().NoError(m.Up())
	version, dirty, err := m.Version()
	s.Require().NoError(err)
	s.Equal(uint(1), version)
	s.False(dirty)
	s.True(s.testDB.TableExists(s.T(), "plans"))

	s.Require().NoError(m.Down())
	s.False(s.testDB.TableExists(s.T(), "plans"))

	s.Require().NoError(m.Up())
	s.Require().NoError(m.Up(), "a second Up is a no-op")
}

func (s *PostgresIntegrationSuite) TestGenerateAndLoadPlan() {
	log := zaptest.NewLogger(s.T())
	cfg := s.testDB.Config
	cfg.AutoMigrate = true
	cfg.SeedDemoData = true

	db, err := container.OpenDatabase(s.ctx, cfg, "warn", log)
	s.Require().NoError(err)
	defer db.Close()

	s.Equal(3, s.testDB.TableCount(s.T(), "users"))

	users := gormRepo.NewUserRepository(db.DB)
	service := planner.NewPlanService(planner.Dependencies{
		Profiles:   users,
		Exclusions: users,
		Catalog:    gormRepo.NewCatalogRepository(db.DB),
		Plans:      gormRepo.NewPlanRepository(db.DB),
		Events:     container.NewEventDispatcher(log),
		Validator:  security.NewValidationService(log),
	}, planner.Defaults{Weeks: 1, MaxWeeks: 12, AllowRepeatDays: 2, RandomSeed: 42}, log)

	weeks := 2
	summary, err := service.GeneratePlan(s.ctx, inbound.GeneratePlanCommand{
		UserID: sqlite.DemoMuscleGainUserID,
		Weeks:  &weeks,
	})
	s.Require().NoError(err)
	s.Equal(14, summary.Days)

	plan, err := service.GetPlan(s.ctx, summary.ID)
	s.Require().NoError(err)
	s.Len(plan.Schedule, 14)
	s.NotEmpty(plan.ShoppingList)
	s.Equal(14, s.testDB.TableCount(s.T(), "plan_days"))

	for i, day := range plan.Schedule {
		s.Equal(i, day.Index)
		s.Equal(i/7+1, day.Week)
	}
}

func TestPostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container tests in short mode")
	}
	suite.Run(t, new(PostgresIntegrationSuite))
}

func TestRedisCacheRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container tests in short mode")
	}

	ctx := context.Background()
	log := zaptest.NewLogger(t)
	cfg := testutils.SetupTestRedis(t)

	client, err := cache.NewRedisClient(ctx, cfg, healthcheck.CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 1,
		Timeout:          time.Second,
	}, log)
	require.NoError(t, err)
	defer client.Close()

	repo := redisRepo.NewCacheRepository(client, "it:", log)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "plan", []byte(`{"id":1}`), time.Minute))
	got, err := repo.Get(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), got)

	ok, err := repo.Exists(ctx, "plan")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := client.Exists(ctx, "it:plan")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "keys carry the prefix")

	require.NoError(t, repo.Delete(ctx, "plan"))
	_, err = repo.Get(ctx, "plan")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}
