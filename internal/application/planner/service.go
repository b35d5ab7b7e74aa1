// Package planner provides the application layer for meal plan generation
// This implements the use cases defined in the inbound ports
package planner

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/nutrition"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const planCachePrefix = "plan:"

// Defaults are the generation options applied when a request omits them
type Defaults struct {
	Weeks           int
	MaxWeeks        int
	AllowRepeatDays int
	PreferSimple    bool
	// RandomSeed fixes the draw sequence of every generation; 0 seeds from the clock
	RandomSeed   uint64
	PlanCacheTTL time.Duration
}

// StructValidator validates tagged command structs
type StructValidator interface {
	ValidateStruct(s interface{}) error
}

// Dependencies groups the ports the service drives
type Dependencies struct {
	Profiles   outbound.UserProfileRepository
	Exclusions outbound.ExclusionRepository
	Catalog    outbound.CatalogRepository
	Plans      outbound.PlanRepository
	Cache      outbound.CacheRepository
	Events     outbound.EventPublisher
	Metrics    outbound.PlanMetrics
	Validator  StructValidator
}

// Option customizes the service
type Option func(*PlanService)

// WithRandSource overrides how each generation obtains its random source
func WithRandSource(fn func(seed uint64) mealplan.Rand) Option {
	return func(s *PlanService) {
		s.newRand = fn
	}
}

// PlanService implements the plan use cases
type PlanService struct {
	deps     Dependencies
	defaults atomic.Pointer[Defaults]
	newRand  func(seed uint64) mealplan.Rand
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(deps Dependencies, defaults Defaults, logger *zap.Logger, opts ...Option) *PlanService {
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Cache == nil {
		deps.Cache = nopCache{}
	}

	s := &PlanService{
		deps: deps,
		newRand: func(seed uint64) mealplan.Rand {
			return mealplan.NewRand(seed)
		},
		tracer: otel.Tracer("github.com/alchemorsel/mealplanner/planner"),
		logger: logger.Named("plan-service"),
	}
	s.defaults.Store(&defaults)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ inbound.PlanService = (*PlanService)(nil)

// UpdateDefaults swaps the generation defaults; in-flight generations keep
// the values they started with
func (s *PlanService) UpdateDefaults(d Defaults) {
	s.defaults.Store(&d)
	s.logger.Info("Planner defaults updated",
		zap.Int("weeks", d.Weeks),
		zap.Int("max_weeks", d.MaxWeeks),
		zap.Int("allow_repeat_days", d.AllowRepeatDays),
		zap.Bool("prefer_simple", d.PreferSimple),
	)
}

// Defaults returns the current generation defaults
func (s *PlanService) Defaults() Defaults {
	return *s.defaults.Load()
}

// GeneratePlan builds, stores and returns a new plan for a user
func (s *PlanService) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*inbound.PlanSummaryDTO, error) {
	start := time.Now()
	defaults := s.Defaults()

	if err := s.deps.Validator.ValidateStruct(cmd); err != nil {
		s.deps.Metrics.PlanFailed("validation")
		return nil, err
	}
	opts := resolveOptions(cmd, defaults)
	if opts.Weeks > defaults.MaxWeeks {
		s.deps.Metrics.PlanFailed("validation")
		return nil, errors.NewValidationError(fmt.Sprintf("weeks must be at most %d", defaults.MaxWeeks)).
			WithMetadata("weeks", opts.Weeks)
	}

	ctx, span := s.tracer.Start(ctx, "planner.GeneratePlan", trace.WithAttributes(
		attribute.String("user.id", cmd.UserID.String()),
		attribute.Int("plan.weeks", opts.Weeks),
		attribute.Int("plan.allow_repeat_days", opts.AllowRepeatDays),
		attribute.Bool("plan.prefer_simple", opts.PreferSimple),
	))
	defer span.End()

	s.logger.Info("Generating meal plan",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("weeks", opts.Weeks),
		zap.Int("allow_repeat_days", opts.AllowRepeatDays),
		zap.Bool("prefer_simple", opts.PreferSimple),
	)

	in, err := s.loadInputs(ctx, cmd.UserID)
	if err != nil {
		return nil, s.fail(span, "load", err)
	}

	target, err := targetsFor(in.profile)
	if err != nil {
		return nil, s.fail(span, "targets", err)
	}

	catalog := mealplan.NewCatalog(in.recipes, in.exclusions)
	_, assembleSpan := s.tracer.Start(ctx, "planner.Assemble")
	plan, err := mealplan.NewAssembler(s.newRand(defaults.RandomSeed)).Assemble(cmd.UserID, target, catalog, opts)
	assembleSpan.End()
	if err != nil {
		return nil, s.fail(span, "assemble", translateAssembleError(err))
	}

	if err := s.deps.Plans.Save(ctx, plan); err != nil {
		return nil, s.fail(span, "persist", errors.NewDatabaseError("save plan", err))
	}

	s.publish(ctx, plan)
	s.cachePlan(ctx, toPlanDTO(plan), defaults.PlanCacheTTL)

	elapsed := time.Since(start)
	s.deps.Metrics.PlanGenerated(opts.Weeks, plan.Stats.ReusedDays, plan.Stats.DistinctRecipes, elapsed)
	span.SetAttributes(
		attribute.String("plan.id", plan.ID.String()),
		attribute.Int("plan.reused_days", plan.Stats.ReusedDays),
	)

	s.logger.Info("Meal plan generated",
		zap.String("plan_id", plan.ID.String()),
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("days", len(plan.Days)),
		zap.Int("reused_days", plan.Stats.ReusedDays),
		zap.Int("distinct_recipes", plan.Stats.DistinctRecipes),
		zap.Duration("duration", elapsed),
	)

	summary := toSummary(plan)
	return &summary, nil
}

type planInputs struct {
	profile    *outbound.UserProfile
	exclusions mealplan.Exclusions
	recipes    []*recipe.Recipe
}

// loadInputs reads the profile, exclusions and catalog concurrently
func (s *PlanService) loadInputs(ctx context.Context, userID uuid.UUID) (*planInputs, error) {
	ctx, span := s.tracer.Start(ctx, "planner.LoadInputs")
	defer span.End()

	var in planInputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.deps.Profiles.GetProfile(gctx, userID)
		if err != nil {
			return translateUserError(userID, "load user profile", err)
		}
		in.profile = p
		return nil
	})
	g.Go(func() error {
		excl, err := s.deps.Exclusions.GetExclusions(gctx, userID)
		if err != nil {
			return translateUserError(userID, "load exclusions", err)
		}
		in.exclusions = excl
		return nil
	})
	g.Go(func() error {
		recipes, err := s.deps.Catalog.ActiveRecipes(gctx)
		if err != nil {
			return errors.NewDatabaseError("load recipe catalog", err)
		}
		in.recipes = recipes
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &in, nil
}

// GetPlan returns a stored plan, read through the plan cache
func (s *PlanService) GetPlan(ctx context.Context, planID uuid.UUID) (*inbound.PlanDTO, error) {
	key := planCachePrefix + planID.String()

	if data, err := s.deps.Cache.Get(ctx, key); err == nil {
		var dto inbound.PlanDTO
		if err := json.Unmarshal(data, &dto); err == nil {
			s.deps.Metrics.CacheLookup("plan", true)
			return &dto, nil
		}
		s.logger.Warn("Discarding unreadable cached plan", zap.String("plan_id", planID.String()))
	} else if !stderrors.Is(err, outbound.ErrCacheMiss) {
		s.logger.Warn("Plan cache read failed", zap.String("plan_id", planID.String()), zap.Error(err))
	}
	s.deps.Metrics.CacheLookup("plan", false)

	plan, err := s.deps.Plans.FindByID(ctx, planID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrPlanNotFound) {
			return nil, errors.NewPlanNotFoundError(planID.String())
		}
		return nil, errors.NewDatabaseError("load plan", err)
	}

	dto := toPlanDTO(plan)
	s.cachePlan(ctx, dto, s.Defaults().PlanCacheTTL)
	return dto, nil
}

// GetDay returns one day position of a stored plan
func (s *PlanService) GetDay(ctx context.Context, planID uuid.UUID, dayIndex int) (*inbound.DayDTO, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if dayIndex < 0 || dayIndex >= len(plan.Schedule) {
		return nil, errors.NewNotFoundError("day").
			WithMetadata("plan_id", planID.String()).
			WithMetadata("day_index", dayIndex)
	}
	day := plan.Schedule[dayIndex]
	return &day, nil
}

// ShoppingListQuery selects the shopping rows of a plan
type ShoppingListQuery struct {
	PlanID  uuid.UUID       `json:"plan_id" validate:"required"`
	Cadence inbound.Cadence `json:"cadence" validate:"cadence"`
}

// GetShoppingList returns the shopping rows of a plan. Weekly rows are the
// perishable products, monthly rows the pantry products.
func (s *PlanService) GetShoppingList(ctx context.Context, planID uuid.UUID, cadence inbound.Cadence) ([]inbound.ShoppingItemDTO, error) {
	if err := s.deps.Validator.ValidateStruct(ShoppingListQuery{PlanID: planID, Cadence: cadence}); err != nil {
		return nil, err
	}

	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	items := make([]inbound.ShoppingItemDTO, 0, len(plan.ShoppingList))
	for _, item := range plan.ShoppingList {
		switch {
		case cadence == inbound.CadenceWeekly && item.Monthly:
			continue
		case cadence == inbound.CadenceMonthly && !item.Monthly:
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetTargets computes the daily nutrition target of a user
func (s *PlanService) GetTargets(ctx context.Context, userID uuid.UUID) (*inbound.TargetsDTO, error) {
	profile, err := s.deps.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, translateUserError(userID, "load user profile", err)
	}

	target, err := targetsFor(profile)
	if err != nil {
		return nil, err
	}

	dto := toTargetsDTO(target)
	dto.UserID = userID
	dto.Goal = string(profile.Goal)
	dto.WeightKg = profile.WeightKg
	return &dto, nil
}

func (s *PlanService) fail(span trace.Span, stage string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
	s.deps.Metrics.PlanFailed(string(errors.GetCode(err)))

	s.logger.Warn("Meal plan generation failed",
		zap.String("stage", stage),
		zap.String("code", string(errors.GetCode(err))),
		zap.Error(err),
	)
	return err
}

func (s *PlanService) publish(ctx context.Context, plan *mealplan.Plan) {
	if s.deps.Events == nil {
		return
	}
	if err := s.deps.Events.Publish(ctx, plan.PullEvents()...); err != nil {
		s.logger.Error("Failed to publish plan events",
			zap.String("plan_id", plan.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *PlanService) cachePlan(ctx context.Context, dto *inbound.PlanDTO, ttl time.Duration) {
	data, err := json.Marshal(dto)
	if err != nil {
		s.logger.Warn("Failed to encode plan for cache", zap.Error(err))
		return
	}
	if err := s.deps.Cache.Set(ctx, planCachePrefix+dto.ID.String(), data, ttl); err != nil {
		s.logger.Warn("Failed to cache plan", zap.String("plan_id", dto.ID.String()), zap.Error(err))
	}
}

func resolveOptions(cmd inbound.GeneratePlanCommand, d Defaults) mealplan.Options {
	opts := mealplan.Options{
		Weeks:           d.Weeks,
		AllowRepeatDays: d.AllowRepeatDays,
		PreferSimple:    d.PreferSimple,
	}
	if cmd.Weeks != nil {
		opts.Weeks = *cmd.Weeks
	}
	if cmd.AllowRepeatDays != nil {
		opts.AllowRepeatDays = *cmd.AllowRepeatDays
	}
	if cmd.PreferSimple != nil {
		opts.PreferSimple = *cmd.PreferSimple
	}
	return opts
}

func targetsFor(p *outbound.UserProfile) (nutrition.Target, error) {
	target, err := nutrition.CalculateTargets(p.WeightKg, p.Goal)
	switch {
	case err == nil:
		return target, nil
	case stderrors.Is(err, nutrition.ErrInvalidWeight):
		return nutrition.Target{}, errors.NewInvalidWeightError(p.WeightKg, err).
			WithMetadata("user_id", p.UserID.String())
	case stderrors.Is(err, nutrition.ErrUnknownGoal):
		return nutrition.Target{}, errors.NewValidationError(err.Error()).
			WithMetadata("user_id", p.UserID.String()).
			WithCause(err)
	default:
		return nutrition.Target{}, errors.Wrap(err, "failed to compute nutrition targets")
	}
}

func translateUserError(userID uuid.UUID, op string, err error) error {
	if stderrors.Is(err, outbound.ErrUserNotFound) {
		return errors.NewUserNotFoundError(userID.String()).WithCause(err)
	}
	return errors.NewDatabaseError(op, err)
}

func translateAssembleError(err error) error {
	if slot, ok := mealplan.FailedSlot(err); ok {
		return errors.NewPlanGenerationFailedError(string(slot), err)
	}
	if stderrors.Is(err, mealplan.ErrInvalidWeeks) || stderrors.Is(err, mealplan.ErrInvalidRepeatDays) {
		return errors.NewValidationError(err.Error()).WithCause(err)
	}
	return errors.Wrap(err, "failed to assemble meal plan")
}

type nopMetrics struct{}

func (nopMetrics) PlanGenerated(int, int, int, time.Duration) {}
func (nopMetrics) PlanFailed(string)                          {}
func (nopMetrics) CacheLookup(string, bool)                   {}

// nopCache stores nothing
type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, error)              { return nil, outbound.ErrCacheMiss }
func (nopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, string) error                     { return nil }
func (nopCache) Exists(context.Context, string) (bool, error)             { return false, nil }
