// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/http/response"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

// PlanHandlers handles the meal plan endpoints
type PlanHandlers struct {
	plans   inbound.PlanService
	version string
	logger  *zap.Logger
}

// NewPlanHandlers creates the plan handlers
func NewPlanHandlers(plans inbound.PlanService, version string, logger *zap.Logger) *PlanHandlers {
	return &PlanHandlers{
		plans:   plans,
		version: version,
		logger:  logger.Named("plan-handlers"),
	}
}

// Routes mounts the handlers on r
func (h *PlanHandlers) Routes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/plans", h.GeneratePlan)
		r.Get("/targets", h.GetTargets)
	})

	r.Route("/plans/{planID}", func(r chi.Router) {
		r.Get("/", h.GetPlan)
		r.Get("/shopping-list", h.GetShoppingList)
		r.Get("/days/{dayIndex}", h.GetDay)
	})
}

// generatePlanRequest is the optional body of POST /users/{userID}/plans
type generatePlanRequest struct {
	Weeks           *int  `json:"weeks"`
	AllowRepeatDays *int  `json:"allow_repeat_days"`
	PreferSimple    *bool `json:"prefer_simple"`
}

// GeneratePlan handles POST /api/v1/users/{userID}/plans
func (h *PlanHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userID")
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req generatePlanRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
		response.Error(w, r, h.logger, errors.NewBadRequestError("Malformed request body").WithCause(err))
		return
	}

	summary, err := h.plans.GeneratePlan(r.Context(), inbound.GeneratePlanCommand{
		UserID:          userID,
		Weeks:           req.Weeks,
		AllowRepeatDays: req.AllowRepeatDays,
		PreferSimple:    req.PreferSimple,
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/plans/"+summary.ID.String())
	response.JSON(w, h.logger, http.StatusCreated, summary, "Meal plan generated")
}

// GetPlan handles GET /api/v1/plans/{planID}
func (h *PlanHandlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := uuidParam(r, "planID")
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	plan, err := h.plans.GetPlan(r.Context(), planID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, plan, "")
}

// GetShoppingList handles GET /api/v1/plans/{planID}/shopping-list
func (h *PlanHandlers) GetShoppingList(w http.ResponseWriter, r *http.Request) {
	planID, err := uuidParam(r, "planID")
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	items, err := h.plans.GetShoppingList(r.Context(), planID, inbound.Cadence(r.URL.Query().Get("cadence")))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, items, "")
}

// GetDay handles GET /api/v1/plans/{planID}/days/{dayIndex}
func (h *PlanHandlers) GetDay(w http.ResponseWriter, r *http.Request) {
	planID, err := uuidParam(r, "planID")
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	dayIndex, err := strconv.Atoi(chi.URLParam(r, "dayIndex"))
	if err != nil {
		response.Error(w, r, h.logger, errors.NewValidationError("dayIndex must be an integer").
			WithMetadata("day_index", chi.URLParam(r, "dayIndex")))
		return
	}

	day, err := h.plans.GetDay(r.Context(), planID, dayIndex)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, day, "")
}

// GetTargets handles GET /api/v1/users/{userID}/targets
func (h *PlanHandlers) GetTargets(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "userID")
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	targets, err := h.plans.GetTargets(r.Context(), userID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, h.logger, http.StatusOK, targets, "")
}

// Health handles GET /api/v1/health
func (h *PlanHandlers) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().Unix(),
	}, "Service is healthy")
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.NewValidationError(name+" must be a UUID").
			WithMetadata(name, raw).
			WithCause(err)
	}
	return id, nil
}
