package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/logiflow/team-balancer/internal/config"
	"github.com/logiflow/team-balancer/internal/engine"
	"github.com/logiflow/team-balancer/internal/models"
	"github.com/logiflow/team-balancer/pkg/cache"
)

// OptimizationHandler handles partition optimization endpoints
type OptimizationHandler struct {
	engine *engine.Engine
	cache  *cache.ResultCache
	config *config.Config
	logger *logrus.Logger
}

// NewOptimizationHandler creates a new optimization handler
func NewOptimizationHandler(
	eng *engine.Engine,
	resultCache *cache.ResultCache,
	cfg *config.Config,
	logger *logrus.Logger,
) *OptimizationHandler {
	return &OptimizationHandler{
		engine: eng,
		cache:  resultCache,
		config: cfg,
		logger: logger,
	}
}

// OptimizeRoster handles POST /api/v1/optimize: one balanced two-team split
// of the submitted roster.
func (h *OptimizationHandler) OptimizeRoster(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	budget := h.budget(req)
	opts := engine.Options{SolverTimeLimit: budget}
	key := cache.RosterKey(req.Players, budget)

	result, err := h.cache.Do(c.Request.Context(), key, h.config.CacheTTL, func() (*models.PartitionResult, error) {
		return h.engine.Optimize(c.Request.Context(), req.Players, opts)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// OptimizeCohorts handles POST /api/v1/optimize/cohorts: the roster is split
// into birth-year cohorts and each cohort is balanced independently.
func (h *OptimizationHandler) OptimizeCohorts(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	opts := engine.Options{SolverTimeLimit: h.budget(req)}
	results, err := h.engine.OptimizeCohorts(c.Request.Context(), req.Players, opts)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cohorts": results})
}

func (h *OptimizationHandler) budget(req models.OptimizeRequest) time.Duration {
	if req.SolverTimeLimitSeconds > 0 {
		return time.Duration(req.SolverTimeLimitSeconds * float64(time.Second))
	}
	return h.config.SolverTimeLimit
}

func (h *OptimizationHandler) respondError(c *gin.Context, err error) {
	var infeasible *engine.InfeasibleRosterError
	switch {
	case errors.Is(err, engine.ErrEmptyRoster):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
			Code:  "EMPTY_ROSTER",
		})
	case errors.Is(err, engine.ErrInvalidPlayer):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_PLAYER",
		})
	case errors.As(err, &infeasible):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: err.Error(),
			Code:  "INFEASIBLE_ROSTER",
			Details: map[string]string{
				"reason": infeasible.Reason,
			},
		})
	case errors.Is(err, engine.ErrSolverTimeout):
		c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{
			Error: err.Error(),
			Code:  "SOLVER_TIMEOUT",
		})
	default:
		h.logger.WithError(err).Error("Optimization failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Internal optimization error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
