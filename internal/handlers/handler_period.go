package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
	"github.com/retailpos/backoffice_ledger/internal/dto"
	"github.com/retailpos/backoffice_ledger/internal/middleware"
)

// periodHandler handles HTTP requests related to financial periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{
		periodService: ps,
	}
}

// registerPeriodRoutes registers routes related to financial periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriodByID)
		periods.POST("/:periodID/open", h.openPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
	}
}

// createPeriod godoc
// @Summary Create a new financial period
// @Description Creates a financial period covering an inclusive date interval. The interval must not overlap any existing period.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Interval overlaps an existing period"
// @Failure 500 {object} map[string]string "Failed to create period"
// @Security BearerAuth
// @Router /periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorID))
	logger.Info("Received request to create period", slog.String("period_name", req.Name))

	created, err := h.periodService.CreatePeriod(c.Request.Context(), req, creatorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create period")
		return
	}

	logger.Info("Period created successfully", slog.String("period_id", created.PeriodID))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(created))
}

// listPeriods godoc
// @Summary List financial periods
// @Description Retrieves all financial periods ordered by start date
// @Tags periods
// @Produce  json
// @Success 200 {array} dto.PeriodResponse
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list periods")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

// getPeriodByID godoc
// @Summary Get a financial period
// @Description Retrieves a financial period by its ID
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to retrieve period"
// @Security BearerAuth
// @Router /periods/{periodID} [get]
func (h *periodHandler) getPeriodByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")
	logger = logger.With(slog.String("period_id", periodID))

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), periodID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// openPeriod godoc
// @Summary Open a financial period
// @Description Transitions a period to open. At most one period may be open at a time; opening an already-open period succeeds without change.
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Another period is already open"
// @Failure 500 {object} map[string]string "Failed to open period"
// @Security BearerAuth
// @Router /periods/{periodID}/open [post]
func (h *periodHandler) openPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requester user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("period_id", periodID), slog.String("requester_user_id", requesterID))
	logger.Info("Received request to open period")

	period, err := h.periodService.OpenPeriod(c.Request.Context(), periodID, requesterID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to open period")
		return
	}

	logger.Info("Period opened successfully")
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close a financial period
// @Description Transitions a period to closed, recording who closed it and when. Closing an already-closed period is a no-op success.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Param   body body dto.ClosePeriodRequest false "Close details"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to close period"
// @Security BearerAuth
// @Router /periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	var req dto.ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for ClosePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requester user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	closedAt := time.Now().UTC()
	if req.ClosedAt != nil {
		closedAt = req.ClosedAt.UTC()
	}

	logger = logger.With(slog.String("period_id", periodID), slog.String("requester_user_id", requesterID))
	logger.Info("Received request to close period")

	period, err := h.periodService.ClosePeriod(c.Request.Context(), periodID, requesterID, closedAt)
	if err != nil {
		respondWithError(c, logger, err, "Failed to close period")
		return
	}

	logger.Info("Period closed successfully")
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
