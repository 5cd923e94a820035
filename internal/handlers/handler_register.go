package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
	"github.com/retailpos/backoffice_ledger/internal/dto"
	"github.com/retailpos/backoffice_ledger/internal/middleware"
)

// registerSessionHandler handles HTTP requests related to cash register
// sessions.
type registerSessionHandler struct {
	registerService portssvc.RegisterSvcFacade
}

func newRegisterSessionHandler(rs portssvc.RegisterSvcFacade) *registerSessionHandler {
	return &registerSessionHandler{
		registerService: rs,
	}
}

// registerSessionRoutes registers routes related to register sessions.
func registerSessionRoutes(rg *gin.RouterGroup, registerService portssvc.RegisterSvcFacade) {
	h := newRegisterSessionHandler(registerService)

	sessions := rg.Group("/registers/sessions")
	{
		sessions.POST("", h.openSession)
		sessions.GET("", h.listOpenSessions)
		sessions.GET("/:sessionID", h.getSessionByID)
		sessions.POST("/:sessionID/movements", h.recordMovement)
		sessions.POST("/:sessionID/close", h.closeSession)
		sessions.POST("/:sessionID/resolution", h.resolveDiscrepancy)
	}
}

// openSession godoc
// @Summary Open a register session
// @Description Starts a cash drawer shift with the declared opening balances per payment method
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   session body dto.OpenSessionRequest true "Session details"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to open session"
// @Security BearerAuth
// @Router /registers/sessions [post]
func (h *registerSessionHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	openerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Opener user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("opener_user_id", openerID), slog.String("register_name", req.RegisterName))
	logger.Info("Received request to open register session")

	session, err := h.registerService.OpenSession(c.Request.Context(), req, openerID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to open session")
		return
	}

	logger.Info("Register session opened successfully", slog.String("session_id", session.SessionID))
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

// listOpenSessions godoc
// @Summary List open register sessions
// @Description Retrieves all currently open register sessions ordered by opening time
// @Tags registers
// @Produce  json
// @Success 200 {array} dto.SessionResponse
// @Failure 500 {object} map[string]string "Failed to list sessions"
// @Security BearerAuth
// @Router /registers/sessions [get]
func (h *registerSessionHandler) listOpenSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sessions, err := h.registerService.ListOpenSessions(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list sessions")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponses(sessions))
}

// getSessionByID godoc
// @Summary Get a register session
// @Description Retrieves a register session with its balances, discrepancies and resolution if any
// @Tags registers
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Failed to retrieve session"
// @Security BearerAuth
// @Router /registers/sessions/{sessionID} [get]
func (h *registerSessionHandler) getSessionByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")
	logger = logger.With(slog.String("session_id", sessionID))

	session, err := h.registerService.GetSessionByID(c.Request.Context(), sessionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve session")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// recordMovement godoc
// @Summary Record a balance movement
// @Description Applies a signed delta to the expected and current balances of one payment method on an open session
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   movement body dto.RecordMovementRequest true "Movement details"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session not open"
// @Failure 500 {object} map[string]string "Failed to record movement"
// @Security BearerAuth
// @Router /registers/sessions/{sessionID}/movements [post]
func (h *registerSessionHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requester user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("session_id", sessionID),
		slog.String("requester_user_id", requesterID),
		slog.String("method", string(req.Method)),
	)
	logger.Info("Received request to record movement", slog.String("delta", req.Delta.String()))

	session, err := h.registerService.RecordMovement(c.Request.Context(), sessionID, req.Method, req.Delta, requesterID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record movement")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// closeSession godoc
// @Summary Close a register session
// @Description Snapshots the physical count, computes per-method discrepancies and either settles the session or parks it pending resolution
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   close body dto.CloseSessionRequest true "Counted balances"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already closed"
// @Failure 500 {object} map[string]string "Failed to close session"
// @Security BearerAuth
// @Router /registers/sessions/{sessionID}/close [post]
func (h *registerSessionHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	closerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Closer user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("session_id", sessionID), slog.String("closer_user_id", closerID))
	logger.Info("Received request to close register session")

	session, err := h.registerService.CloseSession(c.Request.Context(), sessionID, req, closerID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to close session")
		return
	}

	logger.Info("Register session closed", slog.String("status", string(session.Status)))
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// resolveDiscrepancy godoc
// @Summary Resolve a session discrepancy
// @Description Records the resolution decision for a discrepancy-pending session and moves it to the matching terminal state
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   resolution body dto.ResolveDiscrepancyRequest true "Resolution details"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session not pending resolution"
// @Failure 500 {object} map[string]string "Failed to resolve discrepancy"
// @Security BearerAuth
// @Router /registers/sessions/{sessionID}/resolution [post]
func (h *registerSessionHandler) resolveDiscrepancy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	var req dto.ResolveDiscrepancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolveDiscrepancy", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Approver user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("session_id", sessionID),
		slog.String("approver_user_id", approverID),
		slog.String("kind", string(req.Kind)),
	)
	logger.Info("Received request to resolve discrepancy")

	session, err := h.registerService.ResolveDiscrepancy(c.Request.Context(), sessionID, req, approverID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve discrepancy")
		return
	}

	logger.Info("Discrepancy resolved", slog.String("status", string(session.Status)))
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}
