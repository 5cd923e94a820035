package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/retailpos/backoffice_ledger/internal/core/ports/services"
	"github.com/retailpos/backoffice_ledger/internal/dto"
	"github.com/retailpos/backoffice_ledger/internal/middleware"
)

// ledgerHandler handles HTTP requests related to ledger transactions.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers routes related to ledger transactions.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.recordTransaction)
		transactions.GET("/:transactionID", h.getTransactionByID)
		transactions.PUT("/:transactionID/status", h.changeStatus)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
	}

	// Listing hangs off the owning period.
	rg.GET("/periods/:periodID/transactions", h.listByPeriod)
}

// recordTransaction godoc
// @Summary Record a transaction
// @Description Records a balanced transaction with at least two journal entries in an open period. Debits must equal credits.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.RecordTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Period closed or entries unbalanced"
// @Failure 500 {object} map[string]string "Failed to record transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *ledgerHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorID), slog.String("period_id", req.PeriodID))
	logger.Info("Received request to record transaction", slog.Int("entry_count", len(req.Entries)))

	created, err := h.ledgerService.RecordTransaction(c.Request.Context(), req, creatorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record transaction")
		return
	}

	logger.Info("Transaction recorded successfully", slog.String("transaction_id", created.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(created))
}

// getTransactionByID godoc
// @Summary Get a transaction
// @Description Retrieves a transaction with its journal entries
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *ledgerHandler) getTransactionByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	logger = logger.With(slog.String("transaction_id", transactionID))

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// changeStatus godoc
// @Summary Change transaction status
// @Description Moves a transaction to a new review status, subject to the allowed transition graph and the owning period being open
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   body body dto.ChangeStatusRequest true "Target status"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid status or transition"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Period closed"
// @Failure 500 {object} map[string]string "Failed to change transaction status"
// @Security BearerAuth
// @Router /transactions/{transactionID}/status [put]
func (h *ledgerHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangeStatus", slog.String("error", err.Error()))
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
		slog.String("transaction_id", transactionID),
		slog.String("requester_user_id", requesterID),
		slog.String("new_status", string(req.Status)),
	)
	logger.Info("Received request to change transaction status")

	txn, err := h.ledgerService.ChangeStatus(c.Request.Context(), transactionID, req.Status, requesterID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to change transaction status")
		return
	}

	logger.Info("Transaction status changed successfully")
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction and its journal entries. Only allowed while the owning period is open.
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Period closed"
// @Failure 500 {object} map[string]string "Failed to delete transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *ledgerHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requester user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID), slog.String("requester_user_id", requesterID))
	logger.Info("Received request to delete transaction")

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), transactionID, requesterID); err != nil {
		respondWithError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted successfully")
	c.Status(http.StatusNoContent)
}

// listByPeriod godoc
// @Summary List transactions in a period
// @Description Retrieves a paginated list of transactions belonging to a period, newest first
// @Tags transactions
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Opaque pagination token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid pagination parameters"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /periods/{periodID}/transactions [get]
func (h *ledgerHandler) listByPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListByPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("period_id", periodID))

	page, err := h.ledgerService.ListByPeriod(c.Request.Context(), periodID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}
