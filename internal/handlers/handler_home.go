package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailpos/backoffice_ledger/internal/apperrors"
)

// respondWithError maps the engine's typed failures onto HTTP statuses so
// UI code can tell a fixable input problem from an invariant violation from
// a transient storage failure.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPeriodClosed),
		errors.Is(err, apperrors.ErrPeriodOverlap),
		errors.Is(err, apperrors.ErrPeriodAlreadyOpen),
		errors.Is(err, apperrors.ErrUnbalancedEntries),
		errors.Is(err, apperrors.ErrSessionClosed),
		errors.Is(err, apperrors.ErrAlreadyResolved),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// healthHandler reports liveness.
func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
