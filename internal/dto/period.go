package dto

import (
	"time"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
)

// CreatePeriodRequest defines the input for creating a financial period.
type CreatePeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
	// Open controls whether the period is created already accepting writes.
	Open bool `json:"open"`
}

// ClosePeriodRequest carries the effective close timestamp. Optional; the
// server time is used when absent.
type ClosePeriodRequest struct {
	ClosedAt *time.Time `json:"closedAt"`
}

// PeriodResponse defines the data returned for a financial period.
type PeriodResponse struct {
	PeriodID  string     `json:"periodID"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"startDate"`
	EndDate   time.Time  `json:"endDate"`
	Status    string     `json:"status"`
	ClosedBy  *string    `json:"closedBy,omitempty"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy string     `json:"createdBy"`
}

// ToPeriodResponse converts a domain.FinancialPeriod to its response DTO.
func ToPeriodResponse(p *domain.FinancialPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    string(p.Status),
		ClosedBy:  p.ClosedBy,
		ClosedAt:  p.ClosedAt,
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
	}
}

// ToPeriodResponses converts a slice of periods to response DTOs.
func ToPeriodResponses(periods []domain.FinancialPeriod) []PeriodResponse {
	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodResponse(&periods[i])
	}
	return responses
}
