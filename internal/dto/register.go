package dto

import (
	"time"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest defines the input for opening a register session.
type OpenSessionRequest struct {
	RegisterName    string                                   `json:"registerName" binding:"required"`
	OpeningBalances map[domain.PaymentMethod]decimal.Decimal `json:"openingBalances" binding:"required"`
}

// RecordMovementRequest defines the input for recording a balance movement
// on an open session. Delta is signed: sales are positive, refunds and
// payouts negative.
type RecordMovementRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required,paymentmethod"`
	Delta  decimal.Decimal      `json:"delta" binding:"required"`
}

// CloseSessionRequest carries the physical count taken at close. CloseKey is
// an optional idempotency key; a retried close with the same key returns the
// stored snapshot instead of a conflict.
type CloseSessionRequest struct {
	CountedBalances map[domain.PaymentMethod]decimal.Decimal `json:"countedBalances" binding:"required"`
	CloseKey        *string                                  `json:"closeKey"`
}

// ResolveDiscrepancyRequest defines the input for resolving a session
// discrepancy.
type ResolveDiscrepancyRequest struct {
	Kind  domain.ResolutionKind `json:"kind" binding:"required,resolutionkind"`
	Notes string                `json:"notes"`
}

// ResolutionResponse defines the data returned for a discrepancy resolution.
type ResolutionResponse struct {
	Kind       string    `json:"kind"`
	ResolvedBy string    `json:"resolvedBy"`
	ResolvedAt time.Time `json:"resolvedAt"`
	Notes      string    `json:"notes"`
}

// SessionResponse defines the data returned for a register session.
type SessionResponse struct {
	SessionID        string                     `json:"sessionID"`
	RegisterName     string                     `json:"registerName"`
	Status           string                     `json:"status"`
	OpenedBy         string                     `json:"openedBy"`
	OpenedAt         time.Time                  `json:"openedAt"`
	ClosedBy         *string                    `json:"closedBy,omitempty"`
	ClosedAt         *time.Time                 `json:"closedAt,omitempty"`
	OpeningBalances  map[string]decimal.Decimal `json:"openingBalances"`
	ExpectedBalances map[string]decimal.Decimal `json:"expectedBalances"`
	CurrentBalances  map[string]decimal.Decimal `json:"currentBalances"`
	Discrepancies    map[string]decimal.Decimal `json:"discrepancies,omitempty"`
	Resolution       *ResolutionResponse        `json:"resolution,omitempty"`
}

func toStringKeyed(b domain.BalanceMap) map[string]decimal.Decimal {
	if b == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(b))
	for m, v := range b {
		out[string(m)] = v
	}
	return out
}

// ToSessionResponse converts a domain.RegisterSession to its response DTO.
func ToSessionResponse(s *domain.RegisterSession) SessionResponse {
	resp := SessionResponse{
		SessionID:        s.SessionID,
		RegisterName:     s.RegisterName,
		Status:           string(s.Status),
		OpenedBy:         s.OpenedBy,
		OpenedAt:         s.OpenedAt,
		ClosedBy:         s.ClosedBy,
		ClosedAt:         s.ClosedAt,
		OpeningBalances:  toStringKeyed(s.OpeningBalances),
		ExpectedBalances: toStringKeyed(s.ExpectedBalances),
		CurrentBalances:  toStringKeyed(s.CurrentBalances),
		Discrepancies:    toStringKeyed(s.Discrepancies),
	}
	if s.Resolution != nil {
		resp.Resolution = &ResolutionResponse{
			Kind:       string(s.Resolution.Kind),
			ResolvedBy: s.Resolution.ResolvedBy,
			ResolvedAt: s.Resolution.ResolvedAt,
			Notes:      s.Resolution.Notes,
		}
	}
	return resp
}

// ToSessionResponses converts a slice of sessions to response DTOs.
func ToSessionResponses(sessions []domain.RegisterSession) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToSessionResponse(&sessions[i])
	}
	return responses
}
