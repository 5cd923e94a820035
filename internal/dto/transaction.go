package dto

import (
	"time"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is one debit or credit line of a new transaction.
type CreateEntryRequest struct {
	AccountCategory domain.AccountCategory `json:"accountCategory" binding:"required,accountcategory"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	EntryType       domain.EntryType       `json:"entryType" binding:"required,oneof=DEBIT CREDIT"`
	Description     string                 `json:"description"`
}

// RecordTransactionRequest defines the input for recording a transaction
// with its balanced journal entries.
type RecordTransactionRequest struct {
	PeriodID      string               `json:"periodID" binding:"required"`
	Description   string               `json:"description" binding:"required"`
	ReferenceType *string              `json:"referenceType"`
	ReferenceID   *string              `json:"referenceID"`
	Entries       []CreateEntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// ChangeStatusRequest defines the input for moving a transaction to a new
// review status.
type ChangeStatusRequest struct {
	Status domain.TransactionStatus `json:"status" binding:"required"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID         string          `json:"entryID"`
	AccountCategory string          `json:"accountCategory"`
	Amount          decimal.Decimal `json:"amount"`
	EntryType       string          `json:"entryType"`
	Description     string          `json:"description"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	PeriodID      string          `json:"periodID"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	ReferenceType *string         `json:"referenceType,omitempty"`
	ReferenceID   *string         `json:"referenceID,omitempty"`
	Entries       []EntryResponse `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ListTransactionsParams holds pagination parameters for listing
// transactions by period.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the next token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:         e.EntryID,
		AccountCategory: string(e.AccountCategory),
		Amount:          e.Amount,
		EntryType:       string(e.EntryType),
		Description:     e.Description,
	}
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: t.TransactionID,
		PeriodID:      t.PeriodID,
		Amount:        t.Amount,
		Status:        string(t.Status),
		Description:   t.Description,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
	if len(t.Entries) > 0 {
		resp.Entries = make([]EntryResponse, len(t.Entries))
		for i := range t.Entries {
			resp.Entries[i] = ToEntryResponse(&t.Entries[i])
		}
	}
	return resp
}

// ToTransactionResponses converts a slice of transactions to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
