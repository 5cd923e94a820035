package models

import "github.com/shopspring/decimal"

// TransactionStatus is the review state of a transaction row.
type TransactionStatus string

// EntryType indicates whether a journal entry line is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// Transaction is the persistence model for a transaction row. Entries live
// in their own table and are loaded separately.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	PeriodID      string            `json:"periodID"`      // FK -> financial_periods (Not Null)
	Amount        decimal.Decimal   `json:"amount"`
	Status        TransactionStatus `json:"status"`
	Description   string            `json:"description"`
	ReferenceType *string           `json:"referenceType"` // Nullable external document kind
	ReferenceID   *string           `json:"referenceID"`
	AuditFields
}

// JournalEntry is the persistence model for one debit or credit line.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`       // Primary Key (UUID)
	TransactionID   string          `json:"transactionID"` // FK -> transactions (Not Null)
	AccountCategory string          `json:"accountCategory"`
	Amount          decimal.Decimal `json:"amount"` // Positive
	EntryType       EntryType       `json:"entryType"`
	Description     string          `json:"description"`
	AuditFields
}
