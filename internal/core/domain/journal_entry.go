package domain

import "github.com/shopspring/decimal"

// EntryType indicates whether a journal entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// AccountCategory is the posting category of a journal entry.
type AccountCategory string

const (
	CategoryCash       AccountCategory = "CASH"
	CategoryBank       AccountCategory = "BANK"
	CategoryInventory  AccountCategory = "INVENTORY"
	CategoryRevenue    AccountCategory = "REVENUE"
	CategoryExpense    AccountCategory = "EXPENSE"
	CategoryReceivable AccountCategory = "RECEIVABLE"
	CategoryPayable    AccountCategory = "PAYABLE"
	CategoryEquity     AccountCategory = "EQUITY"
)

// ValidAccountCategory reports whether c is one of the known categories.
func ValidAccountCategory(c AccountCategory) bool {
	switch c {
	case CategoryCash, CategoryBank, CategoryInventory, CategoryRevenue,
		CategoryExpense, CategoryReceivable, CategoryPayable, CategoryEquity:
		return true
	}
	return false
}

// JournalEntry is a single debit or credit line within a Transaction.
// Entries are created atomically with their transaction and never mutated
// independently.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`       // Primary Key (UUID)
	TransactionID   string          `json:"transactionID"` // FK -> Transaction (Not Null)
	AccountCategory AccountCategory `json:"accountCategory"`
	Amount          decimal.Decimal `json:"amount"` // Strictly positive
	EntryType       EntryType       `json:"entryType"`
	Description     string          `json:"description"`
	AuditFields
}
