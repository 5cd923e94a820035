package domain

import "github.com/shopspring/decimal"

// TransactionStatus is the review state of a recorded transaction. The set
// mixes workflow states (pending, open) with audit-hardening states (locked,
// verified, unverified, secure); the allowed transitions between them are
// policy, not a fixed chain. See StatusPolicy.
type TransactionStatus string

const (
	TxnPending    TransactionStatus = "PENDING"
	TxnOpen       TransactionStatus = "OPEN"
	TxnLocked     TransactionStatus = "LOCKED"
	TxnVerified   TransactionStatus = "VERIFIED"
	TxnUnverified TransactionStatus = "UNVERIFIED"
	TxnSecure     TransactionStatus = "SECURE"
)

// ValidTransactionStatus reports whether s is one of the known statuses.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TxnPending, TxnOpen, TxnLocked, TxnVerified, TxnUnverified, TxnSecure:
		return true
	}
	return false
}

// Transaction is a recorded monetary event composed of balanced journal
// entries. It belongs to exactly one FinancialPeriod and becomes immutable
// once that period closes.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	PeriodID      string            `json:"periodID"`      // FK -> FinancialPeriod (Not Null)
	Amount        decimal.Decimal   `json:"amount"`        // Sum of the debit side; non-negative
	Status        TransactionStatus `json:"status"`        // Default: PENDING
	Description   string            `json:"description"`
	ReferenceType *string           `json:"referenceType,omitempty"` // External business document (sale, purchase, ...)
	ReferenceID   *string           `json:"referenceID,omitempty"`
	Entries       []JournalEntry    `json:"entries,omitempty"`
	AuditFields
}

// StatusPolicy maps a transaction status to the set of statuses it may move
// to. It is supplied by the caller; DefaultStatusPolicy is the stock table.
type StatusPolicy map[TransactionStatus][]TransactionStatus

// Allows reports whether the policy permits moving from one status to
// another.
func (p StatusPolicy) Allows(from, to TransactionStatus) bool {
	for _, s := range p[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DefaultStatusPolicy returns the stock transition table. SECURE is
// terminal; UNVERIFIED can be reworked back into the flow.
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{
		TxnPending:    {TxnOpen, TxnLocked, TxnUnverified},
		TxnOpen:       {TxnLocked, TxnVerified, TxnUnverified},
		TxnLocked:     {TxnVerified, TxnSecure},
		TxnVerified:   {TxnSecure},
		TxnUnverified: {TxnOpen, TxnLocked},
		TxnSecure:     {},
	}
}
