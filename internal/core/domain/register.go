package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies a tender type tracked per register session.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodCard     PaymentMethod = "CARD"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodWallet   PaymentMethod = "WALLET"
	MethodCheque   PaymentMethod = "CHEQUE"
)

// ValidPaymentMethod reports whether m is one of the known methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodWallet, MethodCheque:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of a register session. The four
// resolution statuses are terminal.
type SessionStatus string

const (
	SessionOpen               SessionStatus = "OPEN"
	SessionSettled            SessionStatus = "SETTLED"
	SessionDiscrepancyPending SessionStatus = "DISCREPANCY_PENDING"
	SessionApproved           SessionStatus = "APPROVED"
	SessionDeductFromPay      SessionStatus = "DEDUCT_FROM_PAY"
	SessionWrittenOff         SessionStatus = "WRITTEN_OFF"
	SessionRejected           SessionStatus = "REJECTED"
)

// ResolutionKind is the decision applied to a non-zero discrepancy.
type ResolutionKind string

const (
	ResolutionApproved      ResolutionKind = "APPROVED"
	ResolutionDeductFromPay ResolutionKind = "DEDUCT_FROM_PAY"
	ResolutionWrittenOff    ResolutionKind = "WRITTEN_OFF"
	ResolutionRejected      ResolutionKind = "REJECTED"
)

// ValidResolutionKind reports whether k is one of the known kinds.
func ValidResolutionKind(k ResolutionKind) bool {
	switch k {
	case ResolutionApproved, ResolutionDeductFromPay, ResolutionWrittenOff, ResolutionRejected:
		return true
	}
	return false
}

// SessionStatusForResolution maps a resolution kind to the terminal session
// status it produces.
func SessionStatusForResolution(k ResolutionKind) SessionStatus {
	switch k {
	case ResolutionApproved:
		return SessionApproved
	case ResolutionDeductFromPay:
		return SessionDeductFromPay
	case ResolutionWrittenOff:
		return SessionWrittenOff
	case ResolutionRejected:
		return SessionRejected
	}
	return SessionDiscrepancyPending
}

// DiscrepancyResolution records the decision taken on a session discrepancy.
type DiscrepancyResolution struct {
	Kind       ResolutionKind `json:"kind"`
	ResolvedBy string         `json:"resolvedBy"`
	ResolvedAt time.Time      `json:"resolvedAt"`
	Notes      string         `json:"notes"`
}

// BalanceMap holds one decimal amount per payment method.
type BalanceMap map[PaymentMethod]decimal.Decimal

// Clone returns a copy of the map so callers can mutate independently.
func (b BalanceMap) Clone() BalanceMap {
	out := make(BalanceMap, len(b))
	for m, v := range b {
		out[m] = v
	}
	return out
}

// RegisterSession is a cash-drawer shift. Expected and current balances
// move together as callers feed in movements; at close the current balances
// are overwritten with the physical count and the discrepancy per method is
// current minus expected.
type RegisterSession struct {
	SessionID        string                 `json:"sessionID"` // Primary Key (UUID)
	RegisterName     string                 `json:"registerName"`
	Status           SessionStatus          `json:"status"`
	OpenedBy         string                 `json:"openedBy"`
	OpenedAt         time.Time              `json:"openedAt"`
	ClosedBy         *string                `json:"closedBy,omitempty"`
	ClosedAt         *time.Time             `json:"closedAt,omitempty"`
	OpeningBalances  BalanceMap             `json:"openingBalances"`
	ExpectedBalances BalanceMap             `json:"expectedBalances"`
	CurrentBalances  BalanceMap             `json:"currentBalances"` // Equals expected until close, then the physical count
	Discrepancies    BalanceMap             `json:"discrepancies,omitempty"`
	Resolution       *DiscrepancyResolution `json:"resolution,omitempty"`
	CloseKey         *string                `json:"-"`       // Idempotency key supplied with the close request
	Version          int64                  `json:"version"` // Optimistic concurrency guard
}

// IsOpen reports whether the session still accepts movements and a close.
func (s *RegisterSession) IsOpen() bool {
	return s.Status == SessionOpen
}

// ComputeDiscrepancies returns counted minus expected for every method
// present in either map. Methods absent from one side count as zero.
func ComputeDiscrepancies(expected, counted BalanceMap) BalanceMap {
	out := make(BalanceMap, len(expected))
	for m, exp := range expected {
		out[m] = counted[m].Sub(exp)
	}
	for m, cnt := range counted {
		if _, ok := expected[m]; !ok {
			out[m] = cnt
		}
	}
	return out
}
