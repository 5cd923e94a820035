package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a register session row.
type SessionStatus string

// RegisterSession is the persistence model for a register session row. The
// per-method balance maps are stored as JSONB columns; the resolution is
// flattened into nullable columns.
type RegisterSession struct {
	SessionID        string                     `json:"sessionID"` // Primary Key (UUID)
	RegisterName     string                     `json:"registerName"`
	Status           SessionStatus              `json:"status"`
	OpenedBy         string                     `json:"openedBy"`
	OpenedAt         time.Time                  `json:"openedAt"`
	ClosedBy         *string                    `json:"closedBy"`
	ClosedAt         *time.Time                 `json:"closedAt"`
	OpeningBalances  map[string]decimal.Decimal `json:"openingBalances"`
	ExpectedBalances map[string]decimal.Decimal `json:"expectedBalances"`
	CurrentBalances  map[string]decimal.Decimal `json:"currentBalances"`
	Discrepancies    map[string]decimal.Decimal `json:"discrepancies"`
	ResolutionKind   *string                    `json:"resolutionKind"`
	ResolvedBy       *string                    `json:"resolvedBy"`
	ResolvedAt       *time.Time                 `json:"resolvedAt"`
	ResolutionNotes  *string                    `json:"resolutionNotes"`
	CloseKey         *string                    `json:"closeKey"`
	Version          int64                      `json:"version"`
}
