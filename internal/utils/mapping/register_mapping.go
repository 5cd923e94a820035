package mapping

import (
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	"github.com/retailpos/backoffice_ledger/internal/models"
	"github.com/shopspring/decimal"
)

func toModelBalances(b domain.BalanceMap) map[string]decimal.Decimal {
	if b == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(b))
	for m, v := range b {
		out[string(m)] = v
	}
	return out
}

func toDomainBalances(b map[string]decimal.Decimal) domain.BalanceMap {
	if b == nil {
		return nil
	}
	out := make(domain.BalanceMap, len(b))
	for m, v := range b {
		out[domain.PaymentMethod(m)] = v
	}
	return out
}

// ToModelSession converts a domain RegisterSession to a model
// RegisterSession, flattening the resolution into nullable columns.
func ToModelSession(d domain.RegisterSession) models.RegisterSession {
	m := models.RegisterSession{
		SessionID:        d.SessionID,
		RegisterName:     d.RegisterName,
		Status:           models.SessionStatus(d.Status),
		OpenedBy:         d.OpenedBy,
		OpenedAt:         d.OpenedAt,
		ClosedBy:         d.ClosedBy,
		ClosedAt:         d.ClosedAt,
		OpeningBalances:  toModelBalances(d.OpeningBalances),
		ExpectedBalances: toModelBalances(d.ExpectedBalances),
		CurrentBalances:  toModelBalances(d.CurrentBalances),
		Discrepancies:    toModelBalances(d.Discrepancies),
		CloseKey:         d.CloseKey,
		Version:          d.Version,
	}
	if d.Resolution != nil {
		kind := string(d.Resolution.Kind)
		resolvedAt := d.Resolution.ResolvedAt
		m.ResolutionKind = &kind
		m.ResolvedBy = &d.Resolution.ResolvedBy
		m.ResolvedAt = &resolvedAt
		m.ResolutionNotes = &d.Resolution.Notes
	}
	return m
}

// ToDomainSession converts a model RegisterSession to a domain
// RegisterSession.
func ToDomainSession(m models.RegisterSession) domain.RegisterSession {
	d := domain.RegisterSession{
		SessionID:        m.SessionID,
		RegisterName:     m.RegisterName,
		Status:           domain.SessionStatus(m.Status),
		OpenedBy:         m.OpenedBy,
		OpenedAt:         m.OpenedAt,
		ClosedBy:         m.ClosedBy,
		ClosedAt:         m.ClosedAt,
		OpeningBalances:  toDomainBalances(m.OpeningBalances),
		ExpectedBalances: toDomainBalances(m.ExpectedBalances),
		CurrentBalances:  toDomainBalances(m.CurrentBalances),
		Discrepancies:    toDomainBalances(m.Discrepancies),
		CloseKey:         m.CloseKey,
		Version:          m.Version,
	}
	if m.ResolutionKind != nil {
		d.Resolution = &domain.DiscrepancyResolution{
			Kind: domain.ResolutionKind(*m.ResolutionKind),
		}
		if m.ResolvedBy != nil {
			d.Resolution.ResolvedBy = *m.ResolvedBy
		}
		if m.ResolvedAt != nil {
			d.Resolution.ResolvedAt = *m.ResolvedAt
		}
		if m.ResolutionNotes != nil {
			d.Resolution.Notes = *m.ResolutionNotes
		}
	}
	return d
}

// ToDomainSessionSlice converts a slice of model sessions to domain
// sessions.
func ToDomainSessionSlice(ms []models.RegisterSession) []domain.RegisterSession {
	ds := make([]domain.RegisterSession, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSession(m)
	}
	return ds
}
