package mapping

import (
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	"github.com/retailpos/backoffice_ledger/internal/models"
)

// ToModelPeriod converts a domain FinancialPeriod to a model FinancialPeriod.
func ToModelPeriod(d domain.FinancialPeriod) models.FinancialPeriod {
	return models.FinancialPeriod{
		PeriodID:    d.PeriodID,
		Name:        d.Name,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Status:      models.PeriodStatus(d.Status),
		ClosedBy:    d.ClosedBy,
		ClosedAt:    d.ClosedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model FinancialPeriod to a domain FinancialPeriod.
func ToDomainPeriod(m models.FinancialPeriod) domain.FinancialPeriod {
	return domain.FinancialPeriod{
		PeriodID:    m.PeriodID,
		Name:        m.Name,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Status:      domain.PeriodStatus(m.Status),
		ClosedBy:    m.ClosedBy,
		ClosedAt:    m.ClosedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPeriodSlice converts a slice of model periods to domain periods.
func ToDomainPeriodSlice(ms []models.FinancialPeriod) []domain.FinancialPeriod {
	ds := make([]domain.FinancialPeriod, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPeriod(m)
	}
	return ds
}
