package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
)

func TestComputeDiscrepancies(t *testing.T) {
	expected := domain.BalanceMap{
		domain.MethodCash: decimal.RequireFromString("1700.50"),
		domain.MethodCard: decimal.NewFromInt(200),
	}
	counted := domain.BalanceMap{
		domain.MethodCash:     decimal.RequireFromString("1625.50"),
		domain.MethodCard:     decimal.NewFromInt(200),
		domain.MethodTransfer: decimal.NewFromInt(30),
	}

	diff := domain.ComputeDiscrepancies(expected, counted)

	// counted minus expected, over the union of methods
	assert.True(t, diff[domain.MethodCash].Equal(decimal.RequireFromString("-75.00")))
	assert.True(t, diff[domain.MethodCard].IsZero())
	assert.True(t, diff[domain.MethodTransfer].Equal(decimal.NewFromInt(30)))
}

func TestComputeDiscrepancies_MissingCountedMethod(t *testing.T) {
	expected := domain.BalanceMap{
		domain.MethodCash: decimal.NewFromInt(100),
	}
	counted := domain.BalanceMap{}

	diff := domain.ComputeDiscrepancies(expected, counted)

	require.Contains(t, diff, domain.MethodCash)
	assert.True(t, diff[domain.MethodCash].Equal(decimal.NewFromInt(-100)))
}

func TestBalanceMap_Clone(t *testing.T) {
	original := domain.BalanceMap{
		domain.MethodCash: decimal.NewFromInt(50),
	}
	clone := original.Clone()
	clone[domain.MethodCash] = decimal.NewFromInt(999)

	assert.True(t, original[domain.MethodCash].Equal(decimal.NewFromInt(50)))
}

func TestSessionStatusForResolution(t *testing.T) {
	assert.Equal(t, domain.SessionApproved, domain.SessionStatusForResolution(domain.ResolutionApproved))
	assert.Equal(t, domain.SessionDeductFromPay, domain.SessionStatusForResolution(domain.ResolutionDeductFromPay))
	assert.Equal(t, domain.SessionWrittenOff, domain.SessionStatusForResolution(domain.ResolutionWrittenOff))
	assert.Equal(t, domain.SessionRejected, domain.SessionStatusForResolution(domain.ResolutionRejected))
}
