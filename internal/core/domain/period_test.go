package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
)

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestFinancialPeriod_Overlaps(t *testing.T) {
	period := domain.FinancialPeriod{
		StartDate: day(10),
		EndDate:   day(20),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"fully before", day(1), day(9), false},
		{"fully after", day(21), day(28), false},
		{"contained", day(12), day(15), true},
		{"containing", day(1), day(28), true},
		{"touching at start boundary", day(1), day(10), true},
		{"touching at end boundary", day(20), day(28), true},
		{"single shared day", day(20), day(20), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, period.Overlaps(tt.start, tt.end))
		})
	}
}

func TestFinancialPeriod_IsWritable(t *testing.T) {
	open := domain.FinancialPeriod{Status: domain.PeriodOpen}
	closed := domain.FinancialPeriod{Status: domain.PeriodClosed}

	assert.True(t, open.IsWritable())
	assert.False(t, closed.IsWritable())
}
