package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailpos/backoffice_ledger/internal/apperrors"
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/retailpos/backoffice_ledger/internal/core/ports/repositories"
	"github.com/retailpos/backoffice_ledger/internal/models"
	"github.com/retailpos/backoffice_ledger/internal/utils/mapping"
)

// Postgres error codes and constraint names backing the period invariants.
// The partial unique index guards "at most one open period"; the gist
// exclusion constraint guards interval non-overlap.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"

	singleOpenIndexName = "financial_periods_single_open_idx"
)

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for financial period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

// mapPeriodConstraintErr translates constraint violations into the business
// errors the service layer understands.
func mapPeriodConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgExclusionViolation:
		return apperrors.ErrPeriodOverlap
	case pgUniqueViolation:
		if pgErr.ConstraintName == singleOpenIndexName {
			return apperrors.ErrPeriodAlreadyOpen
		}
		return apperrors.ErrDuplicate
	}
	return nil
}

// SavePeriod inserts a new period row. The interval exclusion constraint
// and the single-open partial index are the concurrency-safe source of
// truth for the invariants the service pre-checks.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FinancialPeriod) error {
	modelPeriod := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO financial_periods (
			period_id, name, start_date, end_date, status, closed_by, closed_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelPeriod.PeriodID,
		modelPeriod.Name,
		modelPeriod.StartDate,
		modelPeriod.EndDate,
		modelPeriod.Status,
		modelPeriod.ClosedBy,
		modelPeriod.ClosedAt,
		modelPeriod.CreatedAt,
		modelPeriod.CreatedBy,
		modelPeriod.LastUpdatedAt,
		modelPeriod.LastUpdatedBy,
	)
	if err != nil {
		if mapped := mapPeriodConstraintErr(err); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to insert period "+modelPeriod.PeriodID, err)
	}
	return nil
}

// MarkPeriodOpen sets the period to open iff no other period is currently
// open. The existence check runs inside the same UPDATE statement, so two
// concurrent opens cannot both observe "no open period" and both succeed.
func (r *PgxPeriodRepository) MarkPeriodOpen(ctx context.Context, periodID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE financial_periods
		SET status = 'OPEN', closed_by = NULL, closed_at = NULL,
		    last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1
		  AND NOT EXISTS (
		      SELECT 1 FROM financial_periods
		      WHERE status = 'OPEN' AND period_id <> $1
		  );
	`
	tag, err := r.Pool.Exec(ctx, query, periodID, updatedAt, updatedBy)
	if err != nil {
		if mapped := mapPeriodConstraintErr(err); mapped != nil {
			return mapped
		}
		return apperrors.NewAppError(500, "failed to open period "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the period does not exist or another period holds the open
		// slot; look at the row to report the right error.
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM financial_periods WHERE period_id = $1)`, periodID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to inspect period "+periodID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrPeriodAlreadyOpen
	}
	return nil
}

// MarkPeriodClosed sets the period to closed and records the closer.
func (r *PgxPeriodRepository) MarkPeriodClosed(ctx context.Context, periodID string, closedBy string, closedAt time.Time) error {
	query := `
		UPDATE financial_periods
		SET status = 'CLOSED', closed_by = $2, closed_at = $3,
		    last_updated_at = $3, last_updated_by = $2
		WHERE period_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, periodID, closedBy, closedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close period "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const periodColumns = `
	period_id, name, start_date, end_date, status, closed_by, closed_at,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPeriod(row pgx.Row) (models.FinancialPeriod, error) {
	var m models.FinancialPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.ClosedBy,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindPeriodByID retrieves a period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods WHERE period_id = $1;`

	modelPeriod, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period by ID "+periodID, err)
	}

	domainPeriod := mapping.ToDomainPeriod(modelPeriod)
	return &domainPeriod, nil
}

// FindOverlappingPeriods retrieves every period whose closed interval
// intersects [start, end]. Bounds are inclusive on both sides.
func (r *PgxPeriodRepository) FindOverlappingPeriods(ctx context.Context, start, end time.Time, excludePeriodID string) ([]domain.FinancialPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM financial_periods
		WHERE start_date <= $2 AND $1 <= end_date AND period_id <> $3
		ORDER BY start_date;
	`
	rows, err := r.Pool.Query(ctx, query, start, end, excludePeriodID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query overlapping periods", err)
	}
	defer rows.Close()

	periods := []models.FinancialPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", err)
		}
		periods = append(periods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}

	return mapping.ToDomainPeriodSlice(periods), nil
}

// ListPeriods retrieves all periods ordered by start date descending.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods ORDER BY start_date DESC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods", err)
	}
	defer rows.Close()

	periods := []models.FinancialPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", err)
		}
		periods = append(periods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}

	return mapping.ToDomainPeriodSlice(periods), nil
}
