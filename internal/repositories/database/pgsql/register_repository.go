package pgsql

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailpos/backoffice_ledger/internal/apperrors"
	"github.com/retailpos/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/retailpos/backoffice_ledger/internal/core/ports/repositories"
	"github.com/retailpos/backoffice_ledger/internal/models"
	"github.com/retailpos/backoffice_ledger/internal/utils/mapping"
)

type PgxRegisterRepository struct {
	BaseRepository
}

// newPgxRegisterRepository creates a new repository for register session
// data.
func newPgxRegisterRepository(pool *pgxpool.Pool) portsrepo.RegisterRepositoryFacade {
	return &PgxRegisterRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RegisterRepositoryFacade = (*PgxRegisterRepository)(nil)

// Balance maps are stored as JSONB; decimal amounts serialize as JSON
// numbers and survive the round trip without precision loss.
func marshalBalances(b map[string]decimal.Decimal) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

func unmarshalBalances(raw []byte) (map[string]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var b map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// SaveSession inserts a newly opened session row.
func (r *PgxRegisterRepository) SaveSession(ctx context.Context, session domain.RegisterSession) error {
	m := mapping.ToModelSession(session)

	opening, err := marshalBalances(m.OpeningBalances)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode opening balances", err)
	}
	expected, err := marshalBalances(m.ExpectedBalances)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode expected balances", err)
	}
	current, err := marshalBalances(m.CurrentBalances)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode current balances", err)
	}

	query := `
		INSERT INTO register_sessions (
			session_id, register_name, status, opened_by, opened_at,
			opening_balances, expected_balances, current_balances, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.SessionID,
		m.RegisterName,
		m.Status,
		m.OpenedBy,
		m.OpenedAt,
		opening,
		expected,
		current,
		m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert register session "+m.SessionID, err)
	}
	return nil
}

// UpdateSession writes the session state guarded by its version. The update
// only lands when the stored version still equals session.Version, so
// concurrent closers are serialized: the loser sees ErrConflict and must
// re-read instead of overwriting the first snapshot.
func (r *PgxRegisterRepository) UpdateSession(ctx context.Context, session domain.RegisterSession) error {
	m := mapping.ToModelSession(session)

	expected, err := marshalBalances(m.ExpectedBalances)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode expected balances", err)
	}
	current, err := marshalBalances(m.CurrentBalances)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode current balances", err)
	}
	discrepancies, err := marshalBalances(m.Discrepancies)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode discrepancies", err)
	}

	query := `
		UPDATE register_sessions
		SET status = $2, closed_by = $3, closed_at = $4,
		    expected_balances = $5, current_balances = $6, discrepancies = $7,
		    resolution_kind = $8, resolved_by = $9, resolved_at = $10, resolution_notes = $11,
		    close_key = $12, version = version + 1
		WHERE session_id = $1 AND version = $13;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.SessionID,
		m.Status,
		m.ClosedBy,
		m.ClosedAt,
		expected,
		current,
		discrepancies,
		m.ResolutionKind,
		m.ResolvedBy,
		m.ResolvedAt,
		m.ResolutionNotes,
		m.CloseKey,
		m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update register session "+m.SessionID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM register_sessions WHERE session_id = $1)`, m.SessionID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to inspect register session "+m.SessionID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}

const sessionColumns = `
	session_id, register_name, status, opened_by, opened_at, closed_by, closed_at,
	opening_balances, expected_balances, current_balances, discrepancies,
	resolution_kind, resolved_by, resolved_at, resolution_notes, close_key, version
`

func scanSession(row pgx.Row) (models.RegisterSession, error) {
	var m models.RegisterSession
	var opening, expected, current, discrepancies []byte

	err := row.Scan(
		&m.SessionID,
		&m.RegisterName,
		&m.Status,
		&m.OpenedBy,
		&m.OpenedAt,
		&m.ClosedBy,
		&m.ClosedAt,
		&opening,
		&expected,
		&current,
		&discrepancies,
		&m.ResolutionKind,
		&m.ResolvedBy,
		&m.ResolvedAt,
		&m.ResolutionNotes,
		&m.CloseKey,
		&m.Version,
	)
	if err != nil {
		return m, err
	}

	if m.OpeningBalances, err = unmarshalBalances(opening); err != nil {
		return m, err
	}
	if m.ExpectedBalances, err = unmarshalBalances(expected); err != nil {
		return m, err
	}
	if m.CurrentBalances, err = unmarshalBalances(current); err != nil {
		return m, err
	}
	if m.Discrepancies, err = unmarshalBalances(discrepancies); err != nil {
		return m, err
	}
	return m, nil
}

// FindSessionByID retrieves a session by its ID.
func (r *PgxRegisterRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.RegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions WHERE session_id = $1;`

	m, err := scanSession(r.Pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find register session by ID "+sessionID, err)
	}

	session := mapping.ToDomainSession(m)
	return &session, nil
}

// ListOpenSessions retrieves every session that is still open, oldest first.
func (r *PgxRegisterRepository) ListOpenSessions(ctx context.Context) ([]domain.RegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions WHERE status = 'OPEN' ORDER BY opened_at;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query open register sessions", err)
	}
	defer rows.Close()

	sessions := []models.RegisterSession{}
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan register session row", err)
		}
		sessions = append(sessions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating register session rows", err)
	}

	return mapping.ToDomainSessionSlice(sessions), nil
}
