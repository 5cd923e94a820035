package repositories

import (
	"context"

	"github.com/retailpos/backoffice_ledger/internal/core/domain"
)

// RegisterSessionReader defines read operations for register session data.
type RegisterSessionReader interface {
	// FindSessionByID retrieves a session by its unique identifier.
	FindSessionByID(ctx context.Context, sessionID string) (*domain.RegisterSession, error)

	// ListOpenSessions retrieves every session that is still open, ordered by
	// opening time.
	ListOpenSessions(ctx context.Context) ([]domain.RegisterSession, error)
}

// RegisterSessionWriter defines write operations for register session data.
type RegisterSessionWriter interface {
	// SaveSession persists a newly opened session.
	SaveSession(ctx context.Context, session domain.RegisterSession) error

	// UpdateSession persists the session state guarded by its version:
	// the row is written only if the stored version equals session.Version,
	// and the stored version is bumped. apperrors.ErrConflict is returned
	// when a concurrent writer got there first.
	UpdateSession(ctx context.Context, session domain.RegisterSession) error
}

// RegisterRepositoryFacade combines all register session repository
// interfaces.
type RegisterRepositoryFacade interface {
	RegisterSessionReader
	RegisterSessionWriter
}
