package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrDuplicateUsername and ErrDuplicateEmail identify which unique
	// constraint rejected an insert. Both match ErrAlreadyExists.
	ErrDuplicateUsername = fmt.Errorf("%w: username", ErrAlreadyExists)
	ErrDuplicateEmail    = fmt.Errorf("%w: email", ErrAlreadyExists)
)

// Store is the root data access interface. Concrete drivers (only sqlite for
// now) implement this. Sub-repositories are exposed as methods so a Tx can
// hand out the same repos bound to the transaction, and so nobody can start a
// transaction inside a transaction by accident.
type Store interface {
	Users() Users
	Notes() Notes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is the only lookup login uses.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmailIndex looks a user up by the blind index of their email.
	GetUserByEmailIndex(ctx context.Context, index string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID). A
	// unique violation comes back as ErrDuplicateUsername or
	// ErrDuplicateEmail.
	CreateUser(ctx context.Context, u domain.User) error

	// TouchLastActive moves last_active forward to at. It never moves it
	// backwards, so a slow request cannot undo a newer touch.
	TouchLastActive(ctx context.Context, userID string, at time.Time) error

	// DeleteUser cascades to notes (per schema).
	DeleteUser(ctx context.Context, userID string) error

	CountUsers(ctx context.Context) (int64, error)
}

type Notes interface {
	// ListNotesByOwner returns the owner's notes, most recently edited first.
	ListNotesByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)

	// GetNote returns ErrNotFound when the note is missing or owned by
	// someone else.
	GetNote(ctx context.Context, ownerID, noteID string) (domain.Note, error)

	CreateNote(ctx context.Context, n domain.Note) error

	// UpdateNote rewrites title, content and last_edited and returns the
	// stored row.
	UpdateNote(ctx context.Context, n domain.Note) (domain.Note, error)

	DeleteNote(ctx context.Context, ownerID, noteID string) error
}
