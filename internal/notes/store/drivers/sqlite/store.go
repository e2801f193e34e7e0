package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/internal/notes/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
	q  *gen.Queries
}

// DSN turns a database file path into a modernc DSN with the pragmas the
// store relies on. Every pooled connection gets them, unlike a one-off
// PRAGMA statement. Writers take the lock at BEGIN so concurrent signups
// queue on busy_timeout instead of failing on lock upgrade.
func DSN(path string) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_txlock=immediate",
	}
	return "file:" + path + "?" + strings.Join(params, "&")
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	return NewStore(DSN(path))
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db), nil
}

// NewStoreFromDB wraps an already opened handle.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{
		db: db,
		q:  gen.New(db),
	}
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Ensure rollback is called if we panic or return early with error
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err // rollback happens in defer
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users { return &usersRepo{q: s.q} }
func (s *Store) Notes() store.Notes { return &notesRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapUniqueViolation turns sqlite's constraint error into the store's
// duplicate sentinels. The message carries the table.column that failed.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed: users.username"):
		return store.ErrDuplicateUsername
	case strings.Contains(msg, "UNIQUE constraint failed: users.email_index"):
		return store.ErrDuplicateEmail
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return store.ErrAlreadyExists
	}
	return err
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:              row.ID,
		Username:        row.Username,
		Name:            row.Name,
		PasswordHash:    row.PasswordHash,
		EmailCiphertext: row.EmailCiphertext,
		EmailIndex:      row.EmailIndex,
		LastActive:      fromMillis(row.LastActive),
		CreatedAt:       fromMillis(row.CreatedAt),
		UpdatedAt:       fromMillis(row.UpdatedAt),
	}
}

func mapNote(row gen.Note) domain.Note {
	return domain.Note{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Title:      row.Title,
		Content:    row.Content,
		CreatedAt:  fromMillis(row.CreatedAt),
		LastEdited: fromMillis(row.LastEdited),
	}
}
