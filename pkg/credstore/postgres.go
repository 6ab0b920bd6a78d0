package credstore

import (
	"context"
	"database/sql"
	"fmt"

	"sealgate/pkg/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore keeps the credential pair in a single-row table. The upsert
// writes both columns in one statement, so readers never see a half pair.
type PostgresStore struct {
	db *sqlx.DB
}

const credentialSchema = `
CREATE TABLE IF NOT EXISTS gateway_credential (
	id         SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	token      TEXT NOT NULL,
	email      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgresStore connects to PostgreSQL and ensures the credential table
// exists.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if _, err := db.ExecContext(ctx, credentialSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create credential table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreWithDB wraps an existing connection. Used by tests.
func NewPostgresStoreWithDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get reads the stored pair. An empty table means no credential.
func (s *PostgresStore) Get(ctx context.Context) (models.Credential, error) {
	var row struct {
		Token string `db:"token"`
		Email string `db:"email"`
	}

	query := `SELECT token, email FROM gateway_credential WHERE id = 1`
	err := sqlx.GetContext(ctx, s.db, &row, query)
	if err == sql.ErrNoRows {
		return models.Credential{}, nil
	}
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to read credential: %w", err)
	}

	return models.Credential{Token: row.Token, Email: row.Email}, nil
}

// Set upserts the token/email pair.
func (s *PostgresStore) Set(ctx context.Context, token, email string) error {
	if token == "" || email == "" {
		return models.ErrIncompleteCredential
	}

	query := `
		INSERT INTO gateway_credential (id, token, email, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO UPDATE SET token = $1, email = $2, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, token, email); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Clear deletes the credential row.
func (s *PostgresStore) Clear(ctx context.Context) error {
	query := `DELETE FROM gateway_credential WHERE id = 1`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
