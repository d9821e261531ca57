// Package postgres adapts a PostgreSQL database to docstore.Store for
// self-hosted deployments: each document is one row with its fields stored
// as jsonb. Schema is managed with embedded goose migrations.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/docstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

// insufficient_privilege, the access-denial condition PostgreSQL reports
const pgInsufficientPrivilege = "42501"

type Store struct {
	db *sql.DB
}

// Open connects to the database and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Set(ctx context.Context, path string, fields map[string]any) error {
	collection, id := docstore.SplitPath(path)
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET fields = EXCLUDED.fields
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, payload); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding fields: %w", err)
	}

	query := `INSERT INTO documents (collection, id, fields) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, collection, id, payload); err != nil {
		return "", classify(err)
	}
	return id, nil
}

// GetAll returns the collection in insertion order so a reload observes the
// same sequence it wrote.
func (s *Store) GetAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	query := `SELECT id, fields FROM documents WHERE collection = $1 ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var result []docstore.Document
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, classify(err)
		}
		fields := make(map[string]any)
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, fmt.Errorf("decoding fields for %q: %w", id, err)
		}
		result = append(result, docstore.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return result, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	collection, id := docstore.SplitPath(path)

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", common.ErrNotFound, path)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInsufficientPrivilege {
		return fmt.Errorf("%w: %s", common.ErrPermissionDenied, pgErr.Message)
	}
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}
