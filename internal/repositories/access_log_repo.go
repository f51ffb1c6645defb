package repositories

import (
	"context"
	"time"

	"auraportal/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the access log needs; pgxmock
// satisfies it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AccessLogRepository interface {
	Record(ctx context.Context, entry *models.AccessEntry) error
	Recent(ctx context.Context, limit int) ([]*models.AccessEntry, error)
	EnsureSchema(ctx context.Context) error
}

type accessLogRepo struct {
	db Database
}

func NewAccessLogRepo(db Database) AccessLogRepository {
	return &accessLogRepo{db: db}
}

func (r *accessLogRepo) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS access_log (
			id UUID PRIMARY KEY,
			cpf TEXT NOT NULL,
			nome TEXT NOT NULL,
			action TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`
	_, err := r.db.Exec(ctx, query)
	return err
}

func (r *accessLogRepo) Record(ctx context.Context, entry *models.AccessEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO access_log (id, cpf, nome, action, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.CPF, entry.Nome, entry.Action, entry.CreatedAt)
	return err
}

func (r *accessLogRepo) Recent(ctx context.Context, limit int) ([]*models.AccessEntry, error) {
	query := `
		SELECT id, cpf, nome, action, created_at
		FROM access_log
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AccessEntry
	for rows.Next() {
		entry := &models.AccessEntry{}
		if err := rows.Scan(&entry.ID, &entry.CPF, &entry.Nome, &entry.Action, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
