package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/earth/internal/database"
)

// Entry is a stored feedback submission.
type Entry struct {
	ID        int64
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// Repository persists submissions in PostgreSQL. It implements Sender.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a feedback repository.
// Returns error if pool is nil.
func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, errors.New("database pool is required")
	}
	return &Repository{pool: pool}, nil
}

// Send implements Sender by inserting the form.
func (r *Repository) Send(ctx context.Context, form Form) error {
	_, err := r.Insert(ctx, form)
	return err
}

// Insert stores form and returns the new row ID.
func (r *Repository) Insert(ctx context.Context, form Form) (int64, error) {
	query, args, err := insertQuery(form)
	if err != nil {
		return 0, fmt.Errorf("build insert query: %w", err)
	}

	var id int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert feedback: %w", err)
	}
	return id, nil
}

// Recent returns the newest submissions first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query, args, err := recentQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Message, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	return entries, nil
}

func insertQuery(form Form) (string, []any, error) {
	return database.QB.
		Insert("feedback").
		Columns("name", "email", "message").
		Values(form.Name, form.Email, form.Message).
		Suffix("RETURNING id").
		ToSql()
}

func recentQuery(limit int) (string, []any, error) {
	return database.QB.
		Select("id", "name", "email", "message", "created_at").
		From("feedback").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(max(limit, 1))).
		ToSql()
}
