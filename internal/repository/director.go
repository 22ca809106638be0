package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const directorsTable = "directors"

const directorColumns = `id, name, created_at, updated_at`

type DirectorRepository struct {
	pool *pgxpool.Pool
}

func NewDirectorRepository(pool *pgxpool.Pool) *DirectorRepository {
	return &DirectorRepository{pool: pool}
}

// List returns directors ordered by name, optionally filtered.
func (r *DirectorRepository) List(ctx context.Context, filter model.DirectorFilter) ([]model.Director, error) {
	query := `SELECT ` + directorColumns + ` FROM directors`
	args := pgx.NamedArgs{}

	if name := strings.TrimSpace(filter.Name); name != "" {
		query += ` WHERE name ILIKE @name`
		args["name"] = containsPattern(name)
	}

	query += ` ORDER BY lower(name), created_at`

	rows, err := r.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to query directors: %w", err)
	}

	directors, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Director])
	if err != nil {
		return nil, fmt.Errorf("failed to collect directors: %w", err)
	}

	return directors, nil
}

// Get returns one director.
func (r *DirectorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Director, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+directorColumns+` FROM directors WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to query director %s: %w", id, err)
	}

	director, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Director])
	if err != nil {
		return nil, fmt.Errorf("failed to get director %s: %w", id, sqlerr.WithTable(directorsTable, err))
	}

	return director, nil
}

// Create inserts d and fills in its generated fields.
func (r *DirectorRepository) Create(ctx context.Context, d *model.Director) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO directors (name)
		VALUES (@name)
		RETURNING id, created_at, updated_at`,
		pgx.NamedArgs{"name": d.Name},
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert director: %w", err)
	}
	return nil
}

// Update stores the editable fields of d.
func (r *DirectorRepository) Update(ctx context.Context, d *model.Director) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE directors
		SET name = @name, updated_at = now()
		WHERE id = @id
		RETURNING updated_at`,
		pgx.NamedArgs{"id": d.ID, "name": d.Name},
	).Scan(&d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update director %s: %w", d.ID, sqlerr.WithTable(directorsTable, err))
	}
	return nil
}

// Delete removes a director. Directors referenced by movies are protected
// by the foreign key and fail with a violation.
func (r *DirectorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM directors WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete director %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete director %s: %w", id, sqlerr.WithTable(directorsTable, pgx.ErrNoRows))
	}
	return nil
}
