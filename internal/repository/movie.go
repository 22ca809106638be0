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

const moviesTable = "movies"

// movieSummaryColumns leaves the cover bytes out; listings link to the cover route.
const movieSummaryColumns = `id, title, director_id, release_date, runtime, synopsis, cover_image_type, created_at, updated_at`

type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

// buildMovieListQuery renders the listing query for filter.
func buildMovieListQuery(filter model.MovieFilter) (string, pgx.NamedArgs) {
	var conditions []string
	args := pgx.NamedArgs{}

	if title := strings.TrimSpace(filter.Title); title != "" {
		conditions = append(conditions, `title ILIKE @title`)
		args["title"] = containsPattern(title)
	}
	if filter.ReleasedBefore != nil {
		conditions = append(conditions, `release_date <= @released_before`)
		args["released_before"] = *filter.ReleasedBefore
	}
	if filter.ReleasedAfter != nil {
		conditions = append(conditions, `release_date >= @released_after`)
		args["released_after"] = *filter.ReleasedAfter
	}
	if filter.DirectorID != uuid.Nil {
		conditions = append(conditions, `director_id = @director_id`)
		args["director_id"] = filter.DirectorID
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + movieSummaryColumns + ` FROM movies`)
	if len(conditions) > 0 {
		sb.WriteString(` WHERE `)
		sb.WriteString(strings.Join(conditions, ` AND `))
	}

	if filter.Recent {
		sb.WriteString(` ORDER BY created_at DESC`)
	} else {
		sb.WriteString(` ORDER BY lower(title), release_date`)
	}

	if filter.Limit > 0 {
		sb.WriteString(` LIMIT @limit`)
		args["limit"] = filter.Limit
	}

	return sb.String(), args
}

// List returns movies matching filter, without cover bytes.
func (r *MovieRepository) List(ctx context.Context, filter model.MovieFilter) ([]model.Movie, error) {
	query, args := buildMovieListQuery(filter)

	rows, err := r.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}

	movies, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[model.Movie])
	if err != nil {
		return nil, fmt.Errorf("failed to collect movies: %w", err)
	}

	return movies, nil
}

// Get returns one movie with its director populated.
func (r *MovieRepository) Get(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	var m model.Movie
	var d model.Director

	err := r.pool.QueryRow(ctx, `
		SELECT m.id, m.title, m.director_id, m.release_date, m.runtime, m.synopsis,
		       m.cover_image, m.cover_image_type, m.created_at, m.updated_at,
		       d.id, d.name, d.created_at, d.updated_at
		FROM movies m
		JOIN directors d ON d.id = m.director_id
		WHERE m.id = @id`,
		pgx.NamedArgs{"id": id},
	).Scan(
		&m.ID, &m.Title, &m.DirectorID, &m.ReleaseDate, &m.Runtime, &m.Synopsis,
		&m.CoverImage, &m.CoverImageType, &m.CreatedAt, &m.UpdatedAt,
		&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %s: %w", id, sqlerr.WithTable(moviesTable, err))
	}

	m.Director = &d
	return &m, nil
}

// Cover returns the stored cover bytes and their mime type.
func (r *MovieRepository) Cover(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	var data []byte
	var mimeType string

	err := r.pool.QueryRow(ctx,
		`SELECT cover_image, cover_image_type FROM movies WHERE id = @id`,
		pgx.NamedArgs{"id": id},
	).Scan(&data, &mimeType)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get cover of movie %s: %w", id, sqlerr.WithTable(moviesTable, err))
	}

	return data, mimeType, nil
}

// CountByDirector returns how many movies reference the director.
func (r *MovieRepository) CountByDirector(ctx context.Context, directorID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM movies WHERE director_id = @director_id`,
		pgx.NamedArgs{"director_id": directorID},
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count movies of director %s: %w", directorID, err)
	}
	return count, nil
}

func movieArgs(m *model.Movie) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":               m.ID,
		"title":            m.Title,
		"director_id":      m.DirectorID,
		"release_date":     m.ReleaseDate,
		"runtime":          m.Runtime,
		"synopsis":         m.Synopsis,
		"cover_image":      m.CoverImage,
		"cover_image_type": m.CoverImageType,
	}
}

// Create inserts m and fills in its generated fields.
func (r *MovieRepository) Create(ctx context.Context, m *model.Movie) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO movies (title, director_id, release_date, runtime, synopsis, cover_image, cover_image_type)
		VALUES (@title, @director_id, @release_date, @runtime, @synopsis, @cover_image, @cover_image_type)
		RETURNING id, created_at, updated_at`,
		movieArgs(m),
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// Update stores every editable field of m, cover included.
func (r *MovieRepository) Update(ctx context.Context, m *model.Movie) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE movies
		SET title = @title,
		    director_id = @director_id,
		    release_date = @release_date,
		    runtime = @runtime,
		    synopsis = @synopsis,
		    cover_image = @cover_image,
		    cover_image_type = @cover_image_type,
		    updated_at = now()
		WHERE id = @id
		RETURNING updated_at`,
		movieArgs(m),
	).Scan(&m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update movie %s: %w", m.ID, sqlerr.WithTable(moviesTable, err))
	}
	return nil
}

// Delete removes a movie.
func (r *MovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete movie %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete movie %s: %w", id, sqlerr.WithTable(moviesTable, pgx.ErrNoRows))
	}
	return nil
}
