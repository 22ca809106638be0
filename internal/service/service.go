// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// bound input from the handler, validates it, performs the catalog
// operation and calls the repositories to persist it.
package service

import (
	"context"

	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/google/uuid"
)

// DirectorStore persists directors.
type DirectorStore interface {
	List(ctx context.Context, filter model.DirectorFilter) ([]model.Director, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Director, error)
	Create(ctx context.Context, d *model.Director) error
	Update(ctx context.Context, d *model.Director) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MovieStore persists movies.
type MovieStore interface {
	List(ctx context.Context, filter model.MovieFilter) ([]model.Movie, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	Cover(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	CountByDirector(ctx context.Context, directorID uuid.UUID) (int, error)
	Create(ctx context.Context, m *model.Movie) error
	Update(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MovieNotifier is told about movies added to the catalog.
type MovieNotifier interface {
	EnqueueMovieAdded(ctx context.Context, m *model.Movie) error
}
