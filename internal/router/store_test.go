package router

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var errDeleteFailed = errors.New("delete failed")

// catalogStore is an in-memory stand-in for the postgres repositories.
type catalogStore struct {
	mu        sync.Mutex
	directors map[uuid.UUID]model.Director
	movies    map[uuid.UUID]model.Movie

	// failMovieDelete makes every movie delete fail.
	failMovieDelete bool
}

func newCatalogStore() *catalogStore {
	return &catalogStore{
		directors: map[uuid.UUID]model.Director{},
		movies:    map[uuid.UUID]model.Movie{},
	}
}

func stamp(b *model.Base) {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
}

type directorStore struct{ *catalogStore }

func (s directorStore) List(_ context.Context, filter model.DirectorFilter) ([]model.Director, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Director
	for _, d := range s.directors {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Name)) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (s directorStore) Get(_ context.Context, id uuid.UUID) (*model.Director, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.directors[id]
	if !ok {
		return nil, sqlerr.WithTable("directors", pgx.ErrNoRows)
	}
	return &d, nil
}

func (s directorStore) Create(_ context.Context, d *model.Director) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&d.Base)
	s.directors[d.ID] = *d
	return nil
}

func (s directorStore) Update(_ context.Context, d *model.Director) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.directors[d.ID]; !ok {
		return sqlerr.WithTable("directors", pgx.ErrNoRows)
	}
	s.directors[d.ID] = *d
	return nil
}

func (s directorStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.directors[id]; !ok {
		return sqlerr.WithTable("directors", pgx.ErrNoRows)
	}
	delete(s.directors, id)
	return nil
}

type movieStore struct{ *catalogStore }

func (s movieStore) List(_ context.Context, filter model.MovieFilter) ([]model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Movie
	for _, m := range s.movies {
		if !strings.Contains(strings.ToLower(m.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.ReleasedBefore != nil && m.ReleaseDate.After(*filter.ReleasedBefore) {
			continue
		}
		if filter.ReleasedAfter != nil && m.ReleaseDate.Before(*filter.ReleasedAfter) {
			continue
		}
		if filter.DirectorID != uuid.Nil && m.DirectorID != filter.DirectorID {
			continue
		}
		m.CoverImage = nil
		out = append(out, m)
	}

	if filter.Recent {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	} else {
		sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title) })
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s movieStore) Get(_ context.Context, id uuid.UUID) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.movies[id]
	if !ok {
		return nil, sqlerr.WithTable("movies", pgx.ErrNoRows)
	}
	if d, ok := s.directors[m.DirectorID]; ok {
		m.Director = &d
	}
	return &m, nil
}

func (s movieStore) Cover(_ context.Context, id uuid.UUID) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.movies[id]
	if !ok {
		return nil, "", sqlerr.WithTable("movies", pgx.ErrNoRows)
	}
	return m.CoverImage, m.CoverImageType, nil
}

func (s movieStore) CountByDirector(_ context.Context, directorID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, m := range s.movies {
		if m.DirectorID == directorID {
			count++
		}
	}
	return count, nil
}

func (s movieStore) Create(_ context.Context, m *model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&m.Base)
	stored := *m
	stored.Director = nil
	s.movies[m.ID] = stored
	return nil
}

func (s movieStore) Update(_ context.Context, m *model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[m.ID]; !ok {
		return sqlerr.WithTable("movies", pgx.ErrNoRows)
	}
	stored := *m
	stored.Director = nil
	s.movies[m.ID] = stored
	return nil
}

func (s movieStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[id]; !ok {
		return sqlerr.WithTable("movies", pgx.ErrNoRows)
	}
	if s.failMovieDelete {
		return errDeleteFailed
	}
	delete(s.movies, id)
	return nil
}
