package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/deppfellow/movie-catalog/internal/config"
	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// memoryStore is an in-memory DirectorStore and MovieStore.
type memoryStore struct {
	directors map[uuid.UUID]model.Director
	movies    map[uuid.UUID]model.Movie
	failWith  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		directors: map[uuid.UUID]model.Director{},
		movies:    map[uuid.UUID]model.Movie{},
	}
}

func notFound(table string) error {
	return fmt.Errorf("lookup: %w", sqlerr.WithTable(table, pgx.ErrNoRows))
}

type directorStore struct{ *memoryStore }

func (s directorStore) List(_ context.Context, filter model.DirectorFilter) ([]model.Director, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
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
	d, ok := s.directors[id]
	if !ok {
		return nil, notFound("directors")
	}
	return &d, nil
}

func (s directorStore) Create(_ context.Context, d *model.Director) error {
	if s.failWith != nil {
		return s.failWith
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	s.directors[d.ID] = *d
	return nil
}

func (s directorStore) Update(_ context.Context, d *model.Director) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.directors[d.ID]; !ok {
		return notFound("directors")
	}
	s.directors[d.ID] = *d
	return nil
}

func (s directorStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.directors[id]; !ok {
		return notFound("directors")
	}
	delete(s.directors, id)
	return nil
}

type movieStore struct{ *memoryStore }

func (s movieStore) List(_ context.Context, filter model.MovieFilter) ([]model.Movie, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []model.Movie
	for _, m := range s.movies {
		if filter.DirectorID != uuid.Nil && m.DirectorID != filter.DirectorID {
			continue
		}
		if !strings.Contains(strings.ToLower(m.Title), strings.ToLower(filter.Title)) {
			continue
		}
		m.CoverImage = nil
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s movieStore) Get(_ context.Context, id uuid.UUID) (*model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, notFound("movies")
	}
	if d, ok := s.directors[m.DirectorID]; ok {
		m.Director = &d
	}
	return &m, nil
}

func (s movieStore) Cover(_ context.Context, id uuid.UUID) ([]byte, string, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, "", notFound("movies")
	}
	return m.CoverImage, m.CoverImageType, nil
}

func (s movieStore) CountByDirector(_ context.Context, directorID uuid.UUID) (int, error) {
	count := 0
	for _, m := range s.movies {
		if m.DirectorID == directorID {
			count++
		}
	}
	return count, nil
}

func (s movieStore) Create(_ context.Context, m *model.Movie) error {
	if s.failWith != nil {
		return s.failWith
	}
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	stored := *m
	stored.Director = nil
	s.movies[m.ID] = stored
	return nil
}

func (s movieStore) Update(_ context.Context, m *model.Movie) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.movies[m.ID]; !ok {
		return notFound("movies")
	}
	stored := *m
	stored.Director = nil
	s.movies[m.ID] = stored
	return nil
}

func (s movieStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.movies[id]; !ok {
		return notFound("movies")
	}
	delete(s.movies, id)
	return nil
}

type recordingNotifier struct {
	movies []*model.Movie
	err    error
}

func (n *recordingNotifier) EnqueueMovieAdded(_ context.Context, m *model.Movie) error {
	n.movies = append(n.movies, m)
	return n.err
}

var errStoreDown = errors.New("connection refused")

func testCatalogConfig() *config.CatalogConfig {
	cfg := config.DefaultCatalogConfig()
	cfg.MaxCoverBytes = 1024
	cfg.DirectorMoviesLimit = 2
	return cfg
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
