package service

import (
	"context"
	"errors"

	"github.com/deppfellow/movie-catalog/internal/config"
	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/metrics"
	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/sqlerr"
	"github.com/deppfellow/movie-catalog/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const directorEntity = "director"

// ErrDirectorHasMovies is the cause of the conflict returned when a director
// with movies is deleted.
var ErrDirectorHasMovies = errors.New("director still has movies")

type DirectorService struct {
	directors DirectorStore
	movies    MovieStore
	logger    *zerolog.Logger
	cfg       *config.CatalogConfig
}

func NewDirectorService(directors DirectorStore, movies MovieStore, logger *zerolog.Logger, cfg *config.CatalogConfig) *DirectorService {
	return &DirectorService{
		directors: directors,
		movies:    movies,
		logger:    logger,
		cfg:       cfg,
	}
}

// DirectorDetails is a director with the first of their movies.
type DirectorDetails struct {
	Director *model.Director `json:"director"`
	Movies   []model.Movie   `json:"movies"`
}

func (s *DirectorService) List(ctx context.Context, filter model.DirectorFilter) (directors []model.Director, err error) {
	defer func() { metrics.RecordCatalogOperation(directorEntity, "list", err) }()

	directors, err = s.directors.List(ctx, filter)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return directors, nil
}

func (s *DirectorService) Get(ctx context.Context, id uuid.UUID) (director *model.Director, err error) {
	defer func() { metrics.RecordCatalogOperation(directorEntity, "get", err) }()

	director, err = s.directors.Get(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return director, nil
}

// GetWithMovies returns the director and up to DirectorMoviesLimit of their movies.
func (s *DirectorService) GetWithMovies(ctx context.Context, id uuid.UUID) (*DirectorDetails, error) {
	director, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	movies, err := s.movies.List(ctx, model.MovieFilter{
		DirectorID: id,
		Limit:      s.cfg.DirectorMoviesLimit,
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	return &DirectorDetails{Director: director, Movies: movies}, nil
}

func (s *DirectorService) Create(ctx context.Context, in model.DirectorInput) (director *model.Director, err error) {
	defer func() { metrics.RecordCatalogOperation(directorEntity, "create", err) }()

	director = &model.Director{}
	in.Apply(director)

	if err := validation.Struct(director); err != nil {
		return nil, validation.ToHTTPError(err)
	}

	if err := s.directors.Create(ctx, director); err != nil {
		return nil, sqlerr.HandleError(err)
	}

	s.logger.Info().
		Str("director_id", director.ID.String()).
		Msg("director created")

	return director, nil
}

func (s *DirectorService) Update(ctx context.Context, id uuid.UUID, in model.DirectorInput) (director *model.Director, err error) {
	defer func() { metrics.RecordCatalogOperation(directorEntity, "update", err) }()

	director, err = s.directors.Get(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	in.Apply(director)

	if err := validation.Struct(director); err != nil {
		return nil, validation.ToHTTPError(err)
	}

	if err := s.directors.Update(ctx, director); err != nil {
		return nil, sqlerr.HandleError(err)
	}

	return director, nil
}

// Delete removes a director that has no movies left.
func (s *DirectorService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { metrics.RecordCatalogOperation(directorEntity, "delete", err) }()

	if _, err := s.directors.Get(ctx, id); err != nil {
		return sqlerr.HandleError(err)
	}

	count, err := s.movies.CountByDirector(ctx, id)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if count > 0 {
		code := "DIRECTOR_HAS_MOVIES"
		return errs.NewConflictError("This director still has movies", true, &code).WithCause(ErrDirectorHasMovies)
	}

	if err := s.directors.Delete(ctx, id); err != nil {
		return sqlerr.HandleError(err)
	}

	s.logger.Info().
		Str("director_id", id.String()).
		Msg("director deleted")

	return nil
}
