package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/deppfellow/movie-catalog/internal/config"
	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/lib/cover"
	"github.com/deppfellow/movie-catalog/internal/metrics"
	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/sqlerr"
	"github.com/deppfellow/movie-catalog/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const movieEntity = "movie"

// movieFieldNames maps validated model fields to their form names.
var movieFieldNames = map[string]string{
	"directorId":     "director",
	"CoverImage":     "cover",
	"coverImageType": "cover",
}

type MovieService struct {
	movies    MovieStore
	directors DirectorStore
	notifier  MovieNotifier
	logger    *zerolog.Logger
	cfg       *config.CatalogConfig
}

func NewMovieService(movies MovieStore, directors DirectorStore, notifier MovieNotifier, logger *zerolog.Logger, cfg *config.CatalogConfig) *MovieService {
	return &MovieService{
		movies:    movies,
		directors: directors,
		notifier:  notifier,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *MovieService) List(ctx context.Context, filter model.MovieFilter) (movies []model.Movie, err error) {
	defer func() { metrics.RecordCatalogOperation(movieEntity, "list", err) }()

	movies, err = s.movies.List(ctx, filter)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return movies, nil
}

// Recent returns the most recently added movies, newest first.
func (s *MovieService) Recent(ctx context.Context) ([]model.Movie, error) {
	return s.List(ctx, model.MovieFilter{Recent: true, Limit: s.cfg.RecentMoviesLimit})
}

// Get returns a movie with its director.
func (s *MovieService) Get(ctx context.Context, id uuid.UUID) (movie *model.Movie, err error) {
	defer func() { metrics.RecordCatalogOperation(movieEntity, "get", err) }()

	movie, err = s.movies.Get(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return movie, nil
}

// Cover returns the stored cover of a movie.
func (s *MovieService) Cover(ctx context.Context, id uuid.UUID) (*cover.Image, error) {
	data, mimeType, err := s.movies.Cover(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &cover.Image{Data: data, Type: mimeType}, nil
}

// Directors returns every director, for the director picker of the movie forms.
func (s *MovieService) Directors(ctx context.Context) ([]model.Director, error) {
	directors, err := s.directors.List(ctx, model.DirectorFilter{})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return directors, nil
}

// apply copies in onto m and validates the result.
func (s *MovieService) apply(m *model.Movie, in model.MovieInput) error {
	invalid := in.Apply(m)

	if err := cover.Apply(m, in.Cover, s.cfg.MaxCoverBytes); err != nil {
		if errors.Is(err, cover.ErrTooLarge) {
			invalid["cover"] = fmt.Sprintf("must not exceed %d bytes", s.cfg.MaxCoverBytes)
		} else {
			invalid["cover"] = "must be a valid image upload"
		}
	}

	var fieldErrors []errs.FieldError

	if err := validation.Struct(m); err != nil {
		validationErrors := validation.FieldErrors(err)
		if validationErrors == nil {
			return err
		}
		for _, fe := range validationErrors {
			if name, ok := movieFieldNames[fe.Field]; ok {
				fe.Field = name
			}
			if _, ok := invalid[fe.Field]; ok {
				continue
			}
			invalid[fe.Field] = fe.Error
			fieldErrors = append(fieldErrors, fe)
		}
	}

	if len(invalid) == 0 {
		return nil
	}

	// Parse failures come after validation errors, in a stable order.
	reported := make(map[string]bool, len(fieldErrors))
	for _, fe := range fieldErrors {
		reported[fe.Field] = true
	}
	var parseFailures []string
	for field := range invalid {
		if !reported[field] {
			parseFailures = append(parseFailures, field)
		}
	}
	sort.Strings(parseFailures)
	for _, field := range parseFailures {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: invalid[field]})
	}

	return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors, nil)
}

// Create stores a new movie and queues the curator notice.
func (s *MovieService) Create(ctx context.Context, in model.MovieInput) (movie *model.Movie, err error) {
	defer func() { metrics.RecordCatalogOperation(movieEntity, "create", err) }()

	movie = &model.Movie{}
	if err := s.apply(movie, in); err != nil {
		return nil, err
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, sqlerr.HandleError(err)
	}

	metrics.RecordCoverStored(len(movie.CoverImage))

	logger := s.logger.With().Str("movie_id", movie.ID.String()).Logger()
	logger.Info().Msg("movie created")

	if s.notifier != nil {
		if director, err := s.directors.Get(ctx, movie.DirectorID); err == nil {
			movie.Director = director
		}
		if err := s.notifier.EnqueueMovieAdded(ctx, movie); err != nil {
			logger.Warn().Err(err).Msg("failed to enqueue movie added notice")
		}
	}

	return movie, nil
}

// Update changes a movie. The stored cover is kept unless a new one is posted.
func (s *MovieService) Update(ctx context.Context, id uuid.UUID, in model.MovieInput) (movie *model.Movie, err error) {
	defer func() { metrics.RecordCatalogOperation(movieEntity, "update", err) }()

	movie, err = s.movies.Get(ctx, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	previousDirector := movie.DirectorID
	previousCover := len(movie.CoverImage)

	if err := s.apply(movie, in); err != nil {
		return nil, err
	}

	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, sqlerr.HandleError(err)
	}

	if movie.DirectorID != previousDirector {
		movie.Director = nil
	}
	if len(movie.CoverImage) != previousCover {
		metrics.RecordCoverStored(len(movie.CoverImage))
	}

	return movie, nil
}

func (s *MovieService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { metrics.RecordCatalogOperation(movieEntity, "delete", err) }()

	if err := s.movies.Delete(ctx, id); err != nil {
		return sqlerr.HandleError(err)
	}

	s.logger.Info().
		Str("movie_id", id.String()).
		Msg("movie deleted")

	return nil
}
