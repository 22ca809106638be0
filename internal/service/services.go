package service

import (
	"github.com/deppfellow/movie-catalog/internal/repository"
	"github.com/deppfellow/movie-catalog/internal/server"
)

// Services groups the business services handed to the handlers.
type Services struct {
	Directors *DirectorService
	Movies    *MovieService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	catalog := s.Config.Catalog

	var notifier MovieNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Directors: NewDirectorService(repos.Directors, repos.Movies, s.Logger, catalog),
		Movies:    NewMovieService(repos.Movies, repos.Directors, notifier, s.Logger, catalog),
	}, nil
}
