// Package repository handles all interactions with the database.
//
// It contains the SQL for directors and movies and the methods
// to fetch, persist, update and remove them, keeping SQL out of
// the service layer.
package repository

import (
	"strings"

	"github.com/deppfellow/movie-catalog/internal/server"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Directors *DirectorRepository
	Movies    *MovieRepository
}

// NewRepositories constructs the repository container on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return newRepositories(s.DB.Pool)
}

func newRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Directors: NewDirectorRepository(pool),
		Movies:    NewMovieRepository(pool),
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into an ILIKE pattern matching it anywhere.
// Wildcards in the text are matched literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
