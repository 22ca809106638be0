package repository

import (
	"testing"
	"time"

	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%kubrick%", containsPattern("kubrick"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, containsPattern(`c:\dir`))
}

func TestBuildMovieListQuery_NoFilter(t *testing.T) {
	query, args := buildMovieListQuery(model.MovieFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Contains(t, query, "ORDER BY lower(title)")
	assert.Empty(t, args)
}

func TestBuildMovieListQuery_AllFilters(t *testing.T) {
	before := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	directorID := uuid.New()

	query, args := buildMovieListQuery(model.MovieFilter{
		Title:          "matrix",
		ReleasedBefore: &before,
		ReleasedAfter:  &after,
		DirectorID:     directorID,
		Limit:          10,
	})

	assert.Contains(t, query, "title ILIKE @title AND release_date <= @released_before AND release_date >= @released_after AND director_id = @director_id")
	assert.Contains(t, query, "LIMIT @limit")
	assert.Equal(t, "%matrix%", args["title"])
	assert.Equal(t, before, args["released_before"])
	assert.Equal(t, after, args["released_after"])
	assert.Equal(t, directorID, args["director_id"])
	assert.Equal(t, 10, args["limit"])
}

func TestBuildMovieListQuery_Recent(t *testing.T) {
	query, _ := buildMovieListQuery(model.MovieFilter{Recent: true, Limit: 10})
	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT @limit")
}
