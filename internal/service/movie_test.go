package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func coverJSON(mimeType string, data []byte) string {
	return fmt.Sprintf(`{"type":%q,"data":%q}`, mimeType, base64.StdEncoding.EncodeToString(data))
}

type movieFixture struct {
	store    *memoryStore
	notifier *recordingNotifier
	svc      *MovieService
	director model.Director
}

func newMovieFixture(t *testing.T) *movieFixture {
	t.Helper()

	store := newMemoryStore()
	director := model.Director{Name: "Ridley Scott"}
	require.NoError(t, directorStore{store}.Create(context.Background(), &director))

	notifier := &recordingNotifier{}
	return &movieFixture{
		store:    store,
		notifier: notifier,
		svc:      NewMovieService(movieStore{store}, directorStore{store}, notifier, testLogger(), testCatalogConfig()),
		director: director,
	}
}

func (f *movieFixture) input() model.MovieInput {
	return model.MovieInput{
		Title:       " Alien ",
		DirectorID:  f.director.ID.String(),
		ReleaseDate: "1979-05-25",
		Runtime:     "117",
		Synopsis:    "In space no one can hear you scream.",
		Cover:       coverJSON("image/png", pngBytes),
	}
}

func TestMovieService_Create(t *testing.T) {
	f := newMovieFixture(t)

	movie, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	assert.Equal(t, "Alien", movie.Title)
	assert.Equal(t, f.director.ID, movie.DirectorID)
	assert.Equal(t, "1979-05-25", movie.ReleaseDateValue())
	assert.Equal(t, 117, movie.Runtime)
	assert.Equal(t, pngBytes, movie.CoverImage)
	assert.Equal(t, "image/png", movie.CoverImageType)

	require.Len(t, f.notifier.movies, 1)
	require.NotNil(t, f.notifier.movies[0].Director)
	assert.Equal(t, "Ridley Scott", f.notifier.movies[0].Director.Name)
}

func TestMovieService_CreateSurvivesNotifierFailure(t *testing.T) {
	f := newMovieFixture(t)
	f.notifier.err = errors.New("redis unavailable")

	_, err := f.svc.Create(context.Background(), f.input())
	assert.NoError(t, err)
}

func TestMovieService_CreateReportsFieldErrors(t *testing.T) {
	f := newMovieFixture(t)

	in := f.input()
	in.Title = ""
	in.ReleaseDate = "25/05/1979"
	in.Runtime = "two hours"
	in.Cover = ""

	_, err := f.svc.Create(context.Background(), in)

	httpErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []errs.FieldError{
		{Field: "title", Error: "is required"},
		{Field: "cover", Error: "is required"},
		{Field: "releaseDate", Error: "must be a date (YYYY-MM-DD)"},
		{Field: "runtime", Error: "must be a whole number of minutes"},
	}, httpErr.Errors)
	assert.Empty(t, f.store.movies)
	assert.Empty(t, f.notifier.movies)
}

func TestMovieService_CreateIgnoresUnsupportedCoverType(t *testing.T) {
	f := newMovieFixture(t)

	in := f.input()
	in.Cover = coverJSON("image/webp", pngBytes)

	_, err := f.svc.Create(context.Background(), in)

	httpErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []errs.FieldError{{Field: "cover", Error: "is required"}}, httpErr.Errors)
}

func TestMovieService_CreateRejectsOversizedCover(t *testing.T) {
	f := newMovieFixture(t)

	in := f.input()
	in.Cover = coverJSON("image/png", []byte(strings.Repeat("x", 4096)))

	_, err := f.svc.Create(context.Background(), in)

	httpErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []errs.FieldError{{Field: "cover", Error: "must not exceed 1024 bytes"}}, httpErr.Errors)
}

func TestMovieService_CreateRejectsEmptyCover(t *testing.T) {
	f := newMovieFixture(t)

	in := f.input()
	in.Cover = `{"type":"image/png","data":""}`

	_, err := f.svc.Create(context.Background(), in)

	httpErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []errs.FieldError{{Field: "cover", Error: "must be a valid image upload"}}, httpErr.Errors)
	assert.Empty(t, f.store.movies)
}

func TestMovieService_UpdateRejectsEmptyCover(t *testing.T) {
	f := newMovieFixture(t)

	movie, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	in := f.input()
	in.Cover = `{"type":"image/gif","data":""}`

	_, err = f.svc.Update(context.Background(), movie.ID, in)
	requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, pngBytes, f.store.movies[movie.ID].CoverImage)
	assert.Equal(t, "image/png", f.store.movies[movie.ID].CoverImageType)
}

func TestMovieService_UpdateKeepsCoverWhenNoneIsPosted(t *testing.T) {
	f := newMovieFixture(t)

	movie, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	in := f.input()
	in.Title = "Alien: Director's Cut"
	in.Cover = ""

	updated, err := f.svc.Update(context.Background(), movie.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Alien: Director's Cut", updated.Title)
	assert.Equal(t, pngBytes, f.store.movies[movie.ID].CoverImage)
}

func TestMovieService_UpdateReplacesCover(t *testing.T) {
	f := newMovieFixture(t)

	movie, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	gif := []byte("GIF89a")
	in := f.input()
	in.Cover = coverJSON("image/gif", gif)

	_, err = f.svc.Update(context.Background(), movie.ID, in)
	require.NoError(t, err)
	assert.Equal(t, gif, f.store.movies[movie.ID].CoverImage)
	assert.Equal(t, "image/gif", f.store.movies[movie.ID].CoverImageType)
}

func TestMovieService_UpdateNotFound(t *testing.T) {
	f := newMovieFixture(t)

	_, err := f.svc.Update(context.Background(), uuid.New(), f.input())
	httpErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Movie not found", httpErr.Message)
}

func TestMovieService_GetAndCover(t *testing.T) {
	f := newMovieFixture(t)

	movie, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	got, err := f.svc.Get(context.Background(), movie.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Director)
	assert.Equal(t, "Ridley Scott", got.Director.Name)

	img, err := f.svc.Cover(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, "image/png", img.Type)
}

func TestMovieService_Delete(t *testing.T) {
	f := newMovieFixture(t)

	movie, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), movie.ID))
	assert.Empty(t, f.store.movies)

	err = f.svc.Delete(context.Background(), movie.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestMovieService_ListFailure(t *testing.T) {
	f := newMovieFixture(t)
	f.store.failWith = errStoreDown

	_, err := f.svc.List(context.Background(), model.MovieFilter{Title: "alien"})
	requireStatus(t, err, http.StatusInternalServerError)

	_, err = f.svc.Directors(context.Background())
	requireStatus(t, err, http.StatusInternalServerError)
}

func TestMovieService_Recent(t *testing.T) {
	f := newMovieFixture(t)

	for i := 0; i < 3; i++ {
		in := f.input()
		in.Title = fmt.Sprintf("Movie %d", i)
		_, err := f.svc.Create(context.Background(), in)
		require.NoError(t, err)
	}

	movies, err := f.svc.Recent(context.Background())
	require.NoError(t, err)
	assert.Len(t, movies, 3)
}
