package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectorService(store *memoryStore) *DirectorService {
	return NewDirectorService(directorStore{store}, movieStore{store}, testLogger(), testCatalogConfig())
}

func requireStatus(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	httpErr, ok := errs.AsHTTPError(err)
	require.True(t, ok, "expected *errs.HTTPError, got %T (%v)", err, err)
	assert.Equal(t, status, httpErr.Status)
	return httpErr
}

func TestDirectorService_CreateTrimsName(t *testing.T) {
	store := newMemoryStore()
	svc := newDirectorService(store)

	director, err := svc.Create(context.Background(), model.DirectorInput{Name: "  Agnès Varda "})
	require.NoError(t, err)
	assert.Equal(t, "Agnès Varda", director.Name)
	assert.Contains(t, store.directors, director.ID)
}

func TestDirectorService_CreateRequiresName(t *testing.T) {
	svc := newDirectorService(newMemoryStore())

	_, err := svc.Create(context.Background(), model.DirectorInput{Name: "   "})

	httpErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, httpErr.Errors)
}

func TestDirectorService_CreateStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.failWith = errStoreDown
	svc := newDirectorService(store)

	_, err := svc.Create(context.Background(), model.DirectorInput{Name: "Akira Kurosawa"})
	requireStatus(t, err, http.StatusInternalServerError)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestDirectorService_Update(t *testing.T) {
	store := newMemoryStore()
	svc := newDirectorService(store)

	director, err := svc.Create(context.Background(), model.DirectorInput{Name: "Akira Kurosawa"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), director.ID, model.DirectorInput{Name: "Kurosawa Akira"})
	require.NoError(t, err)
	assert.Equal(t, "Kurosawa Akira", updated.Name)
	assert.Equal(t, "Kurosawa Akira", store.directors[director.ID].Name)
}

func TestDirectorService_UpdateNotFound(t *testing.T) {
	svc := newDirectorService(newMemoryStore())

	_, err := svc.Update(context.Background(), uuid.New(), model.DirectorInput{Name: "Anyone"})
	httpErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Director not found", httpErr.Message)
}

func TestDirectorService_GetWithMoviesCapsMovies(t *testing.T) {
	store := newMemoryStore()
	svc := newDirectorService(store)

	director, err := svc.Create(context.Background(), model.DirectorInput{Name: "Hayao Miyazaki"})
	require.NoError(t, err)

	for _, title := range []string{"Spirited Away", "Ponyo", "Porco Rosso"} {
		require.NoError(t, movieStore{store}.Create(context.Background(), &model.Movie{Title: title, DirectorID: director.ID}))
	}

	details, err := svc.GetWithMovies(context.Background(), director.ID)
	require.NoError(t, err)
	assert.Equal(t, director.ID, details.Director.ID)
	require.Len(t, details.Movies, 2)
	assert.Equal(t, "Ponyo", details.Movies[0].Title)
}

func TestDirectorService_DeleteWithMoviesConflicts(t *testing.T) {
	store := newMemoryStore()
	svc := newDirectorService(store)

	director, err := svc.Create(context.Background(), model.DirectorInput{Name: "Hayao Miyazaki"})
	require.NoError(t, err)
	require.NoError(t, movieStore{store}.Create(context.Background(), &model.Movie{Title: "Ponyo", DirectorID: director.ID}))

	err = svc.Delete(context.Background(), director.ID)
	requireStatus(t, err, http.StatusConflict)
	assert.ErrorIs(t, err, ErrDirectorHasMovies)
	assert.Contains(t, store.directors, director.ID)
}

func TestDirectorService_Delete(t *testing.T) {
	store := newMemoryStore()
	svc := newDirectorService(store)

	director, err := svc.Create(context.Background(), model.DirectorInput{Name: "Jacques Tati"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), director.ID))
	assert.NotContains(t, store.directors, director.ID)

	err = svc.Delete(context.Background(), director.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestDirectorService_ListFilters(t *testing.T) {
	store := newMemoryStore()
	svc := newDirectorService(store)

	for _, name := range []string{"Jacques Tati", "Jacques Demy", "Agnès Varda"} {
		_, err := svc.Create(context.Background(), model.DirectorInput{Name: name})
		require.NoError(t, err)
	}

	directors, err := svc.List(context.Background(), model.DirectorFilter{Name: "JACQUES"})
	require.NoError(t, err)
	require.Len(t, directors, 2)
	assert.Equal(t, "Jacques Demy", directors[0].Name)
}
