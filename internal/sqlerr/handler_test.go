package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/movie-catalog/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTP(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	httpErr, ok := errs.AsHTTPError(err)
	require.True(t, ok, "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_NoRowsNamesTable(t *testing.T) {
	err := HandleError(fmt.Errorf("get movie: %w", WithTable("movies", pgx.ErrNoRows)))

	httpErr := asHTTP(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Movie not found", httpErr.Message)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestHandleError_NoRowsWithoutTable(t *testing.T) {
	httpErr := asHTTP(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleError_ForeignKeyViolationOnInsert(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23503",
		Severity:       "ERROR",
		Message:        `insert or update on table "movies" violates foreign key constraint "movies_director_id_fkey"`,
		TableName:      "movies",
		ColumnName:     "director_id",
		ConstraintName: "movies_director_id_fkey",
	}

	httpErr := asHTTP(t, HandleError(pgErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "MOVIE_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Director does not exist", httpErr.Message)
}

func TestHandleError_ForeignKeyViolationOnDelete(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:      "23503",
		Severity:  "ERROR",
		Message:   `update or delete on table "directors" violates foreign key constraint "movies_director_id_fkey" on table "movies"`,
		TableName: "directors",
	}

	httpErr := asHTTP(t, HandleError(pgErr))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "The director is still referenced by other records", httpErr.Message)
}

func TestHandleError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "directors",
		ConstraintName: "directors_name_key",
	}

	httpErr := asHTTP(t, HandleError(pgErr))
	assert.Equal(t, "DIRECTOR_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Director with this Name already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "movies",
		ColumnName: "release_date",
	}

	httpErr := asHTTP(t, HandleError(pgErr))
	assert.Equal(t, "The Release Date is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "release_date", httpErr.Errors[0].Field)
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewNotFoundError("Director not found", true, nil)
	assert.Same(t, original, HandleError(original))
}

func TestHandleError_UnknownIsInternal(t *testing.T) {
	cause := errors.New("boom")
	err := HandleError(cause)

	httpErr := asHTTP(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.ErrorIs(t, err, cause)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23514", Severity: "ERROR"})
	assert.Equal(t, CheckViolation, ErrCode(fmt.Errorf("wrapped: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

func TestConstraintColumn(t *testing.T) {
	assert.Equal(t, "title", constraintColumn("movies", "unique_movies_title"))
	assert.Equal(t, "name", constraintColumn("directors", "directors_name_key"))
	assert.Equal(t, "cover_image_type", constraintColumn("movies", "movies_cover_image_type_check"))
	assert.Equal(t, "", constraintColumn("movies", "movies_pkey"))
	assert.Equal(t, "email", constraintColumn("", "curators_email_key"))
	assert.Equal(t, "", constraintColumn("movies", ""))
}

func TestHandleError_CheckViolationNamesColumn(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23514",
		Severity:       "ERROR",
		TableName:      "movies",
		ConstraintName: "movies_runtime_check",
	}

	httpErr := asHTTP(t, HandleError(pgErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "MOVIE_INVALID", httpErr.Code)
	assert.Equal(t, "The Runtime value does not meet required conditions", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "runtime", httpErr.Errors[0].Field)
}
