package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/deppfellow/movie-catalog/internal/validation"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// IDRequest carries the record id from the path.
type IDRequest struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (r *IDRequest) Validate() error {
	return validation.Struct(r)
}

// UUID returns the validated id.
func (r *IDRequest) UUID() uuid.UUID {
	return uuid.MustParse(r.ID)
}

// EmptyRequest is used by routes that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

type DirectorSearchRequest struct {
	Name string `query:"name"`
}

func (r *DirectorSearchRequest) Validate() error {
	return nil
}

func (r *DirectorSearchRequest) Filter() model.DirectorFilter {
	return model.DirectorFilter{Name: strings.TrimSpace(r.Name)}
}

// DirectorFormRequest is a posted director form. Field rules are enforced by
// the service so failures can be shown on the re-rendered form.
type DirectorFormRequest struct {
	model.DirectorInput
}

func (r *DirectorFormRequest) Validate() error {
	return nil
}

type UpdateDirectorFormRequest struct {
	IDRequest
	model.DirectorInput
}

func (r *UpdateDirectorFormRequest) Validate() error {
	return r.IDRequest.Validate()
}

type MovieSearchRequest struct {
	Title          string `query:"title"`
	ReleasedBefore string `query:"releasedBefore" validate:"omitempty,datetime=2006-01-02"`
	ReleasedAfter  string `query:"releasedAfter" validate:"omitempty,datetime=2006-01-02"`
}

func (r *MovieSearchRequest) Validate() error {
	return validation.Struct(r)
}

// Filter converts the validated search into a store filter.
func (r *MovieSearchRequest) Filter() model.MovieFilter {
	return model.MovieFilter{
		Title:          strings.TrimSpace(r.Title),
		ReleasedBefore: parseDate(r.ReleasedBefore),
		ReleasedAfter:  parseDate(r.ReleasedAfter),
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// MovieFormRequest is a posted movie form.
type MovieFormRequest struct {
	model.MovieInput
}

func (r *MovieFormRequest) Validate() error {
	return nil
}

type UpdateMovieFormRequest struct {
	IDRequest
	model.MovieInput
}

func (r *UpdateMovieFormRequest) Validate() error {
	return r.IDRequest.Validate()
}

// CoverUpload is an inline cover in an API request.
type CoverUpload struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// MovieRequest is the JSON body of the movie API.
type MovieRequest struct {
	Title       string       `json:"title"`
	DirectorID  string       `json:"directorId" validate:"omitempty,uuid"`
	ReleaseDate string       `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
	Runtime     int          `json:"runtime" validate:"min=0"`
	Synopsis    string       `json:"synopsis"`
	Cover       *CoverUpload `json:"cover"`
}

func (r *MovieRequest) Validate() error {
	return validation.Struct(r)
}

// Input converts the body into the form-shaped input the service accepts.
func (r *MovieRequest) Input() (model.MovieInput, error) {
	in := model.MovieInput{
		Title:       r.Title,
		DirectorID:  r.DirectorID,
		ReleaseDate: r.ReleaseDate,
		Synopsis:    r.Synopsis,
	}
	if r.Runtime > 0 {
		in.Runtime = strconv.Itoa(r.Runtime)
	}
	if r.Cover != nil {
		encoded, err := json.Marshal(r.Cover)
		if err != nil {
			return model.MovieInput{}, err
		}
		in.Cover = string(encoded)
	}
	return in, nil
}

type UpdateMovieRequest struct {
	IDRequest
	MovieRequest
}

func (r *UpdateMovieRequest) Validate() error {
	if err := r.IDRequest.Validate(); err != nil {
		return err
	}
	return r.MovieRequest.Validate()
}

type DirectorRequest struct {
	model.DirectorInput
}

func (r *DirectorRequest) Validate() error {
	return nil
}

type UpdateDirectorRequest struct {
	IDRequest
	model.DirectorInput
}

func (r *UpdateDirectorRequest) Validate() error {
	return r.IDRequest.Validate()
}
