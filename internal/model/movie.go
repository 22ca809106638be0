package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the format of release dates in forms and query strings.
const DateLayout = "2006-01-02"

// CoverImageTypes lists the accepted cover mime types.
var CoverImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// IsCoverImageType reports whether mimeType is an accepted cover type.
func IsCoverImageType(mimeType string) bool {
	for _, t := range CoverImageTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// Movie is a catalog entry. Director is populated only by lookups that
// join the director in.
type Movie struct {
	Base
	Title          string    `json:"title" db:"title" validate:"required,max=255"`
	DirectorID     uuid.UUID `json:"directorId" db:"director_id" validate:"required"`
	ReleaseDate    time.Time `json:"releaseDate" db:"release_date" validate:"required"`
	Runtime        int       `json:"runtime" db:"runtime" validate:"required,min=1"`
	Synopsis       string    `json:"synopsis" db:"synopsis" validate:"max=5000"`
	CoverImage     []byte    `json:"-" db:"cover_image" validate:"required,min=1"`
	CoverImageType string    `json:"coverImageType" db:"cover_image_type" validate:"required,oneof=image/jpeg image/png image/gif"`

	Director *Director `json:"director,omitempty" db:"-"`
}

// HasCover reports whether the movie carries cover bytes.
func (m *Movie) HasCover() bool {
	return len(m.CoverImage) > 0
}

// ReleaseDateValue formats the release date for a date input.
func (m *Movie) ReleaseDateValue() string {
	if m.ReleaseDate.IsZero() {
		return ""
	}
	return m.ReleaseDate.Format(DateLayout)
}

// MovieFilter narrows a movie listing. Zero values are ignored.
type MovieFilter struct {
	// Title matches case-insensitively anywhere in the title.
	Title string

	// ReleasedBefore and ReleasedAfter are inclusive bounds on the release date.
	ReleasedBefore *time.Time
	ReleasedAfter  *time.Time

	// DirectorID restricts the listing to one director.
	DirectorID uuid.UUID

	// Limit caps the number of rows; zero means no cap.
	Limit int

	// Recent orders newest-first by creation time instead of by title.
	Recent bool
}

// MovieInput is the editable part of a movie as posted by a form or the API.
//
// Every field is a string: a form posts text, and a bad value must come back
// to the user in the re-rendered form rather than failing the bind.
type MovieInput struct {
	Title       string `json:"title" form:"title"`
	DirectorID  string `json:"directorId" form:"director"`
	ReleaseDate string `json:"releaseDate" form:"releaseDate"`
	Runtime     string `json:"runtime" form:"runtime"`
	Synopsis    string `json:"synopsis" form:"synopsis"`

	// Cover is the JSON encoded upload: {"type": "...", "data": "<base64>"}.
	Cover string `json:"cover" form:"cover"`
}

// Apply copies the parseable parts of the input onto m and returns the
// fields that could not be parsed. Unparseable fields are reset to their
// zero value so validation reports them as missing.
func (in MovieInput) Apply(m *Movie) map[string]string {
	invalid := map[string]string{}

	m.Title = strings.TrimSpace(in.Title)
	m.Synopsis = strings.TrimSpace(in.Synopsis)

	m.DirectorID = uuid.Nil
	if s := strings.TrimSpace(in.DirectorID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			invalid["director"] = "must reference a director"
		} else {
			m.DirectorID = id
		}
	}

	m.ReleaseDate = time.Time{}
	if s := strings.TrimSpace(in.ReleaseDate); s != "" {
		date, err := time.Parse(DateLayout, s)
		if err != nil {
			invalid["releaseDate"] = "must be a date (YYYY-MM-DD)"
		} else {
			m.ReleaseDate = date
		}
	}

	m.Runtime = 0
	if s := strings.TrimSpace(in.Runtime); s != "" {
		runtime, err := strconv.Atoi(s)
		if err != nil {
			invalid["runtime"] = "must be a whole number of minutes"
		} else {
			m.Runtime = runtime
		}
	}

	return invalid
}

// InputFrom returns the input that would recreate m, used to pre-fill edit forms.
func InputFrom(m *Movie) MovieInput {
	in := MovieInput{
		Title:       m.Title,
		ReleaseDate: m.ReleaseDateValue(),
		Synopsis:    m.Synopsis,
	}
	if m.DirectorID != uuid.Nil {
		in.DirectorID = m.DirectorID.String()
	}
	if m.Runtime > 0 {
		in.Runtime = strconv.Itoa(m.Runtime)
	}
	return in
}
