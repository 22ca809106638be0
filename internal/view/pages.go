package view

import "github.com/deppfellow/movie-catalog/internal/model"

// IndexPage is the home page: the latest additions to the catalog.
type IndexPage struct {
	Movies []model.Movie
}

// ErrorPage is shown when a browser request fails without a redirect.
type ErrorPage struct {
	Status  int
	Message string
}

// DirectorListPage lists directors, optionally filtered by name.
type DirectorListPage struct {
	Directors []model.Director
	Name      string
}

// DirectorFormPage backs the new and edit director forms.
// Director is nil on the new form.
type DirectorFormPage struct {
	Director *model.Director
	Input    model.DirectorInput
	Form     Form
}

// DirectorShowPage shows a director and some of their movies.
type DirectorShowPage struct {
	Director *model.Director
	Movies   []model.Movie
}

// MovieListPage lists movies and echoes the search back into the form.
type MovieListPage struct {
	Movies         []model.Movie
	Title          string
	ReleasedBefore string
	ReleasedAfter  string
}

// MovieFormPage backs the new and edit movie forms.
// Movie is nil on the new form.
type MovieFormPage struct {
	Movie     *model.Movie
	Input     model.MovieInput
	Directors []model.Director
	Form      Form
}

// MovieShowPage shows one movie with its director.
type MovieShowPage struct {
	Movie        *model.Movie
	ErrorMessage string
}
