package email

// Template names an email template under templates/.
type Template string

const (
	// TemplateMovieAdded corresponds to templates/movie_added.html
	TemplateMovieAdded Template = "movie_added"
)
