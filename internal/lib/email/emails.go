package email

import (
	"context"
	"fmt"
)

// MovieAddedData is the data rendered into the movie added notice.
type MovieAddedData struct {
	Title       string
	Director    string
	ReleaseDate string
	Runtime     int
	MovieURL    string
}

// SendMovieAddedEmail tells the curator that a movie joined the catalog.
func (c *Client) SendMovieAddedEmail(ctx context.Context, to string, data MovieAddedData) error {
	return c.SendEmail(
		ctx,
		to,
		fmt.Sprintf("New in the catalog: %s", data.Title),
		TemplateMovieAdded,
		data,
	)
}
