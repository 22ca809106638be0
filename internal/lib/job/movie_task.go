package job

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/movie-catalog/internal/lib/email"
	"github.com/deppfellow/movie-catalog/internal/metrics"
	"github.com/deppfellow/movie-catalog/internal/model"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

// TaskMovieAdded is the job type name stored in Redis.
const TaskMovieAdded = "catalog:movie_added"

// EnqueueTimeout bounds the Redis write behind an enqueue, so an
// unreachable Redis delays movie creation by at most this long.
const EnqueueTimeout = 2 * time.Second

// MovieAddedPayload is the JSON payload of the movie added task.
type MovieAddedPayload struct {
	To          string `json:"to"`
	MovieID     string `json:"movie_id"`
	Title       string `json:"title"`
	Director    string `json:"director,omitempty"`
	ReleaseDate string `json:"release_date"`
	Runtime     int    `json:"runtime"`
}

// NewMovieAddedTask constructs the task that notifies to about m.
//
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("low"): the notice is not urgent
//   - Timeout(30s): kill the task if the handler runs longer
func NewMovieAddedTask(to string, m *model.Movie) (*asynq.Task, error) {
	p := MovieAddedPayload{
		To:          to,
		MovieID:     m.ID.String(),
		Title:       m.Title,
		ReleaseDate: m.ReleaseDateValue(),
		Runtime:     m.Runtime,
	}
	if m.Director != nil {
		p.Director = m.Director.Name
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskMovieAdded,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueMovieAdded queues the curator notice for a newly created movie.
// It does nothing when no curator is configured.
func (j *JobService) EnqueueMovieAdded(ctx context.Context, m *model.Movie) error {
	if j.curatorEmail == "" {
		return nil
	}

	task, err := NewMovieAddedTask(j.curatorEmail, m)
	if err != nil {
		return fmt.Errorf("failed to build %s task: %w", TaskMovieAdded, err)
	}

	ctx, cancel := context.WithTimeout(ctx, EnqueueTimeout)
	defer cancel()

	_, err = j.client.EnqueueContext(ctx, task)
	metrics.RecordJobEnqueued(TaskMovieAdded, err)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", TaskMovieAdded, err)
	}

	return nil
}

func (j *JobService) handleMovieAddedTask(ctx context.Context, t *asynq.Task) (err error) {
	defer func() { metrics.RecordJobProcessed(TaskMovieAdded, err) }()

	var p MovieAddedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal movie added payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskMovieAdded).
		Str("movie_id", p.MovieID).
		Logger()

	if j.mailer == nil {
		logger.Debug().Msg("no mailer configured, skipping movie added notice")
		return nil
	}

	logger.Info().Msg("processing movie added task")

	err = j.mailer.SendMovieAddedEmail(ctx, p.To, email.MovieAddedData{
		Title:       p.Title,
		Director:    p.Director,
		ReleaseDate: p.ReleaseDate,
		Runtime:     p.Runtime,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to send movie added email")
		return err
	}

	logger.Info().Msg("sent movie added email")
	return nil
}
