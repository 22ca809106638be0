// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - tasks are enqueued (producer) with asynq.Client.
//   - a server runs workers that process those tasks (consumer) with asynq.Server.
package job

import (
	"context"

	"github.com/deppfellow/movie-catalog/internal/config"
	"github.com/deppfellow/movie-catalog/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// mailer sends the notices produced by job handlers.
type mailer interface {
	SendMovieAddedEmail(ctx context.Context, to string, data email.MovieAddedData) error
}

// enqueuer pushes tasks onto the queue.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	client enqueuer
	closer interface{ Close() error }
	server *asynq.Server
	logger *zerolog.Logger

	mailer       mailer
	curatorEmail string
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give "critical" tasks the larger share of the workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		client:       client,
		closer:       client,
		server:       server,
		logger:       logger,
		curatorEmail: cfg.Integration.CuratorEmail,
	}
}

// InitHandlers sets up the dependencies used by task handlers.
// The movie added notice is only sent when a Resend key and a curator are configured.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Integration.ResendAPIKey == "" || cfg.Integration.CuratorEmail == "" {
		logger.Info().Msg("email integration not configured, movie added notices disabled")
		return
	}
	j.mailer = email.NewClient(cfg, logger)
}

// Start registers the task handlers and starts the worker server in the background.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskMovieAdded, j.handleMovieAddedTask)

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if j.closer != nil {
		if err := j.closer.Close(); err != nil {
			j.logger.Warn().Err(err).Msg("failed to close job client")
		}
	}
}
