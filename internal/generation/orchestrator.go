package generation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/sonic"
)

// SongAPI is the slice of the sonic client the orchestrator needs.
type SongAPI interface {
	CreateSong(ctx context.Context, req sonic.CreateRequest) (*sonic.CreateResponse, error)
	ListSongs(ctx context.Context) ([]domain.Job, error)
}

// Options configures an Orchestrator.
type Options struct {
	Client       SongAPI
	Logger       *infra.Logger
	PollInterval time.Duration
	PollBudget   time.Duration
	SongDuration int
}

// Orchestrator translates one user prompt into one finished (or failed)
// remote music-generation job. Each Generate call is independent; there is
// no shared state across invocations.
type Orchestrator struct {
	client   SongAPI
	logger   *infra.Logger
	interval time.Duration
	budget   time.Duration
	duration int

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New wires an Orchestrator with defaults for anything left zero.
func New(opts Options) *Orchestrator {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	budget := opts.PollBudget
	if budget <= 0 {
		budget = 10 * time.Minute
	}
	duration := opts.SongDuration
	if duration <= 0 {
		duration = 16
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Orchestrator{
		client:   opts.Client,
		logger:   logger,
		interval: interval,
		budget:   budget,
		duration: duration,
		sleep:    waitInterval,
		now:      time.Now,
	}
}

// Generate submits a song job for prompt and polls the remote job list until
// the job reaches a terminal state. The prompt is passed through unvalidated;
// the remote service is free to reject it, which surfaces as a submission
// error. Both finished and failed are terminal: the loop exits exactly once,
// with the matching result branch.
func (o *Orchestrator) Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	created, err := o.client.CreateSong(ctx, sonic.CreateRequest{
		Prompt:   prompt,
		Duration: o.duration,
		Mode:     sonic.ModeMusic,
	})
	if err != nil {
		return nil, fmt.Errorf("submit song job: %w", err)
	}
	var jobID string
	if created != nil {
		jobID = created.JobID
	}
	o.logger.Info().Str("job_id", jobID).Msg("song job submitted")

	deadline := o.now().Add(o.budget)
	job, err := o.representative(ctx, jobID)
	if err != nil {
		return nil, err
	}
	for !job.State.Terminal() {
		if o.now().After(deadline) {
			return nil, domain.ErrPollTimeout
		}
		if err := o.sleep(ctx, o.interval); err != nil {
			return nil, err
		}
		job, err = o.representative(ctx, jobID)
		if err != nil {
			return nil, err
		}
		o.logger.Debug().
			Str("job_id", job.ID).
			Str("state", string(job.State)).
			Msg("song job snapshot")
	}
	if job.State == domain.JobStateFailed {
		return nil, domain.ErrJobFailed
	}
	return &domain.GenerationResult{Music: job.MediaURI}, nil
}

// representative re-reads the job list and picks the job this request is
// tracking. When the submission returned an id the job is matched by id.
// Without one, the last entry is taken: the service lists jobs append-ordered,
// so the newest entry is ours unless another submission intervened — an
// external-API limitation, not something this side can correct.
func (o *Orchestrator) representative(ctx context.Context, jobID string) (*domain.Job, error) {
	jobs, err := o.client.ListSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list song jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, domain.ErrNoJobs
	}
	if jobID != "" {
		for i := range jobs {
			if jobs[i].ID == jobID {
				return &jobs[i], nil
			}
		}
	}
	last := jobs[len(jobs)-1]
	return &last, nil
}

func waitInterval(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
