package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"clipper/internal/cut"
	"clipper/internal/logging"
	"clipper/internal/naming"
	"clipper/internal/quality"
	"clipper/internal/services"
	"clipper/internal/services/ffmpeg"
	"clipper/internal/timerange"
)

// SourceHandle is the coordinator's view of an acquired source.
type SourceHandle interface {
	Path() string
	Quality() quality.Resolved
	Release() error
}

// Acquirer resolves availability and materializes the shared source.
type Acquirer interface {
	Availability(ctx context.Context, url string) (quality.Availability, error)
	Acquire(ctx context.Context, url string, resolved quality.Resolved, strategy cut.Strategy, workdir string, keep bool) (SourceHandle, error)
}

// Request describes one batch run.
type Request struct {
	URL        string
	Clips      []timerange.ClipRange
	Strategy   cut.Strategy
	Quality    quality.Request
	OutDir     string
	Format     string
	Jobs       int
	KeepSource bool
}

// Option configures the coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithClock overrides the timestamp source used for output naming.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// Coordinator drives one run end to end: acquire once, cut many, report in
// request order. A run-level failure (acquisition, quality negotiation, a
// fast-copy container mismatch) aborts before any cut starts; per-job
// failures are isolated and never cancel siblings.
type Coordinator struct {
	acquirer Acquirer
	cutter   ffmpeg.Cutter
	logger   *slog.Logger
	now      func() time.Time
}

// NewCoordinator constructs a coordinator over the acquisition and cutting
// surfaces.
func NewCoordinator(acquirer Acquirer, cutter ffmpeg.Cutter, opts ...Option) *Coordinator {
	c := &Coordinator{
		acquirer: acquirer,
		cutter:   cutter,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "batch")
	return c
}

// Run executes the batch. The returned error reports run-level aborts only;
// individual job outcomes live in BatchResult and never make Run fail.
func (c *Coordinator) Run(ctx context.Context, req Request) (BatchResult, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	result := BatchResult{RunID: runID}

	logger := logging.WithContext(ctx, c.logger)
	logger.Info("run starting",
		logging.String("state", string(RunInitializing)),
		logging.String("url", req.URL),
		logging.Int("clips", len(req.Clips)),
		logging.String("strategy", req.Strategy.String()))

	if len(req.Clips) == 0 {
		return result, services.Wrap(services.ErrValidation, "batch", "initialize", "no clip ranges to cut", nil)
	}

	resolver, err := naming.NewResolver(req.OutDir, req.Format, c.now())
	if err != nil {
		return result, services.Wrap(services.ErrConfiguration, "batch", "initialize", "output directory is unusable", err)
	}

	// Paths are claimed in request order before any worker starts, so a
	// parallel run names its outputs exactly like a sequential one.
	jobs := make([]CutJob, len(req.Clips))
	for i, clip := range req.Clips {
		jobs[i] = CutJob{Index: i + 1, Range: clip, OutputPath: resolver.OutputPath(clip)}
	}

	handle, err := c.acquire(ctx, req, runID, resolver.OutDir())
	if err != nil {
		return result, err
	}
	defer func() {
		if releaseErr := handle.Release(); releaseErr != nil {
			logger.Warn("failed to release source workspace", logging.Error(releaseErr))
		}
	}()
	result.SourcePath = handle.Path()

	if req.Strategy == cut.FastCopy {
		// One structurally impossible fast copy means they all are; abort
		// before producing a partial batch.
		if err := ffmpeg.CheckContainer(handle.Path(), "probe."+resolver.Format()); err != nil {
			return result, err
		}
	}

	logger.Info("cutting clips",
		logging.String("state", string(RunCutting)),
		logging.String("source", handle.Path()),
		logging.Int("jobs", workerCount(req.Jobs, len(jobs))))

	result.Results = c.cutAll(ctx, handle, req, jobs)

	logger.Info("run completed",
		logging.String("state", string(RunCompleted)),
		logging.Int("succeeded", result.Succeeded()),
		logging.Int("failed", result.Failed()))
	return result, nil
}

// acquire negotiates quality and downloads the shared source into a
// run-scoped workspace under the output directory.
func (c *Coordinator) acquire(ctx context.Context, req Request, runID, outDir string) (SourceHandle, error) {
	ctx = services.WithPhase(ctx, string(RunAcquiring))
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("probing source", logging.String("state", string(RunAcquiring)))

	avail, err := c.acquirer.Availability(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	resolved, err := quality.Resolve(req.Quality, avail, req.Strategy)
	if err != nil {
		return nil, err
	}

	workdir := filepath.Join(outDir, ".clipper-"+runID)
	handle, err := c.acquirer.Acquire(ctx, req.URL, resolved, req.Strategy, workdir, req.KeepSource)
	if err != nil {
		return nil, err
	}
	if req.KeepSource {
		logger.Info("keeping source after run", logging.String("path", handle.Path()))
	}
	return handle, nil
}

// cutAll runs the jobs on a bounded worker pool. Each job writes its result
// into its own slot, so the returned slice is in request order.
func (c *Coordinator) cutAll(ctx context.Context, handle SourceHandle, req Request, jobs []CutJob) []JobResult {
	results := make([]JobResult, len(jobs))
	workers := workerCount(req.Jobs, len(jobs))

	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				results[i] = c.cutOne(ctx, handle, req.Strategy, jobs[i])
			}
		}()
	}
	for i := range jobs {
		queue <- i
	}
	close(queue)
	wg.Wait()
	return results
}

func (c *Coordinator) cutOne(ctx context.Context, handle SourceHandle, strategy cut.Strategy, job CutJob) JobResult {
	jobCtx := services.WithJobIndex(services.WithPhase(ctx, string(RunCutting)), job.Index)
	logger := logging.WithContext(jobCtx, c.logger)

	if err := ctx.Err(); err != nil {
		return JobResult{Job: job, State: JobFailed, Err: fmt.Errorf("job not started: %w", err)}
	}

	logger.Info("cut starting",
		logging.String("job", string(JobRunning)),
		logging.String("range", job.Range.String()),
		logging.String("output", job.OutputPath))

	err := c.cutter.Cut(jobCtx, ffmpeg.Request{
		SourcePath: handle.Path(),
		Range:      job.Range,
		Strategy:   strategy,
		OutputPath: job.OutputPath,
	})
	if err != nil {
		logger.Error("cut failed",
			logging.String("job", string(JobFailed)),
			logging.String("range", job.Range.String()),
			logging.Error(err))
		return JobResult{Job: job, State: JobFailed, Err: err}
	}

	logger.Info("cut finished",
		logging.String("job", string(JobSucceeded)),
		logging.String("output", job.OutputPath))
	return JobResult{Job: job, State: JobSucceeded}
}

func workerCount(requested, jobCount int) int {
	if requested < 1 {
		requested = 1
	}
	if requested > jobCount {
		return jobCount
	}
	return requested
}

// IsValidationFailure reports whether err stems from input validation rather
// than tooling or network trouble. The CLI maps the two classes to distinct
// exit codes.
func IsValidationFailure(err error) bool {
	var parseErrs timerange.ParseErrors
	if errors.As(err, &parseErrs) {
		return true
	}
	var parseErr *timerange.ParseError
	if errors.As(err, &parseErr) {
		return true
	}
	return errors.Is(err, services.ErrValidation)
}
