// Package pipeline runs trajectories through read, clean, simplify and write,
// one file at a time or as a concurrent batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/planbiir/gsquish/internal/clean"
	"github.com/planbiir/gsquish/internal/config"
	"github.com/planbiir/gsquish/internal/logger"
	"github.com/planbiir/gsquish/internal/simplify"
	"github.com/planbiir/gsquish/internal/track"
	"github.com/planbiir/gsquish/internal/trackio"
)

// Job names one trajectory to simplify. An empty Output is derived from
// Input and the configured suffix; an empty Format follows the configured
// output format, then the input format.
type Job struct {
	Input  string
	Output string
	Format trackio.Format
}

// Runner executes jobs with a shared configuration. Every job gets its own
// algorithm instance, so a Runner can be used from several goroutines.
type Runner struct {
	Config *config.Config
	Logger *zap.SugaredLogger
	DryRun bool
}

// NewRunner creates a runner. A nil logger selects the pipeline component
// logger.
func NewRunner(cfg *config.Config, log *zap.SugaredLogger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.For(logger.ComponentPipeline)
	}
	return &Runner{Config: cfg, Logger: log}
}

// Run simplifies a single trajectory.
func (r *Runner) Run(ctx context.Context, job Job) (Report, error) {
	start := time.Now()
	report := Report{
		RunID:     uuid.NewString(),
		Input:     job.Input,
		Algorithm: r.Config.Algorithm,
		DryRun:    r.DryRun,
	}
	log := r.Logger.With("run_id", report.RunID, "input", job.Input)

	src, err := trackio.Read(job.Input)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", job.Input, err)
	}
	report.InputFormat = string(src.Format)
	report.OriginalPoints = len(src.Points)
	log.Debugw("trajectory loaded", "format", src.Format, "points", len(src.Points))

	if err := ctx.Err(); err != nil {
		return report, err
	}

	cleaned, err := clean.Clean(src.Points, r.Config.Clean)
	report.Clean = cleaned.Stats
	report.CleanedPoints = len(cleaned.Points)
	if err != nil {
		return report, fmt.Errorf("clean %s: %w", job.Input, err)
	}
	if cleaned.Stats.PointsRemoved > 0 {
		log.Infow("dropped invalid points",
			"removed", cleaned.Stats.PointsRemoved,
			"non_finite", cleaned.Stats.NonFinite,
			"zero_coordinates", cleaned.Stats.ZeroCoordinates,
			"out_of_order", cleaned.Stats.OutOfOrder,
			"duplicates", cleaned.Stats.Duplicates,
			"too_fast", cleaned.Stats.TooFast)
	}

	algo, err := simplify.Create(r.Config.Algorithm, r.Config.Params)
	if err != nil {
		return report, err
	}
	report.Metadata = algo.Metadata()

	simplified, err := algo.Simplify(cleaned.Points)
	if err != nil {
		return report, fmt.Errorf("simplify %s: %w", job.Input, err)
	}
	if s, ok := algo.(*simplify.SquishE); ok {
		stats := s.LastStats()
		report.Buffer = &stats
	}

	// Locate the output in the cleaned input, then in the source file.
	positions, err := track.SubsequenceIndices(cleaned.Points, simplified)
	if err != nil {
		return report, fmt.Errorf("%s produced an invalid result: %w", algo.Name(), err)
	}
	sourceIndices := make([]int, len(positions))
	for i, pos := range positions {
		sourceIndices[i] = cleaned.Indices[pos]
	}

	report.SimplifiedPoints = len(simplified)
	report.PointsPercent = float64(report.OriginalPoints-report.SimplifiedPoints) / float64(report.OriginalPoints) * 100
	report.CompressionRatio = float64(report.CleanedPoints) / float64(report.SimplifiedPoints)
	report.OriginalLength = track.GeodesicLength(cleaned.Points) / 1000
	report.SimplifiedLength = track.GeodesicLength(simplified) / 1000
	report.MaxSED, report.MeanSED, err = track.ReconstructionError(cleaned.Points, simplified)
	if err != nil {
		return report, err
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	format, err := r.outputFormat(job, src.Format)
	if err != nil {
		return report, err
	}
	report.OutputFormat = string(format)

	output := job.Output
	if output == "" {
		output = trackio.OutputPath(job.Input, r.Config.Output.Suffix, format)
	}
	if samePath(output, job.Input) {
		return report, fmt.Errorf("output %s would overwrite the input", output)
	}

	if !r.DryRun {
		result := trackio.Result{
			Points:    simplified,
			Indices:   sourceIndices,
			Algorithm: algo.Name(),
			Metadata:  algo.Metadata(),
		}
		if err := trackio.Write(output, format, src, result); err != nil {
			return report, fmt.Errorf("write %s: %w", output, err)
		}
		report.Output = output
	}

	report.ProcessingTime = time.Since(start)
	log.Debugw("trajectory simplified",
		"output", report.Output,
		"points", report.SimplifiedPoints,
		"max_sed", report.MaxSED,
		"duration", report.ProcessingTime)

	return report, nil
}

func (r *Runner) outputFormat(job Job, input trackio.Format) (trackio.Format, error) {
	switch {
	case job.Format != "":
		return job.Format, nil
	case r.Config.Output.Format != "":
		return trackio.ParseFormat(r.Config.Output.Format)
	case job.Output != "":
		return trackio.DetectFormat(job.Output)
	default:
		return input, nil
	}
}

// RunBatch runs jobs concurrently, at most Config.Workers at a time. Reports
// come back in job order. The first failure cancels the jobs that have not
// started yet and is returned together with every report produced so far.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job) ([]Report, error) {
	workers := r.Config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	reports := make([]Report, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := r.Run(ctx, job)
			reports[i] = report
			return err
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		r.Logger.Errorw("batch failed", "error", err)
	}

	r.Logger.Infow("batch finished",
		"jobs", len(jobs),
		"workers", workers,
		"duration", time.Since(start))

	return reports, err
}

// samePath reports whether a and b name the same file, either by their
// cleaned absolute paths or, when both exist, by identity.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
