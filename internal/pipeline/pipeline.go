// Package pipeline runs load, analysis and report for election years.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"legisurprise/internal/analysis"
	"legisurprise/internal/election"
	"legisurprise/internal/loader"
	"legisurprise/internal/logging"
	"legisurprise/internal/report"
)

// Source loads election sets of a year. Load reconciles both rounds,
// LoadRound1 reads the first round only.
type Source interface {
	Load(year int, mode loader.Mode) (*election.Set, error)
	LoadRound1(year int, mode loader.Mode) (*election.Set, error)
}

// Job is one year to process with its input layout.
type Job struct {
	Year int
	Mode loader.Mode
}

// Pipeline wires a Source to a Reporter.
type Pipeline struct {
	source   Source
	reporter *report.Reporter
	top      int
	logger   *zap.Logger
}

// New returns a Pipeline printing up to top candidates per surprise.
func New(source Source, reporter *report.Reporter, top int) *Pipeline {
	return &Pipeline{
		source:   source,
		reporter: reporter,
		top:      top,
		logger:   logging.Get(logging.CategoryPipeline),
	}
}

// Run processes one year and prints its report.
func (p *Pipeline) Run(job Job) (*analysis.Summary, error) {
	logger := p.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.Int("year", job.Year),
		zap.Stringer("mode", job.Mode),
	)
	logger.Debug("starting run")

	set, err := p.source.Load(job.Year, job.Mode)
	if err != nil {
		logger.Error("load failed", zap.Error(err))
		return nil, fmt.Errorf("year %d: %w", job.Year, err)
	}

	summary, err := analysis.Analyze(set)
	if err != nil {
		logger.Error("analysis failed", zap.Error(err))
		return nil, fmt.Errorf("year %d: %w", job.Year, err)
	}

	if err := p.reporter.Report(summary, p.top); err != nil {
		return nil, fmt.Errorf("year %d: write report: %w", job.Year, err)
	}

	logger.Info("run complete",
		zap.Int("surprises", len(summary.Surprises)),
		zap.Int("constituencies", summary.Total),
	)
	return summary, nil
}

// RunAll processes jobs in order. A failing year does not stop the others;
// the returned error combines every failure.
func (p *Pipeline) RunAll(jobs []Job) ([]*analysis.Summary, error) {
	var (
		summaries []*analysis.Summary
		errs      error
	)
	for _, job := range jobs {
		summary, err := p.Run(job)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, errs
}

// List prints the round-1 listing line of every constituency of a year.
// The round-2 file is not read.
func (p *Pipeline) List(job Job, top int) error {
	set, err := p.source.LoadRound1(job.Year, job.Mode)
	if err != nil {
		return fmt.Errorf("year %d: %w", job.Year, err)
	}
	for _, c := range set.All() {
		if err := p.reporter.Listing(c, top); err != nil {
			return fmt.Errorf("year %d: write listing: %w", job.Year, err)
		}
	}
	return nil
}
