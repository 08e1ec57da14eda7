package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/txnload/internal/batch"
	"github.com/bft-labs/txnload/internal/domain"
	"github.com/bft-labs/txnload/internal/format"
	"github.com/bft-labs/txnload/internal/loader"
	"github.com/bft-labs/txnload/internal/ports"
	"github.com/bft-labs/txnload/internal/retry"
	"github.com/bft-labs/txnload/pkg/log"
)

// PipelineConfig contains configuration for one import run.
type PipelineConfig struct {
	File      string
	Table     string
	BatchSize int
	Retry     retry.Policy
}

// Pipeline loads the input file, formats every record and writes the
// resulting put requests to the table.
type Pipeline struct {
	config  PipelineConfig
	writer  *Writer
	reports ports.ReportRepository
	logger  log.Logger
	now     func() time.Time
}

// NewPipeline creates a pipeline. reports may be nil to skip saving run
// reports.
func NewPipeline(config PipelineConfig, tables ports.TableWriter, reports ports.ReportRepository, logger log.Logger) *Pipeline {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if config.BatchSize <= 0 || config.BatchSize > domain.MaxBatchWriteItems {
		config.BatchSize = domain.MaxBatchWriteItems
	}
	return &Pipeline{
		config:  config,
		writer:  NewWriter(tables, config.Table, config.BatchSize, config.Retry, logger),
		reports: reports,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one import. Load and parse failures are returned before any
// write is attempted; failed batches are reported, not returned.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	report := domain.RunReport{
		RunID:     uuid.NewString(),
		File:      p.config.File,
		Table:     p.config.Table,
		StartedAt: p.now().UTC(),
		Batches:   []domain.BatchResult{},
	}

	p.logPrevious(ctx)

	records, err := loader.Load(p.config.File)
	if err != nil {
		p.logger.Error("load failed", log.String("run_id", report.RunID), log.String("file", p.config.File), log.Err(err))
		return p.finish(ctx, report, err)
	}

	report.Records = len(records)
	report.TotalBatches = batch.Count(len(records), p.config.BatchSize)
	p.logger.Info("loaded transactions",
		log.String("run_id", report.RunID),
		log.Int("transactions", report.Records),
		log.Int("batches", report.TotalBatches),
	)

	reqs, err := format.PutRequests(records)
	if err != nil {
		p.logger.Error("format failed", log.String("run_id", report.RunID), log.Err(err))
		return p.finish(ctx, report, err)
	}

	results, err := p.writer.Write(ctx, reqs)
	if err != nil {
		return p.finish(ctx, report, fmt.Errorf("write: %w", err))
	}
	report.Batches = results

	p.logger.Info("import finished",
		log.String("run_id", report.RunID),
		log.Int("written", report.Written()),
		log.Int("failed_batches", report.FailedBatches()),
		log.Int("dropped", len(report.Dropped())),
	)
	return p.finish(ctx, report, ctx.Err())
}

// logPrevious reports what the last saved run left unwritten.
func (p *Pipeline) logPrevious(ctx context.Context) {
	if p.reports == nil {
		return
	}
	prev, err := p.reports.Load(ctx)
	if err != nil {
		p.logger.Warn("load previous report failed", log.Err(err))
		return
	}
	if prev.RunID == "" {
		return
	}
	p.logger.Info("previous run",
		log.String("run_id", prev.RunID),
		log.Int("written", prev.Written()),
		log.Int("dropped", len(prev.Dropped())),
	)
}

func (p *Pipeline) finish(ctx context.Context, report domain.RunReport, runErr error) (domain.RunReport, error) {
	report.FinishedAt = p.now().UTC()
	if runErr != nil {
		report.Error = runErr.Error()
	}
	if p.reports == nil {
		return report, runErr
	}

	// the report is saved even when ctx is done
	if err := p.reports.Save(context.WithoutCancel(ctx), report); err != nil {
		p.logger.Error("save report failed", log.Err(err))
		return report, errors.Join(runErr, fmt.Errorf("save report: %w", err))
	}
	return report, runErr
}
