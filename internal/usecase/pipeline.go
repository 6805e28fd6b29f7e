package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/naka-gawa/github-stats-box/internal/domain"
	"github.com/naka-gawa/github-stats-box/internal/gateway"
	"github.com/naka-gawa/github-stats-box/internal/logger"
	"github.com/naka-gawa/github-stats-box/internal/render"
)

// Target is the gist a report is published to.
type Target struct {
	DocumentID string
	FileName   string
}

// StatsReport is the rendered stats card and the snapshot it was built from.
type StatsReport struct {
	Snapshot *domain.StatsSnapshot
	Text     string
}

// CodingReport is the rendered coding activity report and its inputs.
type CodingReport struct {
	Commits []domain.CommitRef
	Result  *AggregateResult
	Text    string
}

// StatsFileName is the gist file name of the stats card.
func StatsFileName(displayName string) string {
	return displayName + "'s GitHub Stats"
}

// StatsPipeline builds the stats card.
type StatsPipeline struct {
	projector *StatsProjector
	options   render.StatsCardOptions
	logger    *logger.Logger
}

// NewStatsPipeline creates a new StatsPipeline instance.
func NewStatsPipeline(projector *StatsProjector, options render.StatsCardOptions, logger *logger.Logger) *StatsPipeline {
	return &StatsPipeline{projector: projector, options: options, logger: logger}
}

// Build fetches the statistics and renders the card.
func (p *StatsPipeline) Build(ctx context.Context) (*StatsReport, error) {
	snapshot, err := p.projector.Project(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot retrieve statistics: %w", err)
	}
	p.logger.Infof("Successfully fetched statistics from GitHub for %s", snapshot.DisplayName)
	return &StatsReport{Snapshot: snapshot, Text: render.RenderStatsCard(*snapshot, p.options)}, nil
}

// CodingPipelineOptions configure a CodingPipeline.
type CodingPipelineOptions struct {
	Lookback time.Duration
	// Now defaults to time.Now.
	Now    func() time.Time
	Render render.CodingActivityOptions
}

// CodingPipeline builds the coding activity report.
type CodingPipeline struct {
	history    gateway.HistoryFetcher
	aggregator *FileChangeAggregator
	opts       CodingPipelineOptions
	logger     *logger.Logger
}

// NewCodingPipeline creates a new CodingPipeline instance.
func NewCodingPipeline(history gateway.HistoryFetcher, aggregator *FileChangeAggregator, opts CodingPipelineOptions, logger *logger.Logger) *CodingPipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CodingPipeline{history: history, aggregator: aggregator, opts: opts, logger: logger}
}

// Build lists recent commits, aggregates their files and renders the report.
func (p *CodingPipeline) Build(ctx context.Context) (*CodingReport, error) {
	since := WindowStart(p.opts.Now(), p.opts.Lookback)
	histories, err := p.history.FetchRecentHistory(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("cannot retrieve recent commits: %w", err)
	}
	refs, err := EnumerateCommits(histories)
	if err != nil {
		return nil, fmt.Errorf("cannot retrieve recent commits: %w", err)
	}
	p.logger.Infof("Successfully fetched %d commits from GitHub since %s", len(refs), since.Format(time.RFC3339))

	result, err := p.aggregator.Aggregate(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("cannot aggregate commit files: %w", err)
	}
	return &CodingReport{
		Commits: refs,
		Result:  result,
		Text:    render.RenderCodingActivity(result.Buckets, p.opts.Render),
	}, nil
}

// RunOptions select what a Runner does.
type RunOptions struct {
	Stats   bool
	Coding  bool
	Publish bool
}

// RunReport collects the outcome of both pipelines.
type RunReport struct {
	Stats      *StatsReport
	Coding     *CodingReport
	StatsSync  SyncResult
	CodingSync SyncResult
}

// Runner runs the stats and coding pipelines side by side.
type Runner struct {
	stats        *StatsPipeline
	coding       *CodingPipeline
	gate         *SyncGate
	statsTarget  Target
	codingTarget Target
	logger       *logger.Logger
}

// RunnerConfig wires a Runner. Gate may be nil when nothing is published.
type RunnerConfig struct {
	Stats        *StatsPipeline
	Coding       *CodingPipeline
	Gate         *SyncGate
	StatsTarget  Target
	CodingTarget Target
}

// NewRunner creates a new Runner instance.
func NewRunner(cfg RunnerConfig, logger *logger.Logger) *Runner {
	return &Runner{
		stats:        cfg.Stats,
		coding:       cfg.Coding,
		gate:         cfg.Gate,
		statsTarget:  cfg.StatsTarget,
		codingTarget: cfg.CodingTarget,
		logger:       logger,
	}
}

// Run executes the selected pipelines concurrently. A failure in one does not stop the
// other; every failure is returned joined.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	if opts.Publish && r.gate == nil {
		return nil, errors.New("runner has no sync gate to publish with")
	}
	if (opts.Stats && r.stats == nil) || (opts.Coding && r.coding == nil) {
		return nil, errors.New("runner is missing a selected pipeline")
	}

	report := &RunReport{}
	var statsErr, codingErr error
	var wg sync.WaitGroup

	if opts.Stats {
		wg.Go(func() {
			report.Stats, report.StatsSync, statsErr = r.runStats(ctx, opts.Publish)
		})
	}
	if opts.Coding {
		wg.Go(func() {
			report.Coding, report.CodingSync, codingErr = r.runCoding(ctx, opts.Publish)
		})
	}
	wg.Wait()

	if statsErr != nil {
		r.logger.With("pipeline", "stats").Error("Pipeline failed", statsErr)
	}
	if codingErr != nil {
		r.logger.With("pipeline", "coding").Error("Pipeline failed", codingErr)
	}
	return report, errors.Join(statsErr, codingErr)
}

func (r *Runner) runStats(ctx context.Context, publish bool) (*StatsReport, SyncResult, error) {
	report, err := r.stats.Build(ctx)
	if err != nil || !publish {
		return report, SyncSkipped, err
	}

	req := SyncRequest{
		DocumentID: r.statsTarget.DocumentID,
		FileName:   r.statsTarget.FileName,
		Content:    report.Text,
	}
	// A configured file name must stay stable to be found again on the next run.
	if r.statsTarget.FileName == "" {
		req.NewFileName = StatsFileName(report.Snapshot.DisplayName)
	}
	result, err := r.gate.Sync(ctx, req)
	if err != nil {
		return report, SyncSkipped, fmt.Errorf("cannot update gist: %w", err)
	}
	return report, result, nil
}

func (r *Runner) runCoding(ctx context.Context, publish bool) (*CodingReport, SyncResult, error) {
	report, err := r.coding.Build(ctx)
	if err != nil || !publish {
		return report, SyncSkipped, err
	}

	result, err := r.gate.Sync(ctx, SyncRequest{
		DocumentID: r.codingTarget.DocumentID,
		FileName:   r.codingTarget.FileName,
		Content:    report.Text,
	})
	if err != nil {
		return report, SyncSkipped, fmt.Errorf("cannot update gist: %w", err)
	}
	return report, result, nil
}
