package cmd

import (
	"fmt"
	"os"

	"github.com/naka-gawa/github-stats-box/internal/config"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
	"github.com/naka-gawa/github-stats-box/internal/gateway"
	"github.com/naka-gawa/github-stats-box/internal/logger"
	"github.com/naka-gawa/github-stats-box/internal/progress"
	"github.com/naka-gawa/github-stats-box/internal/render"
	"github.com/naka-gawa/github-stats-box/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds everything one command invocation needs.
type app struct {
	cfg     *config.Config
	logger  *logger.Logger
	runner  *usecase.Runner
	run     usecase.RunOptions
	tracker *progress.Tracker
}

// runOptions turns the --only flag into the pipelines to run.
func runOptions(only string, publish bool) (usecase.RunOptions, error) {
	switch only {
	case "":
		return usecase.RunOptions{Stats: true, Coding: true, Publish: publish}, nil
	case "stats":
		return usecase.RunOptions{Stats: true, Publish: publish}, nil
	case "coding":
		return usecase.RunOptions{Coding: true, Publish: publish}, nil
	default:
		return usecase.RunOptions{}, apperrors.Configuration(fmt.Sprintf("invalid --only value %q (expected stats or coding)", only))
	}
}

// newApp loads the configuration and injects dependencies for cmd.
func newApp(cmd *cobra.Command, publish bool) (*app, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	run, err := runOptions(v.GetString("only"), publish)
	if err != nil {
		return nil, err
	}
	if publish {
		if err := cfg.ValidateForSync(run.Stats, run.Coding); err != nil {
			return nil, err
		}
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	httpClient, err := gateway.NewHTTPClient(cfg.Token, gateway.Options{
		Timeout:           cfg.HTTPTimeout,
		MaxRateLimitSleep: cfg.MaxRateLimitSleep,
	})
	if err != nil {
		return nil, err
	}
	githubGateway := gateway.NewGitHubGateway(httpClient, log)

	a := &app{cfg: cfg, logger: log, run: run}
	aggregatorOpts := usecase.AggregatorOptions{
		Workers:            cfg.Workers,
		ExcludedExtensions: cfg.ExcludedExtensions,
	}
	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress && run.Coding {
		a.tracker = progress.NewSpinner(os.Stderr, "Fetching commit files")
		aggregatorOpts.OnProgress = a.tracker.Tick
	}

	runnerCfg := usecase.RunnerConfig{
		StatsTarget:  usecase.Target{DocumentID: cfg.Stats.GistID, FileName: cfg.Stats.FileName},
		CodingTarget: usecase.Target{DocumentID: cfg.Coding.GistID, FileName: cfg.Coding.FileName},
	}
	if run.Stats {
		projector := usecase.NewStatsProjector(githubGateway, cfg.CountAllCommits, log)
		runnerCfg.Stats = usecase.NewStatsPipeline(projector, render.StatsCardOptions{
			CompactNumbers: cfg.CompactNumbers,
			Version:        cfg.ReportVersion,
		}, log)
	}
	if run.Coding {
		aggregator := usecase.NewFileChangeAggregator(githubGateway, aggregatorOpts, log)
		runnerCfg.Coding = usecase.NewCodingPipeline(githubGateway, aggregator, usecase.CodingPipelineOptions{
			Lookback: config.LookbackWindow,
			Render:   render.CodingActivityOptions{ExtensionNames: cfg.ExtensionNames},
		}, log)
	}
	if publish {
		runnerCfg.Gate = usecase.NewSyncGate(gateway.NewGistStore(httpClient, log), log)
	}
	a.runner = usecase.NewRunner(runnerCfg, log)
	return a, nil
}

// finish clears the progress spinner, if any.
func (a *app) finish() {
	if a.tracker != nil {
		a.tracker.Finish()
	}
}
