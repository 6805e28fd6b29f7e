// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-stats-box/internal/domain"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
	"github.com/naka-gawa/github-stats-box/internal/gateway"
	"github.com/naka-gawa/github-stats-box/internal/logger"
	"github.com/sourcegraph/conc/pool"
)

// DefaultAggregatorWorkers is used when AggregatorOptions.Workers is not positive.
const DefaultAggregatorWorkers = 8

// AggregatorOptions configure a FileChangeAggregator.
type AggregatorOptions struct {
	// Workers bounds the number of concurrent commit file requests.
	Workers int
	// ExcludedExtensions holds lower-case extensions that are dropped entirely.
	ExcludedExtensions map[string]struct{}
	// OnProgress is called once per finished commit request, from worker goroutines.
	OnProgress func()
}

// CommitFailure records a commit whose files could not be fetched.
type CommitFailure struct {
	Ref domain.CommitRef
	Err error
}

// AggregateResult is the outcome of one aggregation pass.
type AggregateResult struct {
	Buckets *domain.BucketSet
	Failed  []CommitFailure
}

// FileChangeAggregator is the use case that turns commits into per-extension change buckets.
// It fans out to the diff fetcher and merges the results once every request has finished.
type FileChangeAggregator struct {
	fetcher gateway.DiffFetcher
	opts    AggregatorOptions
	logger  *logger.Logger
}

type commitResult struct {
	deltas []domain.FileDelta
	err    error
}

// NewFileChangeAggregator creates a new FileChangeAggregator instance.
func NewFileChangeAggregator(fetcher gateway.DiffFetcher, opts AggregatorOptions, logger *logger.Logger) *FileChangeAggregator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultAggregatorWorkers
	}
	return &FileChangeAggregator{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
	}
}

// Aggregate fetches the files of every commit and accumulates them into buckets.
// A failed commit is reported in the result and left out of the buckets; the pass
// only fails when every commit failed.
func (a *FileChangeAggregator) Aggregate(ctx context.Context, refs []domain.CommitRef) (*AggregateResult, error) {
	a.logger.Infof("Usecase: Fetching changed files for %d commits...", len(refs))

	// Each goroutine writes only its own slot; merging happens after Wait.
	results := make([]commitResult, len(refs))
	p := pool.New().WithMaxGoroutines(a.opts.Workers)
	for i, ref := range refs {
		p.Go(func() {
			deltas, err := a.fetcher.FetchCommitFiles(ctx, ref)
			results[i] = commitResult{deltas: deltas, err: err}
			if a.opts.OnProgress != nil {
				a.opts.OnProgress()
			}
		})
	}
	p.Wait()

	buckets := domain.NewBucketSet()
	var failed []CommitFailure
	for i, r := range results {
		if r.err != nil {
			a.logger.With("commit", refs[i].String()).Warnf("Skipping commit: %v", r.err)
			failed = append(failed, CommitFailure{Ref: refs[i], Err: r.err})
			continue
		}
		for _, delta := range r.deltas {
			ext, ok := NormalizeExtension(delta.Filename, a.opts.ExcludedExtensions)
			if !ok {
				continue
			}
			buckets.Add(ext, delta.Additions, delta.Deletions)
		}
	}

	if len(refs) > 0 && len(failed) == len(refs) {
		return nil, apperrors.Transport(failed[0].Err, fmt.Sprintf("failed to fetch files for all %d commits", len(refs)))
	}

	// stats.Sum reports an error only for empty input, where the total is zero.
	total, err := stats.Sum(buckets.Changes())
	if err != nil {
		total = 0
	}
	buckets.Finalize(total)

	a.logger.Infof("Usecase: Aggregated %d extensions (%d commits skipped).", buckets.Len(), len(failed))
	return &AggregateResult{Buckets: buckets, Failed: failed}, nil
}

// NormalizeExtension returns the extension a file is counted under, and false when
// the file is excluded. The key is lower-cased, so "x.GO" and "y.go" share a bucket.
// The extension is the text after the last ".", cut after its last "/" when the dot
// belonged to a directory name.
func NormalizeExtension(filename string, excluded map[string]struct{}) (string, bool) {
	ext := filename[strings.LastIndex(filename, ".")+1:]
	if i := strings.LastIndex(ext, "/"); i >= 0 {
		ext = ext[i+1:]
	}
	ext = strings.ToLower(ext)
	if ext == "" {
		return "", false
	}
	if _, skip := excluded[ext]; skip {
		return "", false
	}
	return ext, true
}
