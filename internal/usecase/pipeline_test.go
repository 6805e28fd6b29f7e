package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/naka-gawa/github-stats-box/internal/domain"
	"github.com/naka-gawa/github-stats-box/internal/logger"
	"github.com/naka-gawa/github-stats-box/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func newTestCodingPipeline(fetcher *mockFetcher) *CodingPipeline {
	aggregator := NewFileChangeAggregator(fetcher, AggregatorOptions{Workers: 2, ExcludedExtensions: testExcluded}, logger.Nop())
	return NewCodingPipeline(fetcher, aggregator, CodingPipelineOptions{
		Lookback: 14 * 24 * time.Hour,
		Now:      func() time.Time { return fixedNow },
		Render:   render.CodingActivityOptions{ExtensionNames: map[string]string{"go": "Go", "ts": "TypeScript"}},
	}, logger.Nop())
}

func newTestStatsPipeline(fetcher *mockFetcher) *StatsPipeline {
	return NewStatsPipeline(NewStatsProjector(fetcher, false, logger.Nop()), render.StatsCardOptions{}, logger.Nop())
}

func TestStatsFileName(t *testing.T) {
	assert.Equal(t, "Octo Cat's GitHub Stats", StatsFileName("Octo Cat"))
}

func TestStatsPipeline_Build(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchViewerProfile", mock.Anything).Return(testProfile(), nil)

	report, err := newTestStatsPipeline(fetcher).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Octo Cat", report.Snapshot.DisplayName)
	assert.Equal(t, render.RenderStatsCard(*report.Snapshot, render.StatsCardOptions{}), report.Text)
	assert.Contains(t, report.Text, "Total Stars")
}

func TestCodingPipeline_Build(t *testing.T) {
	since := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("skips repositories without commits", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchRecentHistory", mock.Anything, since).Return([]domain.RepositoryHistory{
			{FullName: "octo/empty-repo"},
			{FullName: "octo/quiet", HasDefaultBranch: true},
			{FullName: "octo/hello", HasDefaultBranch: true, ResourcePaths: []string{"/octo/hello/commit/a1"}},
		}, nil)
		fetcher.On("FetchCommitFiles", mock.Anything, ref("a1")).Return([]domain.FileDelta{
			{Filename: "main.go", Additions: 10, Deletions: 2},
			{Filename: "readme.md", Additions: 3},
		}, nil)

		report, err := newTestCodingPipeline(fetcher).Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []domain.CommitRef{ref("a1")}, report.Commits)

		lines := strings.Split(strings.TrimSuffix(report.Text, "\n"), "\n")
		require.Len(t, lines, 1)
		assert.True(t, strings.HasPrefix(lines[0], "Go "))
		assert.Contains(t, lines[0], strings.Repeat("█", 20))
		assert.True(t, strings.HasSuffix(lines[0], "100.0%"))
		fetcher.AssertExpectations(t)
	})

	t.Run("orders by share", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchRecentHistory", mock.Anything, since).Return([]domain.RepositoryHistory{
			{FullName: "octo/hello", HasDefaultBranch: true, ResourcePaths: []string{"/octo/hello/commit/a1", "/octo/hello/commit/b2"}},
		}, nil)
		fetcher.On("FetchCommitFiles", mock.Anything, ref("a1")).Return([]domain.FileDelta{{Filename: "app.ts", Additions: 25}}, nil)
		fetcher.On("FetchCommitFiles", mock.Anything, ref("b2")).Return([]domain.FileDelta{{Filename: "main.go", Additions: 70, Deletions: 5}}, nil)

		report, err := newTestCodingPipeline(fetcher).Build(context.Background())
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(report.Text, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Go "))
		assert.True(t, strings.HasSuffix(lines[0], " 75.0%"))
		assert.True(t, strings.HasPrefix(lines[1], "TypeScript"))
		assert.True(t, strings.HasSuffix(lines[1], " 25.0%"))
		assert.Contains(t, lines[0], strings.Repeat("█", 15)+strings.Repeat("░", 5))
		assert.Contains(t, lines[1], strings.Repeat("█", 5)+strings.Repeat("░", 15))
	})

	t.Run("history error", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchRecentHistory", mock.Anything, since).Return(nil, errors.New("graphql: timeout"))

		report, err := newTestCodingPipeline(fetcher).Build(context.Background())
		require.Error(t, err)
		assert.Nil(t, report)
		assert.Contains(t, err.Error(), "cannot retrieve recent commits")
	})

	t.Run("malformed resource path", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchRecentHistory", mock.Anything, since).Return([]domain.RepositoryHistory{
			{FullName: "octo/hello", HasDefaultBranch: true, ResourcePaths: []string{"octo/hello"}},
		}, nil)

		_, err := newTestCodingPipeline(fetcher).Build(context.Background())
		require.Error(t, err)
		fetcher.AssertNotCalled(t, "FetchCommitFiles", mock.Anything, mock.Anything)
	})
}

func TestRunner_Run(t *testing.T) {
	history := []domain.RepositoryHistory{
		{FullName: "octo/hello", HasDefaultBranch: true, ResourcePaths: []string{"/octo/hello/commit/a1"}},
	}
	deltas := []domain.FileDelta{{Filename: "main.go", Additions: 10, Deletions: 2}}

	t.Run("publishes both reports", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewerProfile", mock.Anything).Return(testProfile(), nil)
		fetcher.On("FetchRecentHistory", mock.Anything, mock.Anything).Return(history, nil)
		fetcher.On("FetchCommitFiles", mock.Anything, ref("a1")).Return(deltas, nil)

		store := new(mockStore)
		store.On("ReadDocument", mock.Anything, "stats-gist").Return(&domain.Document{
			ID: "stats-gist", Files: []domain.DocumentFile{{Name: "old name", Content: "stale"}},
		}, nil)
		store.On("ReadDocument", mock.Anything, "coding-gist").Return(&domain.Document{
			ID: "coding-gist", Files: []domain.DocumentFile{{Name: "activity", Content: "stale"}},
		}, nil)
		store.On("WriteDocument", mock.Anything, "stats-gist", "old name", mock.Anything, "Octo Cat's GitHub Stats").Return(nil).Once()
		store.On("WriteDocument", mock.Anything, "coding-gist", "activity", mock.Anything, "").Return(nil).Once()

		runner := NewRunner(RunnerConfig{
			Stats:        newTestStatsPipeline(fetcher),
			Coding:       newTestCodingPipeline(fetcher),
			Gate:         NewSyncGate(store, logger.Nop()),
			StatsTarget:  Target{DocumentID: "stats-gist"},
			CodingTarget: Target{DocumentID: "coding-gist", FileName: "activity"},
		}, logger.Nop())

		report, err := runner.Run(context.Background(), RunOptions{Stats: true, Coding: true, Publish: true})
		require.NoError(t, err)
		assert.Equal(t, SyncUpdated, report.StatsSync)
		assert.Equal(t, SyncUpdated, report.CodingSync)
		store.AssertExpectations(t)
	})

	t.Run("configured stats file name is kept", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewerProfile", mock.Anything).Return(testProfile(), nil)

		store := new(mockStore)
		store.On("ReadDocument", mock.Anything, "stats-gist").Return(&domain.Document{
			ID: "stats-gist", Files: []domain.DocumentFile{{Name: "stats.md", Content: "stale"}},
		}, nil)
		store.On("WriteDocument", mock.Anything, "stats-gist", "stats.md", mock.Anything, "").Return(nil).Once()

		runner := NewRunner(RunnerConfig{
			Stats:       newTestStatsPipeline(fetcher),
			Gate:        NewSyncGate(store, logger.Nop()),
			StatsTarget: Target{DocumentID: "stats-gist", FileName: "stats.md"},
		}, logger.Nop())

		report, err := runner.Run(context.Background(), RunOptions{Stats: true, Publish: true})
		require.NoError(t, err)
		assert.Equal(t, SyncUpdated, report.StatsSync)
		assert.Nil(t, report.Coding)
		store.AssertExpectations(t)
	})

	t.Run("one failing pipeline does not stop the other", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewerProfile", mock.Anything).Return(nil, errors.New("401 Bad credentials"))
		fetcher.On("FetchRecentHistory", mock.Anything, mock.Anything).Return(history, nil)
		fetcher.On("FetchCommitFiles", mock.Anything, ref("a1")).Return(deltas, nil)

		runner := NewRunner(RunnerConfig{
			Stats:  newTestStatsPipeline(fetcher),
			Coding: newTestCodingPipeline(fetcher),
		}, logger.Nop())

		report, err := runner.Run(context.Background(), RunOptions{Stats: true, Coding: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot retrieve statistics")
		assert.Nil(t, report.Stats)
		require.NotNil(t, report.Coding)
		assert.Contains(t, report.Coding.Text, "100.0%")
		assert.Equal(t, SyncSkipped, report.CodingSync)
	})

	t.Run("both failures are joined", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchViewerProfile", mock.Anything).Return(nil, errors.New("profile down"))
		fetcher.On("FetchRecentHistory", mock.Anything, mock.Anything).Return(nil, errors.New("history down"))

		runner := NewRunner(RunnerConfig{
			Stats:  newTestStatsPipeline(fetcher),
			Coding: newTestCodingPipeline(fetcher),
		}, logger.Nop())

		_, err := runner.Run(context.Background(), RunOptions{Stats: true, Coding: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profile down")
		assert.Contains(t, err.Error(), "history down")
	})

	t.Run("unchanged gist is not written", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchRecentHistory", mock.Anything, mock.Anything).Return(history, nil)
		fetcher.On("FetchCommitFiles", mock.Anything, ref("a1")).Return(deltas, nil)

		pipeline := newTestCodingPipeline(fetcher)
		built, err := pipeline.Build(context.Background())
		require.NoError(t, err)

		store := new(mockStore)
		store.On("ReadDocument", mock.Anything, "coding-gist").Return(&domain.Document{
			ID: "coding-gist", Files: []domain.DocumentFile{{Name: "activity", Content: built.Text}},
		}, nil)

		runner := NewRunner(RunnerConfig{
			Coding:       pipeline,
			Gate:         NewSyncGate(store, logger.Nop()),
			CodingTarget: Target{DocumentID: "coding-gist"},
		}, logger.Nop())

		report, err := runner.Run(context.Background(), RunOptions{Coding: true, Publish: true})
		require.NoError(t, err)
		assert.Equal(t, SyncUnchanged, report.CodingSync)
		store.AssertNotCalled(t, "WriteDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no recent commits leaves the coding gist untouched", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("FetchRecentHistory", mock.Anything, mock.Anything).Return([]domain.RepositoryHistory{
			{FullName: "octo/quiet", HasDefaultBranch: true},
		}, nil)

		store := new(mockStore)
		runner := NewRunner(RunnerConfig{
			Coding:       newTestCodingPipeline(fetcher),
			Gate:         NewSyncGate(store, logger.Nop()),
			CodingTarget: Target{DocumentID: "coding-gist"},
		}, logger.Nop())

		report, err := runner.Run(context.Background(), RunOptions{Coding: true, Publish: true})
		require.NoError(t, err)
		assert.Empty(t, report.Coding.Text)
		assert.Equal(t, SyncSkipped, report.CodingSync)
		store.AssertNotCalled(t, "WriteDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish without gate", func(t *testing.T) {
		runner := NewRunner(RunnerConfig{Stats: newTestStatsPipeline(new(mockFetcher))}, logger.Nop())
		_, err := runner.Run(context.Background(), RunOptions{Stats: true, Publish: true})
		require.Error(t, err)
	})

	t.Run("missing pipeline", func(t *testing.T) {
		runner := NewRunner(RunnerConfig{}, logger.Nop())
		_, err := runner.Run(context.Background(), RunOptions{Coding: true})
		require.Error(t, err)
	})
}
