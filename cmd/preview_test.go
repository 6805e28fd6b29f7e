package cmd

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/naka-gawa/github-stats-box/internal/domain"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
	"github.com/naka-gawa/github-stats-box/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOptions(t *testing.T) {
	testCases := []struct {
		only        string
		expected    usecase.RunOptions
		expectError bool
	}{
		{only: "", expected: usecase.RunOptions{Stats: true, Coding: true, Publish: true}},
		{only: "stats", expected: usecase.RunOptions{Stats: true, Publish: true}},
		{only: "coding", expected: usecase.RunOptions{Coding: true, Publish: true}},
		{only: "both", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.only, func(t *testing.T) {
			opts, err := runOptions(tc.only, true)
			if tc.expectError {
				require.Error(t, err)
				assert.Equal(t, apperrors.ExitConfiguration, apperrors.ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, opts)
		})
	}
}

func TestPrintPreview(t *testing.T) {
	color.NoColor = true

	set := domain.NewBucketSet()
	set.Add("go", 10, 2)
	set.Finalize(12)

	report := &usecase.RunReport{
		Stats: &usecase.StatsReport{
			Snapshot: &domain.StatsSnapshot{DisplayName: "Octo"},
			Text:     "card\n",
		},
		Coding: &usecase.CodingReport{
			Commits: []domain.CommitRef{{Owner: "octo", Repo: "hello", SHA: "a1"}},
			Result: &usecase.AggregateResult{
				Buckets: set,
				Failed:  []usecase.CommitFailure{{Ref: domain.CommitRef{SHA: "bad"}}},
			},
			Text: "Go line\n",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printPreview(&buf, report, true, map[string]string{"go": "Go"}))

	out := buf.String()
	assert.Contains(t, out, "Octo's GitHub Stats\ncard\n")
	assert.Contains(t, out, "Coding activity (1 commits)\nGo line\n")
	assert.Contains(t, out, "1 commits could not be fetched")
	assert.Contains(t, out, "100.0%")
}

func TestPrintPreview_OnlyCodingEmpty(t *testing.T) {
	color.NoColor = true

	report := &usecase.RunReport{
		Coding: &usecase.CodingReport{
			Result: &usecase.AggregateResult{Buckets: domain.NewBucketSet()},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printPreview(&buf, report, false, nil))
	assert.Equal(t, "Coding activity (0 commits)\nNo changes in the last 14 days.\n", buf.String())
}
