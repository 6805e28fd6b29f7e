package usecase

import (
	"strings"
	"time"

	"github.com/naka-gawa/github-stats-box/internal/domain"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
)

// commitPathSegments is the segment count of "/{owner}/{repo}/commit/{sha}" split on "/".
const commitPathSegments = 5

// ParseCommitResourcePath parses a GraphQL commit resourcePath of the form
// /{owner}/{repo}/commit/{sha}. Any other shape is a parse error.
func ParseCommitResourcePath(path string) (domain.CommitRef, error) {
	parts := strings.Split(path, "/")
	if len(parts) != commitPathSegments || parts[0] != "" || parts[3] != "commit" {
		return domain.CommitRef{}, apperrors.Parse("unexpected commit resource path %q", path)
	}
	ref := domain.CommitRef{Owner: parts[1], Repo: parts[2], SHA: parts[4]}
	if ref.Owner == "" || ref.Repo == "" || ref.SHA == "" {
		return domain.CommitRef{}, apperrors.Parse("unexpected commit resource path %q", path)
	}
	return ref, nil
}

// EnumerateCommits flattens repository histories into commit references, keeping input order.
// Repositories without a default branch or without recent commits are skipped.
func EnumerateCommits(histories []domain.RepositoryHistory) ([]domain.CommitRef, error) {
	var refs []domain.CommitRef
	for _, history := range histories {
		if !history.HasDefaultBranch || len(history.ResourcePaths) == 0 {
			continue
		}
		for _, path := range history.ResourcePaths {
			ref, err := ParseCommitResourcePath(path)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// WindowStart returns the start of the lookback window ending at now, in UTC.
func WindowStart(now time.Time, lookback time.Duration) time.Time {
	return now.UTC().Add(-lookback)
}
