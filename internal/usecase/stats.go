package usecase

import (
	"context"

	"github.com/naka-gawa/github-stats-box/internal/domain"
	"github.com/naka-gawa/github-stats-box/internal/gateway"
	"github.com/naka-gawa/github-stats-box/internal/logger"
	"golang.org/x/sync/errgroup"
)

// StatsFetcher is the part of the gateway the stats card needs.
type StatsFetcher interface {
	gateway.ProfileFetcher
	gateway.CommitCounter
	gateway.DiskUsageFetcher
}

// StatsProjector builds the stats card snapshot for the authenticated user.
type StatsProjector struct {
	fetcher         StatsFetcher
	countAllCommits bool
	logger          *logger.Logger
}

// NewStatsProjector creates a new StatsProjector. When countAllCommits is set, commits and
// disk usage come from the all-time commit search and public repository totals.
func NewStatsProjector(fetcher StatsFetcher, countAllCommits bool, logger *logger.Logger) *StatsProjector {
	return &StatsProjector{
		fetcher:         fetcher,
		countAllCommits: countAllCommits,
		logger:          logger,
	}
}

// Project fetches the profile and maps it to a snapshot.
func (p *StatsProjector) Project(ctx context.Context) (*domain.StatsSnapshot, error) {
	profile, err := p.fetcher.FetchViewerProfile(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := ProjectProfile(profile, p.countAllCommits)
	if !p.countAllCommits {
		return &snapshot, nil
	}

	var totalCommits, diskUsage int
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		totalCommits, err = p.fetcher.FetchTotalCommitCount(egCtx, profile.Login)
		return err
	})
	eg.Go(func() error {
		var err error
		diskUsage, err = p.fetcher.FetchPublicDiskUsage(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	snapshot.TotalCommits = totalCommits
	snapshot.TotalDiskUsageKB = diskUsage
	return &snapshot, nil
}

// ProjectProfile maps a raw profile to a snapshot using only the profile's own fields.
func ProjectProfile(profile *domain.ViewerProfile, countAllCommits bool) domain.StatsSnapshot {
	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	stars := 0
	for _, n := range profile.RepositoryStars {
		stars += n
	}
	return domain.StatsSnapshot{
		DisplayName:          name,
		TotalStars:           stars,
		TotalCommits:         profile.TotalCommitContributions,
		TotalPRs:             profile.PullRequestCount,
		TotalIssues:          profile.IssueCount,
		ContributedTo:        profile.ContributedToCount,
		TotalDiskUsageKB:     profile.ContributedToDiskUsageKB,
		CountsAllTimeCommits: countAllCommits,
	}
}
