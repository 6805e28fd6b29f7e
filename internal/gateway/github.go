// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-stats-box/internal/domain"
	apperrors "github.com/naka-gawa/github-stats-box/internal/errors"
	"github.com/naka-gawa/github-stats-box/internal/logger"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// ProfileFetcher fetches the authenticated user's profile.
type ProfileFetcher interface {
	FetchViewerProfile(ctx context.Context) (*domain.ViewerProfile, error)
}

// CommitCounter counts every commit authored by a login.
type CommitCounter interface {
	FetchTotalCommitCount(ctx context.Context, login string) (int, error)
}

// DiskUsageFetcher sums the disk usage of the viewer's public repositories, in KB.
type DiskUsageFetcher interface {
	FetchPublicDiskUsage(ctx context.Context) (int, error)
}

// HistoryFetcher lists default-branch commits per repository since a point in time.
type HistoryFetcher interface {
	FetchRecentHistory(ctx context.Context, since time.Time) ([]domain.RepositoryHistory, error)
}

// DiffFetcher lists the files changed by one commit.
type DiffFetcher interface {
	FetchCommitFiles(ctx context.Context, ref domain.CommitRef) ([]domain.FileDelta, error)
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ProfileFetcher
	CommitCounter
	DiskUsageFetcher
	HistoryFetcher
	DiffFetcher
}

// Options tune the shared HTTP transport.
type Options struct {
	Timeout           time.Duration
	MaxRateLimitSleep time.Duration
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *logger.Logger
}

// viewerProfileQuery fetches every field of the stats card in one round trip.
type viewerProfileQuery struct {
	Viewer struct {
		Name                    string
		Login                   string
		ContributionsCollection struct {
			TotalCommitContributions int
		}
		RepositoriesContributedTo struct {
			TotalCount     int
			TotalDiskUsage int
		} `graphql:"repositoriesContributedTo(first: 1, contributionTypes: [COMMIT, ISSUE, PULL_REQUEST, REPOSITORY])"`
		PullRequests struct {
			TotalCount int
		} `graphql:"pullRequests(first: 1)"`
		Issues struct {
			TotalCount int
		} `graphql:"issues(first: 1)"`
		Repositories struct {
			Nodes []struct {
				Stargazers struct {
					TotalCount int
				}
			}
		} `graphql:"repositories(first: 100, ownerAffiliations: OWNER, isFork: false, orderBy: {direction: DESC, field: STARGAZERS})"`
	}
}

// publicDiskUsageQuery reads the disk usage total of the viewer's public repositories.
type publicDiskUsageQuery struct {
	Viewer struct {
		Repositories struct {
			TotalDiskUsage int
		} `graphql:"repositories(first: 100, privacy: PUBLIC, orderBy: {field: UPDATED_AT, direction: DESC})"`
	}
}

// commitHistory is one page of a default-branch history connection.
type commitHistory struct {
	PageInfo struct {
		HasNextPage bool
		EndCursor   githubv4.String
	}
	Nodes []struct {
		ResourcePath string
	}
}

// recentHistoryQuery pages through the viewer's repositories with the first page of their recent default-branch commits.
type recentHistoryQuery struct {
	Viewer struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				NameWithOwner    string
				DefaultBranchRef *struct {
					Target struct {
						Commit struct {
							History commitHistory `graphql:"history(first: 100, since: $since)"`
						} `graphql:"... on Commit"`
					}
				}
			}
		} `graphql:"repositories(first: 100, after: $cursor, orderBy: {field: CREATED_AT, direction: DESC})"`
	}
}

// repositoryHistoryQuery fetches the following pages of one repository's default-branch history.
type repositoryHistoryQuery struct {
	Repository struct {
		DefaultBranchRef *struct {
			Target struct {
				Commit struct {
					History commitHistory `graphql:"history(first: 100, after: $historyCursor, since: $since)"`
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewHTTPClient builds the authenticated client shared by the REST, GraphQL and gist calls.
func NewHTTPClient(token string, opts Options) (*http.Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(opts.MaxRateLimitSleep, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Timeout: opts.Timeout,
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}, nil
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(httpClient *http.Client, logger *logger.Logger) *GitHubGateway {
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}
}

// FetchViewerProfile runs the viewer profile query.
func (g *GitHubGateway) FetchViewerProfile(ctx context.Context) (*domain.ViewerProfile, error) {
	g.logger.Debug("Fetching viewer profile...")
	var q viewerProfileQuery
	if err := g.graphqlClient.Query(ctx, &q, nil); err != nil {
		return nil, apperrors.Transport(err, "failed to execute GraphQL query for viewer profile")
	}

	v := q.Viewer
	stars := make([]int, 0, len(v.Repositories.Nodes))
	for _, repo := range v.Repositories.Nodes {
		stars = append(stars, repo.Stargazers.TotalCount)
	}
	return &domain.ViewerProfile{
		Name:                     v.Name,
		Login:                    v.Login,
		TotalCommitContributions: v.ContributionsCollection.TotalCommitContributions,
		ContributedToCount:       v.RepositoriesContributedTo.TotalCount,
		ContributedToDiskUsageKB: v.RepositoriesContributedTo.TotalDiskUsage,
		PullRequestCount:         v.PullRequests.TotalCount,
		IssueCount:               v.Issues.TotalCount,
		RepositoryStars:          stars,
	}, nil
}

// FetchTotalCommitCount asks the commit search API for the number of commits authored by login.
func (g *GitHubGateway) FetchTotalCommitCount(ctx context.Context, login string) (int, error) {
	g.logger.Debugf("Counting all commits authored by %s...", login)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, _, err := g.restClient.Search.Commits(ctx, "author:"+login, opts)
	if err != nil {
		return 0, apperrors.Transport(err, "failed to search commits with REST API")
	}
	return result.GetTotal(), nil
}

// FetchPublicDiskUsage runs the public disk usage query.
func (g *GitHubGateway) FetchPublicDiskUsage(ctx context.Context) (int, error) {
	g.logger.Debug("Fetching public repository disk usage...")
	var q publicDiskUsageQuery
	if err := g.graphqlClient.Query(ctx, &q, nil); err != nil {
		return 0, apperrors.Transport(err, "failed to execute GraphQL query for disk usage")
	}
	return q.Viewer.Repositories.TotalDiskUsage, nil
}

// FetchRecentHistory lists, per repository, the default-branch commits made since the given time.
func (g *GitHubGateway) FetchRecentHistory(ctx context.Context, since time.Time) ([]domain.RepositoryHistory, error) {
	g.logger.Debugf("Fetching repository history since %s...", since.UTC().Format(time.RFC3339))
	variables := map[string]interface{}{
		"cursor": (*githubv4.String)(nil),
		"since":  githubv4.GitTimestamp{Time: since.UTC()},
	}

	var histories []domain.RepositoryHistory
	for {
		var q recentHistoryQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, apperrors.Transport(err, "failed to execute GraphQL query for recent history")
		}

		for _, node := range q.Viewer.Repositories.Nodes {
			history := domain.RepositoryHistory{FullName: node.NameWithOwner}
			if node.DefaultBranchRef != nil {
				history.HasDefaultBranch = true
				page := node.DefaultBranchRef.Target.Commit.History
				history.ResourcePaths = appendResourcePaths(history.ResourcePaths, page)
				if page.PageInfo.HasNextPage {
					rest, err := g.fetchRemainingHistory(ctx, node.NameWithOwner, since, page.PageInfo.EndCursor)
					if err != nil {
						return nil, err
					}
					history.ResourcePaths = append(history.ResourcePaths, rest...)
				}
			}
			histories = append(histories, history)
		}

		if !q.Viewer.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Viewer.Repositories.PageInfo.EndCursor)
		g.logger.Debug("  Fetching next page of repositories...")
	}
	g.logger.Debugf("Completed fetching history for %d repositories.", len(histories))
	return histories, nil
}

// fetchRemainingHistory follows one repository's history connection from cursor to its last page.
func (g *GitHubGateway) fetchRemainingHistory(ctx context.Context, nameWithOwner string, since time.Time, cursor githubv4.String) ([]string, error) {
	owner, name, ok := strings.Cut(nameWithOwner, "/")
	if !ok || owner == "" || name == "" {
		return nil, apperrors.Parse("unexpected repository name %q", nameWithOwner)
	}
	variables := map[string]interface{}{
		"owner":         githubv4.String(owner),
		"name":          githubv4.String(name),
		"historyCursor": githubv4.NewString(cursor),
		"since":         githubv4.GitTimestamp{Time: since.UTC()},
	}

	var paths []string
	for {
		g.logger.Debugf("  Fetching next page of history for %s...", nameWithOwner)
		var q repositoryHistoryQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeTransport, "failed to execute GraphQL query for history of %s", nameWithOwner)
		}
		// The default branch can disappear between two pages.
		if q.Repository.DefaultBranchRef == nil {
			return paths, nil
		}
		page := q.Repository.DefaultBranchRef.Target.Commit.History
		paths = appendResourcePaths(paths, page)
		if !page.PageInfo.HasNextPage {
			return paths, nil
		}
		variables["historyCursor"] = githubv4.NewString(page.PageInfo.EndCursor)
	}
}

func appendResourcePaths(paths []string, page commitHistory) []string {
	for _, commit := range page.Nodes {
		paths = append(paths, commit.ResourcePath)
	}
	return paths
}

// FetchCommitFiles lists every file changed by one commit, following file pagination.
func (g *GitHubGateway) FetchCommitFiles(ctx context.Context, ref domain.CommitRef) ([]domain.FileDelta, error) {
	opts := &github.ListOptions{PerPage: 100}
	var deltas []domain.FileDelta
	for {
		commit, resp, err := g.restClient.Repositories.GetCommit(ctx, ref.Owner, ref.Repo, ref.SHA, opts)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeTransport, "failed to get commit %s", ref)
		}
		for _, file := range commit.Files {
			deltas = append(deltas, domain.FileDelta{
				Filename:  file.GetFilename(),
				Additions: file.GetAdditions(),
				Deletions: file.GetDeletions(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return deltas, nil
}
