// Package domain contains the core data structures and domain logic for the application.
package domain

// ViewerProfile is the raw profile of the authenticated user as returned by GitHub.
type ViewerProfile struct {
	Name                     string
	Login                    string
	TotalCommitContributions int
	ContributedToCount       int
	ContributedToDiskUsageKB int
	PullRequestCount         int
	IssueCount               int
	RepositoryStars          []int
}

// StatsSnapshot holds the aggregate statistics shown on the stats card.
// It is built once per run and never modified afterwards.
type StatsSnapshot struct {
	DisplayName          string `json:"name"`
	TotalStars           int    `json:"total_stars"`
	TotalCommits         int    `json:"total_commits"`
	TotalPRs             int    `json:"total_prs"`
	TotalIssues          int    `json:"total_issues"`
	ContributedTo        int    `json:"contributed_to"`
	TotalDiskUsageKB     int    `json:"total_disk_usage_kb"`
	CountsAllTimeCommits bool   `json:"count_all_commits"`
}
