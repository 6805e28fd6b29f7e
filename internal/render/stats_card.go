// Package render turns aggregated data into the fixed-width text stored in gists.
// Every renderer is a pure function of its arguments.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/naka-gawa/github-stats-box/internal/domain"
)

// statsLineWidth is the column width of "label:" + padding + value.
const statsLineWidth = 45

// Report versions understood by RenderStatsCard.
const (
	StatsVersionPRs       = 1
	StatsVersionDiskUsage = 2
)

// StatsCardOptions control the optional parts of the stats card.
type StatsCardOptions struct {
	CompactNumbers bool
	// Version 1 shows total PRs, version 2 shows disk usage in the same slot.
	Version int
}

type statsLine struct {
	emoji string
	label string
	value string
}

// width measures columns independently of the RUNEWIDTH_EASTASIAN and locale environment.
var width = newWidthCondition()

func newWidthCondition() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}

// RenderStatsCard renders one line per metric, each ending in a newline.
func RenderStatsCard(s domain.StatsSnapshot, opts StatsCardOptions) string {
	count := func(n int) string { return FormatCount(n, opts.CompactNumbers) }

	commitsLabel := "Past Year Commits"
	if s.CountsAllTimeCommits {
		commitsLabel = "Total Commits"
	}

	optional := statsLine{emoji: "🔀", label: "Total PRs", value: count(s.TotalPRs)}
	if opts.Version == StatsVersionDiskUsage {
		optional = statsLine{emoji: "💾", label: "Disk Usage", value: FormatDiskUsage(s.TotalDiskUsageKB)}
	}

	lines := []statsLine{
		{emoji: "⭐", label: "Total Stars", value: count(s.TotalStars)},
		{emoji: "➕", label: commitsLabel, value: count(s.TotalCommits)},
		optional,
		{emoji: "🚩", label: "Total Issues", value: count(s.TotalIssues)},
		{emoji: "📦", label: "Contributed to", value: count(s.ContributedTo)},
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(formatStatsLine(l))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatStatsLine(l statsLine) string {
	head := l.label + ":"
	pad := statsLineWidth - width.StringWidth(head) - width.StringWidth(l.value)
	if pad < 1 {
		pad = 1
	}
	return l.emoji + "    " + head + strings.Repeat(" ", pad) + l.value
}
