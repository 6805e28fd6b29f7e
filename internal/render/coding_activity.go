package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/naka-gawa/github-stats-box/internal/domain"
)

// Column layout of a coding activity line.
const (
	nameWidth  = 10
	countWidth = 7
	barLength  = 20
	ellipsis   = "…"
	barFilled  = "█"
	barEmpty   = "░"
)

// CodingActivityOptions carry the static data the renderer needs.
type CodingActivityOptions struct {
	// ExtensionNames maps lower-case extensions to display names.
	ExtensionNames map[string]string
}

// RenderCodingActivity renders one line per bucket, highest percentage first.
// Buckets with equal percentages keep their creation order. An empty set renders as "".
func RenderCodingActivity(set *domain.BucketSet, opts CodingActivityOptions) string {
	buckets := SortedBuckets(set)
	if len(buckets) == 0 {
		return ""
	}

	lines := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		lines = append(lines, formatActivityLine(bucket, opts.ExtensionNames))
	}
	return strings.Join(lines, "\n") + "\n"
}

// SortedBuckets returns the buckets ordered by percentage, descending and stable.
func SortedBuckets(set *domain.BucketSet) []*domain.ExtensionBucket {
	if set == nil {
		return nil
	}
	buckets := set.Buckets()
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Percentage > buckets[j].Percentage
	})
	return buckets
}

func formatActivityLine(b *domain.ExtensionBucket, names map[string]string) string {
	name := width.FillRight(width.Truncate(DisplayName(b.Extension, names), nameWidth, ellipsis), nameWidth)
	return fmt.Sprintf("%s %*s %*s %s %5.1f%%",
		name,
		countWidth, "+"+strconv.Itoa(b.Additions),
		countWidth, "-"+strconv.Itoa(b.Deletions),
		ProgressBar(b.Percentage),
		b.Percentage,
	)
}

// ProgressBar draws a fixed-length bar with round(percentage*length/100) filled blocks.
func ProgressBar(percentage float64) string {
	filled := int(math.Round(percentage * barLength / 100))
	filled = max(0, min(barLength, filled))
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, barLength-filled)
}

// DisplayName returns the table name for ext, or ext with its first letter upper-cased.
func DisplayName(ext string, names map[string]string) string {
	if name, ok := names[strings.ToLower(ext)]; ok {
		return name
	}
	r, size := utf8.DecodeRuneInString(ext)
	if r == utf8.RuneError {
		return ext
	}
	return string(unicode.ToUpper(r)) + ext[size:]
}
