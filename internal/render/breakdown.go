package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/naka-gawa/github-stats-box/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteBreakdown prints the buckets as a table, in report order.
func WriteBreakdown(w io.Writer, set *domain.BucketSet, names map[string]string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Extension", "Language", "Additions", "Deletions", "Changes", "Share"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, b := range SortedBuckets(set) {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			b.Extension,
			DisplayName(b.Extension, names),
			strconv.Itoa(b.Additions),
			strconv.Itoa(b.Deletions),
			strconv.Itoa(b.Changes),
			fmt.Sprintf("%.1f%%", b.Percentage),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
