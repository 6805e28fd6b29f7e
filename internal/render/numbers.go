package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// humanizeThreshold is the smallest value that gets separators or a suffix.
const humanizeThreshold = 1000

// siPrefixes lists the prefixes humanize.ComputeSI returns above the threshold.
var siPrefixes = []string{"k", "M", "G", "T", "P", "E"}

// compactSuffixes renames SI prefixes to the count suffixes readers expect.
var compactSuffixes = map[string]string{"G": "B"}

// FormatCount renders a count for the stats card. Values below 1000 are printed
// as is; larger values get thousands separators, or a k/M/B suffix when compact.
func FormatCount(n int, compact bool) string {
	if n < humanizeThreshold {
		return strconv.Itoa(n)
	}
	if !compact {
		return humanize.Comma(int64(n))
	}
	return compactCount(n)
}

func compactCount(n int) string {
	value, prefix := humanize.ComputeSI(float64(n))
	value = math.Round(value*10) / 10
	// 999,950 rounds to 1000.0k; carry into the next prefix.
	if value >= 1000 {
		for i, p := range siPrefixes {
			if p == prefix && i+1 < len(siPrefixes) {
				value, prefix = value/1000, siPrefixes[i+1]
				break
			}
		}
	}
	if suffix, ok := compactSuffixes[prefix]; ok {
		prefix = suffix
	}
	return fmt.Sprintf("%.1f%s", value, prefix)
}

// FormatDiskUsage renders a size reported by GitHub in kilobytes.
func FormatDiskUsage(kb int) string {
	if kb <= 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(kb) * 1024)
}
