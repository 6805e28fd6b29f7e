// Package progress draws terminal progress for long fetches.
package progress

import (
	"io"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a spinner for work whose total is not known up front.
type Tracker struct {
	bar   *progressbar.ProgressBar
	count atomic.Int64
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.count.Add(1)
	_ = t.bar.Add(1)
}

// Count returns the number of ticks so far.
func (t *Tracker) Count() int64 {
	return t.count.Load()
}

// Finish clears the spinner.
func (t *Tracker) Finish() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
