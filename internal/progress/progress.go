// Package progress shows a per-target progress bar while a sync runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/klauern/agentsync/internal/logging"
	"github.com/klauern/agentsync/internal/ui"
)

// Bar wraps progressbar with agentsync's color and logging settings.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
}

// Options configures the progress bar behavior.
type Options struct {
	// Max is the number of steps.
	Max int64
	// Description is the prefix text shown before the bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a progress bar. The bar is only drawn when colors are
// enabled, the writer is a terminal and debug logging is off; otherwise
// progress is logged at debug level.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{
		enabled: shouldShowProgress(opts.Writer),
		desc:    opts.Description,
	}

	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description),
			logging.Count(int(opts.Max)))
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
	return b
}

// Enabled reports whether the bar is drawn.
func (b *Bar) Enabled() bool {
	return b.enabled
}

// Step advances the bar by one and shows desc.
func (b *Bar) Step(desc string) error {
	b.desc = desc
	if !b.enabled {
		logging.Debug("progress", logging.Target(desc))
		return nil
	}
	b.bar.Describe(desc)
	return b.bar.Add(1)
}

// Finish completes the bar.
func (b *Bar) Finish() error {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc))
		return nil
	}
	return b.bar.Finish()
}

// Clear removes the bar from the terminal.
func (b *Bar) Clear() error {
	if !b.enabled {
		return nil
	}
	return b.bar.Clear()
}

// Tracker adapts a lazily created Bar to the sync progress callback, whose
// total is only known once the run starts.
type Tracker struct {
	writer io.Writer
	bar    *Bar
}

// NewTracker returns a tracker drawing to w.
func NewTracker(w io.Writer) *Tracker {
	return &Tracker{writer: w}
}

// Update records that tool finished as step done of total.
func (t *Tracker) Update(tool string, done, total int) {
	if t.bar == nil {
		t.bar = New(Options{Max: int64(total), Description: "Syncing", Writer: t.writer})
	}
	if err := t.bar.Step(tool); err != nil {
		logging.Debug("failed to render progress", logging.Err(err))
	}
	if done == total {
		_ = t.bar.Finish()
	}
}

// Close clears an unfinished bar, e.g. after a failed run.
func (t *Tracker) Close() {
	if t.bar != nil {
		_ = t.bar.Clear()
	}
}

// shouldShowProgress determines if progress bars should be displayed.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}

	// Bars and debug logs share stderr.
	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}
