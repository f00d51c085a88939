// Package progress reports per-item completion of long runs, as a bar on terminals and as plain lines otherwise.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Reporter tracks completion of a fixed number of items.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	bar    *progressbar.ProgressBar
	label  func(idx int) string
	failed int
}

// New returns a reporter writing to out. label names item idx in plain output and failure messages.
func New(out io.Writer, description string, total int, label func(idx int) string) *Reporter {
	reporter := &Reporter{out: out, label: label}

	if file, ok := out.(*os.File); ok && isTerminal(file.Fd()) {
		reporter.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	return reporter
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Update records the completion of item idx. Its signature matches worker.Options.Progress.
func (r *Reporter) Update(done, total, idx int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.failed++
	}

	if r.bar == nil {
		if err != nil {
			fmt.Fprintf(r.out, "[%d/%d] %s: %v\n", done, total, r.label(idx), err)
		} else {
			fmt.Fprintf(r.out, "[%d/%d] %s\n", done, total, r.label(idx))
		}

		return
	}

	if err != nil {
		// Keep failures visible above the bar.
		_ = r.bar.Clear()
		fmt.Fprintf(r.out, "%s: %v\n", r.label(idx), err)
	}

	_ = r.bar.Add(1)
}

// Finish completes the bar and returns the number of failed items.
func (r *Reporter) Finish() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Finish()
	}

	return r.failed
}
