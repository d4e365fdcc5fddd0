package tui

import (
	"strings"

	"github.com/jmoret/rosterbee/internal/progress"
)

// transcript is the operation output pane. It owns a coalescer and
// renders the tail of its lines into the available height.
type transcript struct {
	coalescer *progress.Coalescer
	// lastOK colours the most recent terminal line.
	lastOK  bool
	hasRuns bool
}

func newTranscript() transcript {
	return transcript{coalescer: progress.NewCoalescer()}
}

func (t *transcript) Append(msg string) {
	t.coalescer.Append(msg)
}

func (t *transcript) Finish(o progress.Outcome) {
	t.coalescer.Finish(o)
	t.coalescer.Spacer()
	t.lastOK = o.Success
	t.hasRuns = true
}

func (t *transcript) Reset() {
	t.coalescer.Reset()
	t.hasRuns = false
}

// View renders the last maxLines transcript lines.
func (t *transcript) View(maxLines int) string {
	lines := t.coalescer.Lines()
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	styled := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, progress.DisplayPrefix):
			styled[i] = transcriptTickStyle.Render(line)
		default:
			styled[i] = valueStyle.Render(line)
		}
	}
	return strings.Join(styled, "\n")
}
