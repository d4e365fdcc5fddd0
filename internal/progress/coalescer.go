// Package progress turns the ordered message stream of a long-running
// operation into a compact display transcript. Repeated progress ticks
// collapse into a single line that updates in place; discrete milestone
// messages always get their own permanent line.
package progress

import "strings"

// WirePrefix marks a message as transient on the wire. The remainder of
// the message, with leading whitespace trimmed, is the transient payload.
const WirePrefix = "[PROGRESS]"

// DisplayPrefix is how transient payloads are rendered, distinct from
// the wire prefix so transcripts are unambiguous.
const DisplayPrefix = "(progress) "

// Outcome is the single terminal result that ends a message stream.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Coalescer is the two-state reducer over an ordered message stream. It
// performs no buffering and no reordering; messages must be fed strictly
// in arrival order. Not safe for concurrent use; each operation gets its
// own Coalescer on the consuming side.
type Coalescer struct {
	lines []string
	// transient reports whether the most recently appended line may be
	// replaced by the next transient message.
	transient bool
}

func NewCoalescer() *Coalescer {
	return &Coalescer{}
}

// Append processes one stream message.
func (c *Coalescer) Append(msg string) {
	payload, ok := strings.CutPrefix(msg, WirePrefix)
	if !ok {
		c.lines = append(c.lines, msg)
		c.transient = false
		return
	}
	line := DisplayPrefix + strings.TrimLeft(payload, " \t")
	if !c.transient {
		c.lines = append(c.lines, line)
		c.transient = true
		return
	}
	// Replace the most recent line in place. Trailing blank lines are
	// dropped first so spacers injected by the UI never survive as the
	// "most recent" line.
	c.dropTrailingBlank()
	if len(c.lines) == 0 {
		c.lines = append(c.lines, line)
		return
	}
	c.lines[len(c.lines)-1] = line
}

// Finish appends the terminal result. The summary always gets a new
// permanent line, never overwriting a pending transient line, followed
// by the optional details.
func (c *Coalescer) Finish(o Outcome) {
	c.lines = append(c.lines, o.Message)
	if o.Details != "" {
		c.lines = append(c.lines, o.Details)
	}
	c.transient = false
}

// Spacer appends a blank separator line without touching reducer state.
// A transient update arriving after a spacer discards it and replaces the
// line above, so spacers never break coalescing.
func (c *Coalescer) Spacer() {
	c.lines = append(c.lines, "")
}

// Lines returns a copy of the transcript so far.
func (c *Coalescer) Lines() []string {
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// Reset discards the transcript, ready for a new operation.
func (c *Coalescer) Reset() {
	c.lines = nil
	c.transient = false
}

func (c *Coalescer) dropTrailingBlank() {
	for len(c.lines) > 0 && strings.TrimSpace(c.lines[len(c.lines)-1]) == "" {
		c.lines = c.lines[:len(c.lines)-1]
	}
}
