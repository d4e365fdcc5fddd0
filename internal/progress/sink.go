package progress

import "fmt"

// Sink receives stream messages from a running operation, in emission
// order. Implementations must not drop or reorder messages.
type Sink interface {
	Send(msg string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(msg string)

func (f SinkFunc) Send(msg string) { f(msg) }

// Discard swallows all messages, for callers that don't display progress.
var Discard Sink = SinkFunc(func(string) {})

// Milestonef emits a permanent line.
func Milestonef(s Sink, format string, args ...any) {
	s.Send(fmt.Sprintf(format, args...))
}

// Transientf emits a replaceable progress tick.
func Transientf(s Sink, format string, args ...any) {
	s.Send(WirePrefix + " " + fmt.Sprintf(format, args...))
}
