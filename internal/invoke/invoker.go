package invoke

import (
	"context"
	"strings"
	"time"
)

// DefaultTimeout bounds a single action invocation.
const DefaultTimeout = 300 * time.Second

// Invoker executes a monitor's bound action: run an instruction against a
// working directory and report a short diagnostic. Implementations must
// respect ctx cancellation and never block past their Timeout.
type Invoker interface {
	// Invoke runs the instruction. output is a truncated human-readable
	// summary suitable for a log line, present on success and often on
	// failure too.
	Invoke(ctx context.Context, instruction, dir string) (output string, err error)

	// Timeout is the per-invocation bound the caller should apply.
	Timeout() time.Duration
}

// Truncate caps s at max characters, flattening newlines so the result
// fits one log line.
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
