// Package sink delivers decoded quotes to their destinations.
//
// Every sink is driven from the single playback goroutine. Network sinks
// batch internally and write synchronously when a batch is full, on Flush
// and on Close; none of them starts a goroutine.
package sink

import (
	"context"

	"parsequote/internal/quote"
	"parsequote/pkg/scanner"
)

// Sink receives quotes in output order.
type Sink interface {
	Emit(ctx context.Context, m quote.Message) error
	// Flush writes out anything still batched.
	Flush(ctx context.Context) error
	// Close flushes and releases the sink. Emit after Close fails with exception.ErrSinkClosed.
	Close(ctx context.Context) error
}

// issueKey is the issue code without its space padding.
func issueKey(m quote.Message) string {
	return string(scanner.TrimRightSpace(m.IssueCode[:]))
}
