// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/keyword-search/pkg/types"
)

// Event describes the outcome of one processed keyword. Exactly one event
// is published per keyword that resolves to a result record.
type Event struct {
	// Index is the 1-based position of the keyword in the input list.
	Index int

	// Total is the number of keywords in the run.
	Total int

	// Keyword is the query string that was processed.
	Keyword string

	// Status reports whether the lookup succeeded.
	Status types.ResultStatus

	// Reason is set when Status is StatusFailed.
	Reason types.FailureReason

	// Title is the first result's title on success.
	Title string
}

// Sink receives progress events from the run worker. Implementations must
// be safe to call from a goroutine other than the one that created them.
type Sink interface {
	Publish(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Publish implements Sink.
func (f SinkFunc) Publish(e Event) { f(e) }

// nopSink discards events; used when no sink is configured.
type nopSink struct{}

func (nopSink) Publish(Event) {}

// WriterSink prints one progress line per keyword, in the style of the
// CLI front end. A mutex keeps interleaved writers readable.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink that writes progress lines to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Publish implements Sink.
func (s *WriterSink) Publish(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Status {
	case types.StatusSuccess:
		fmt.Fprintf(s.w, "[%3d/%d] ok      %q -> %s\n", e.Index, e.Total, e.Keyword, truncate(e.Title, 50))
	default:
		fmt.Fprintf(s.w, "[%3d/%d] failed  %q (%s)\n", e.Index, e.Total, e.Keyword, e.Reason)
	}
}

// ChannelSink delivers events on a channel, for consumers with their own
// event loop (a GUI front end would drain this from its UI thread).
// Publish never blocks the worker: when the buffer is full the event is
// dropped, since progress display is advisory.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink returns a sink buffering up to size events.
func NewChannelSink(size int) *ChannelSink {
	if size <= 0 {
		size = 64
	}
	return &ChannelSink{events: make(chan Event, size)}
}

// Publish implements Sink.
func (s *ChannelSink) Publish(e Event) {
	select {
	case s.events <- e:
	default:
	}
}

// Events returns the receive side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// Close closes the event channel. Call only after the run has returned.
func (s *ChannelSink) Close() {
	close(s.events)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
