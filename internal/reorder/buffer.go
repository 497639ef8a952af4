// Package reorder re-emits quotes in accept time order using a bounded window.
//
// Capture times arrive in non-decreasing order and an accept time never lags its
// capture time by more than the window, so once the newest capture time is more
// than a window ahead of the earliest buffered accept time, that quote is final.
package reorder

import (
	"container/heap"
	"time"

	"parsequote/internal/quote"
)

// DefaultWindow is the largest expected lag between accept and capture time.
const DefaultWindow = quote.MaxDiff * time.Second

// messageHeap orders quotes by accept time, earliest first.
type messageHeap []quote.Message

func (h messageHeap) Len() int           { return len(h) }
func (h messageHeap) Less(i, j int) bool { return h[i].Before(h[j]) }
func (h messageHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *messageHeap) Push(x any) {
	*h = append(*h, x.(quote.Message))
}

func (h *messageHeap) Pop() any {
	old := *h
	n := len(old)
	m := old[n-1]
	old[n-1] = quote.Message{}
	*h = old[:n-1]
	return m
}

// Buffer holds quotes until they can no longer be overtaken.
type Buffer struct {
	h      messageHeap
	window time.Duration
	peak   int
}

// NewBuffer creates a buffer; a non-positive window falls back to DefaultWindow.
func NewBuffer(window time.Duration) *Buffer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Buffer{window: window}
}

// Push emits every buffered quote whose accept time is more than the window
// behind m's capture time, then buffers m.
func (b *Buffer) Push(m quote.Message, emit func(quote.Message) error) error {
	for len(b.h) > 0 && m.CaptureTime.Sub(b.h[0].AcceptTime) > b.window {
		if err := emit(heap.Pop(&b.h).(quote.Message)); err != nil {
			return err
		}
	}
	heap.Push(&b.h, m)
	if len(b.h) > b.peak {
		b.peak = len(b.h)
	}
	return nil
}

// Flush emits everything left in ascending accept time order.
func (b *Buffer) Flush(emit func(quote.Message) error) error {
	for len(b.h) > 0 {
		if err := emit(heap.Pop(&b.h).(quote.Message)); err != nil {
			return err
		}
	}
	return nil
}

// Len is the number of buffered quotes.
func (b *Buffer) Len() int {
	return len(b.h)
}

// Peak is the largest number of quotes buffered at once.
func (b *Buffer) Peak() int {
	return b.peak
}
