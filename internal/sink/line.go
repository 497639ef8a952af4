package sink

import (
	"bufio"
	"context"
	"io"

	"github.com/yanun0323/errors"

	"parsequote/internal/quote"
	"parsequote/pkg/exception"
)

const defaultLineBufferSize = 64 * 1024

// Line writes one text line per quote.
type Line struct {
	w      *bufio.Writer
	buf    []byte
	closed bool
}

// NewLine creates a line sink over w.
func NewLine(w io.Writer) *Line {
	return &Line{
		w:   bufio.NewWriterSize(w, defaultLineBufferSize),
		buf: make([]byte, 0, 256),
	}
}

func (s *Line) Emit(_ context.Context, m quote.Message) error {
	if s.closed {
		return exception.ErrSinkClosed
	}
	s.buf = quote.AppendLine(s.buf[:0], m)
	s.buf = append(s.buf, '\n')
	if _, err := s.w.Write(s.buf); err != nil {
		return errors.Wrap(err, "write line")
	}
	return nil
}

func (s *Line) Flush(context.Context) error {
	if err := s.w.Flush(); err != nil {
		return errors.Wrap(err, "flush lines")
	}
	return nil
}

func (s *Line) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.Flush(ctx)
}
