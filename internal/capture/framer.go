package capture

import (
	"io"

	"github.com/yanun0323/errors"
)

// Framer walks capture records one at a time.
// Every record returned by Next must be consumed with either Skip or Body
// before Next is called again.
type Framer struct {
	src       io.ReadSeeker
	ctx       Context
	headerBuf [recordHeaderSize]byte
	body      []byte
}

// NewFramer reads the global header from src and returns a framer positioned
// at the first record.
func NewFramer(src io.ReadSeeker) (*Framer, error) {
	ctx, err := ReadHeader(src)
	if err != nil {
		return nil, err
	}
	return &Framer{src: src, ctx: ctx}, nil
}

// Context returns the parse context read from the global header.
func (f *Framer) Context() Context {
	return f.ctx
}

// Next reads the next record header.
// It returns io.EOF when the stream ends at a record boundary. A partial
// seconds field is treated the same way.
func (f *Framer) Next() (Record, error) {
	n, err := io.ReadFull(f.src, f.headerBuf[0:4])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Record{}, io.EOF
		}
		return Record{}, errors.Wrapf(err, "read record seconds, got %d bytes", n)
	}
	if _, err := io.ReadFull(f.src, f.headerBuf[4:recordHeaderSize]); err != nil {
		return Record{}, errors.Wrap(err, "read record header")
	}

	order := f.ctx.ByteOrder
	return Record{
		Seconds:    int64(order.Uint32(f.headerBuf[0:4])),
		SubSeconds: int64(order.Uint32(f.headerBuf[4:8])),
		Length:     int64(order.Uint32(f.headerBuf[8:12])) + lengthAdjust,
	}, nil
}

// Skip moves past the record window without reading it.
func (f *Framer) Skip(rec Record) error {
	if _, err := f.src.Seek(rec.Length, io.SeekCurrent); err != nil {
		return errors.Wrapf(err, "skip record of %d bytes", rec.Length)
	}
	return nil
}

// Body reads the record window. The slice is only valid until the next call to Body.
func (f *Framer) Body(rec Record) ([]byte, error) {
	if cap(f.body) < int(rec.Length) {
		f.body = make([]byte, rec.Length)
	}
	f.body = f.body[:rec.Length]
	if _, err := io.ReadFull(f.src, f.body); err != nil {
		return nil, errors.Wrapf(err, "read record body of %d bytes", rec.Length)
	}
	return f.body, nil
}
