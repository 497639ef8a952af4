package quote

import (
	"fmt"
	"io"

	"github.com/yanun0323/errors"

	"parsequote/internal/capture"
)

// OutcomeKind tags the result of parsing one record.
type OutcomeKind uint8

const (
	// OutcomeValid carries a decoded message.
	OutcomeValid OutcomeKind = iota
	// OutcomeSkipped means the record is not a quote message.
	OutcomeSkipped
	// OutcomeEnd means the stream ended at a record boundary.
	OutcomeEnd
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValid:
		return "Valid"
	case OutcomeSkipped:
		return "Skipped"
	case OutcomeEnd:
		return "End"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// SkipReason says why a record was skipped.
type SkipReason uint8

const (
	SkipNone SkipReason = iota
	// SkipSize marks a record whose length cannot hold a quote message.
	SkipSize
	// SkipMarker marks a record of the right size with a different message marker.
	SkipMarker
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipSize:
		return "size"
	case SkipMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Outcome is the result of parsing one record.
// Message is only set for OutcomeValid, Skip only for OutcomeSkipped.
type Outcome struct {
	Kind    OutcomeKind
	Message Message
	Skip    SkipReason
	// Length is the effective record length, zero for OutcomeEnd.
	Length int64
}

// Parser decodes quote messages from a capture stream, one record per call.
type Parser struct {
	framer *capture.Framer
}

// NewParser reads the global header of src and prepares the record loop.
func NewParser(src io.ReadSeeker) (*Parser, error) {
	framer, err := capture.NewFramer(src)
	if err != nil {
		return nil, err
	}
	return &Parser{framer: framer}, nil
}

// Context returns the container context of the stream.
func (p *Parser) Context() capture.Context {
	return p.framer.Context()
}

// Next parses the next record. Any returned error is fatal for the stream.
func (p *Parser) Next() (Outcome, error) {
	rec, err := p.framer.Next()
	if err != nil {
		if err == io.EOF {
			return Outcome{Kind: OutcomeEnd}, nil
		}
		return Outcome{}, err
	}

	ctx := p.framer.Context()
	captureTime, err := rec.Timestamp(ctx)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "capture timestamp")
	}

	if rec.Length != RecordLength {
		if err := p.framer.Skip(rec); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeSkipped, Skip: SkipSize, Length: rec.Length}, nil
	}

	window, err := p.framer.Body(rec)
	if err != nil {
		return Outcome{}, err
	}
	if !HasMarker(window) {
		return Outcome{Kind: OutcomeSkipped, Skip: SkipMarker, Length: rec.Length}, nil
	}

	msg, err := Decode(window, captureTime, rec.Seconds)
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "decode record at capture second %d", rec.Seconds)
	}
	return Outcome{Kind: OutcomeValid, Message: msg, Length: rec.Length}, nil
}
