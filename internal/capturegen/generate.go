package capturegen

import (
	"io"
	"math/rand"
	"time"

	"github.com/yanun0323/errors"

	"parsequote/internal/quote"
)

// Options controls Generate.
type Options struct {
	Count  int
	Start  time.Time
	Seed   int64
	Issues []string
	// Step is the capture time advance between two packets.
	Step time.Duration
	// MaxLag is the largest gap between accept and capture time, at most three seconds.
	MaxLag time.Duration
	// NoiseEvery inserts a non-quote packet after every n quotes when > 0.
	NoiseEvery int
	Nanos      bool
}

// DefaultOptions returns a small feed starting at the open of 2011-02-16 KST.
func DefaultOptions() Options {
	return Options{
		Count:      1000,
		Start:      time.Date(2011, 2, 16, 0, 0, 0, 0, time.UTC),
		Seed:       1,
		Issues:     []string{"KR4101F30009", "KR4101F60006", "KR4201F32705"},
		Step:       7 * time.Millisecond,
		MaxLag:     2 * time.Second,
		NoiseEvery: 10,
	}
}

// Generate writes a capture file of random quotes whose accept times lag their
// capture times by up to MaxLag, so the stream is weakly out of accept order.
func Generate(w io.Writer, opts Options) (int, error) {
	if opts.Count < 0 || len(opts.Issues) == 0 {
		return 0, errors.Errorf("capturegen: invalid options, count: %d, issues: %d", opts.Count, len(opts.Issues))
	}
	if opts.MaxLag < 0 || opts.MaxLag > quote.MaxDiff*time.Second {
		return 0, errors.Errorf("capturegen: max lag %s out of range", opts.MaxLag)
	}

	gw, err := NewWriter(w, opts.Nanos)
	if err != nil {
		return 0, err
	}

	rnd := rand.New(rand.NewSource(opts.Seed))
	noise := make([]byte, 40)
	captured := opts.Start
	written := 0
	for i := 0; i < opts.Count; i++ {
		captured = captured.Add(opts.Step)
		if !opts.Nanos {
			captured = captured.Truncate(time.Microsecond)
		}

		var lag time.Duration
		if opts.MaxLag > 0 {
			lag = time.Duration(rnd.Int63n(int64(opts.MaxLag) + 1))
		}
		q := RandomQuote(rnd, opts.Issues[rnd.Intn(len(opts.Issues))])
		q.AcceptTime = ceilTenth(captured.Add(-lag))
		if err := gw.WriteQuote(captured, q); err != nil {
			return written, err
		}
		written++

		if opts.NoiseEvery > 0 && (i+1)%opts.NoiseEvery == 0 {
			rnd.Read(noise)
			if err := gw.WritePayload(captured, noise); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

// RandomQuote builds a quote with a plausible ladder around a random mid price.
func RandomQuote(rnd *rand.Rand, issue string) Quote {
	q := Quote{IssueCode: issue}
	mid := 100 + rnd.Intn(900)
	for i := 0; i < quote.Depth; i++ {
		q.Bids[quote.Depth-1-i] = quote.Level{
			Price:    quote.Price(mid - 1 - i),
			Quantity: quote.Quantity(1 + rnd.Intn(5000)),
		}
		q.Asks[i] = quote.Level{
			Price:    quote.Price(mid + 1 + i),
			Quantity: quote.Quantity(1 + rnd.Intn(5000)),
		}
	}
	return q
}

// ceilTenth rounds t up to a tenth of a second, the resolution of the accept
// field, so the written accept time never lags capture by more than the lag drawn.
func ceilTenth(t time.Time) time.Time {
	const tenth = 100 * time.Millisecond
	r := t.Truncate(tenth)
	if r.Before(t) {
		r = r.Add(tenth)
	}
	return r
}
