// Package playback drives a quote parser over a capture source and hands each
// message to a handler, either in capture order or re-sorted by accept time.
package playback

import (
	"io"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"parsequote/internal/obs"
	"parsequote/internal/quote"
	"parsequote/internal/reorder"
)

// Handler receives messages in output order.
type Handler func(quote.Message) error

// Logger receives verbose diagnostics.
type Logger interface {
	Infof(format string, args ...interface{})
}

type defaultLogger struct{}

func (defaultLogger) Infof(format string, args ...interface{}) {
	logs.Infof(format, args...)
}

// PlaybackConfig controls playback behavior.
type PlaybackConfig struct {
	// Reorder emits messages sorted by accept time instead of capture order.
	Reorder bool
	// Window is the reorder window, reorder.DefaultWindow when zero.
	Window time.Duration
	// Verbose logs skipped records and the final metrics.
	Verbose bool
	// Metrics is optional.
	Metrics *obs.Metrics
	// Logger receives verbose output, the package logger when nil.
	Logger Logger
}

// Playback runs one parse over a source.
type Playback struct {
	cfg PlaybackConfig
}

// NewPlayback validates the config and creates a playback engine.
func NewPlayback(cfg PlaybackConfig) (*Playback, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Playback{cfg: cfg}, nil
}

func (c PlaybackConfig) withDefaults() PlaybackConfig {
	if c.Window == 0 {
		c.Window = reorder.DefaultWindow
	}
	if c.Logger == nil {
		c.Logger = defaultLogger{}
	}
	return c
}

// Validate checks if the config is usable.
func (c PlaybackConfig) Validate() error {
	if c.Window < 0 {
		return errors.Errorf("invalid playback config: Window must be >= 0, got %s", c.Window)
	}
	return nil
}

// Run parses src until the end of the stream and calls handler for every
// valid quote. The first parse or handler error stops the run; there is no
// cancellation, the run ends at the end of the stream or on a fatal error.
func (p *Playback) Run(src io.ReadSeeker, handler Handler) error {
	if handler == nil {
		return errors.New("playback handler is nil")
	}
	parser, err := quote.NewParser(src)
	if err != nil {
		return err
	}
	var probe obs.MemoryProbe
	if p.cfg.Verbose {
		pctx := parser.Context()
		p.cfg.Logger.Infof("capture header: unit scale %d, utc offset %d, reorder %v", pctx.UnitScale, pctx.UTCOffset, p.cfg.Reorder)
		probe.Start()
	}

	emit := p.timedEmit(handler)
	if !p.cfg.Reorder {
		err = p.loop(parser, emit)
	} else {
		buf := reorder.NewBuffer(p.cfg.Window)
		err = p.loop(parser, func(m quote.Message) error {
			return buf.Push(m, emit)
		})
		if err == nil {
			err = buf.Flush(emit)
		}
		p.cfg.Metrics.ObserveReorderPeak(buf.Peak())
	}
	if err != nil {
		return err
	}

	if p.cfg.Verbose {
		probe.Stop()
		p.logSummary()
		p.cfg.Logger.Infof("%s", probe.Line())
	}
	return nil
}

func (p *Playback) loop(parser *quote.Parser, next Handler) error {
	for {
		out, err := parser.Next()
		if err != nil {
			return err
		}
		p.cfg.Metrics.ObserveOutcome(out)

		switch out.Kind {
		case quote.OutcomeEnd:
			return nil
		case quote.OutcomeSkipped:
			if p.cfg.Verbose {
				p.cfg.Logger.Infof("skip record, reason: %s, length: %d", out.Skip, out.Length)
			}
		case quote.OutcomeValid:
			if err := next(out.Message); err != nil {
				return err
			}
		}
	}
}

func (p *Playback) timedEmit(handler Handler) Handler {
	if p.cfg.Metrics == nil {
		return handler
	}
	return func(m quote.Message) error {
		start := time.Now()
		err := handler(m)
		p.cfg.Metrics.ObserveEmit(time.Since(start))
		return err
	}
}

func (p *Playback) logSummary() {
	if p.cfg.Metrics == nil {
		return
	}
	snap := p.cfg.Metrics.Snapshot()
	p.cfg.Logger.Infof("records: %d, quotes: %d, skipped size: %d, skipped marker: %d, emitted: %d, reorder peak: %d, emit avg: %s",
		snap.Records, snap.Quotes, snap.Skipped[quote.SkipSize], snap.Skipped[quote.SkipMarker],
		snap.Emitted, snap.ReorderPeak, snap.EmitLatency.Avg)
}
