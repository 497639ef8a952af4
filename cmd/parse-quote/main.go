package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	pyroscope "github.com/grafana/pyroscope-go"

	"parsequote/internal/capture"
	"parsequote/internal/obs"
	"parsequote/internal/ops"
	"parsequote/internal/playback"
	"parsequote/internal/quote"
	"parsequote/internal/summary"
)

const usage = "Usage: parse-quote [-r] [-config path] [-summary] [-v] filename"

type options struct {
	reorder    bool
	configPath string
	summary    bool
	verbose    bool
	filename   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, ok := parseArgs(args, stderr)
	if !ok {
		return 1
	}
	if err := parse(context.Background(), opts, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (options, bool) {
	var opts options
	fs := flag.NewFlagSet("parse-quote", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	fs.BoolVar(&opts.reorder, "r", false, "Emit quotes sorted by accept time")
	fs.StringVar(&opts.configPath, "config", "", "Path to a config file (json, yaml or toml)")
	fs.BoolVar(&opts.summary, "summary", false, "Print a per-issue summary to stderr")
	fs.BoolVar(&opts.verbose, "v", false, "Log skipped records and run metrics")
	if err := fs.Parse(args); err != nil {
		return opts, false
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, false
	}
	opts.filename = fs.Arg(0)
	return opts, true
}

func parse(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	cfg, err := ops.Load(opts.configPath)
	if err != nil {
		return err
	}

	if cfg.Profiling.ServerAddress != "" {
		profiler, err := startProfiler(cfg.Profiling)
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	file, err := os.Open(opts.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	out, err := buildSinks(ctx, cfg, stdout)
	if err != nil {
		return err
	}
	defer out.release()

	metrics := obs.NewMetrics()
	pb, err := playback.NewPlayback(playback.PlaybackConfig{
		Reorder: opts.reorder,
		Verbose: opts.verbose,
		Metrics: metrics,
		Logger:  stderrLogger{log.New(stderr, "", log.LstdFlags)},
	})
	if err != nil {
		return err
	}

	var sum *summary.Summary
	if opts.summary {
		sum = summary.New()
	}

	src := capture.NewBufferedSource(file, cfg.Output.ReadBufferSize)
	runErr := pb.Run(src, func(m quote.Message) error {
		if sum != nil {
			sum.Add(m)
		}
		return out.sink.Emit(ctx, m)
	})

	// Quotes emitted before a fatal error are still delivered.
	if err := out.sink.Close(ctx); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	if sum != nil {
		return sum.Write(stderr)
	}
	return nil
}

func startProfiler(cfg ops.ProfilingConfig) (*pyroscope.Profiler, error) {
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          emptyLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}

// stderrLogger keeps verbose output off stdout, which carries only quotes.
type stderrLogger struct {
	l *log.Logger
}

func (s stderrLogger) Infof(format string, args ...interface{}) {
	s.l.Printf(format, args...)
}
