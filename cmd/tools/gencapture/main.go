package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/yanun0323/logs"

	"parsequote/internal/capturegen"
)

func main() {
	defaults := capturegen.DefaultOptions()
	out := flag.String("out", "quotes.pcap", "Output capture file")
	count := flag.Int("count", defaults.Count, "Number of quote packets")
	start := flag.String("start", defaults.Start.Format(time.RFC3339), "Capture time of the first packet (RFC3339)")
	seed := flag.Int64("seed", defaults.Seed, "Random seed")
	issues := flag.String("issues", strings.Join(defaults.Issues, ","), "Comma separated issue codes")
	step := flag.Duration("step", defaults.Step, "Capture time between packets")
	maxLag := flag.Duration("max-lag", defaults.MaxLag, "Largest accept to capture lag (<= 3s)")
	noiseEvery := flag.Int("noise-every", defaults.NoiseEvery, "Insert a non-quote packet after every n quotes (0=never)")
	nanos := flag.Bool("nanos", false, "Write a nanosecond precision capture")
	flag.Parse()

	startTime, err := time.Parse(time.RFC3339Nano, *start)
	if err != nil {
		log.Fatalf("invalid start time: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create output failed: %v", err)
	}
	w := bufio.NewWriter(f)

	n, err := capturegen.Generate(w, capturegen.Options{
		Count:      *count,
		Start:      startTime,
		Seed:       *seed,
		Issues:     strings.Split(*issues, ","),
		Step:       *step,
		MaxLag:     *maxLag,
		NoiseEvery: *noiseEvery,
		Nanos:      *nanos,
	})
	if err != nil {
		log.Fatalf("generate failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("flush failed: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close failed: %v", err)
	}
	logs.Infof("wrote %d quotes to %s", n, *out)
}
