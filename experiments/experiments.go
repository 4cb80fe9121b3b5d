package experiments

import (
	"fmt"
	"io"
	"math"

	"divide/meta"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	histogramBins  = 10
	histogramWidth = 40
)

type Config struct {
	Dir        string // Root folder for records, nothing is written when empty
	Goroutines int
	Games      int // Per matchup
	Positions  int // Per depth
	MaxDepth   int
	Seed       uint64
	Report     io.Writer // Human readable summary, discarded when nil
}

func DefaultConfig() Config {
	return Config{
		Goroutines: meta.GO_ROUTINES,
		Games:      meta.NUM_GAMES,
		Positions:  meta.NUM_POSITIONS,
		MaxDepth:   meta.MAX_DEPTH,
		Seed:       1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Goroutines <= 0 {
		c.Goroutines = d.Goroutines
	}
	if c.Games <= 0 {
		c.Games = d.Games
	}
	if c.Positions <= 0 {
		c.Positions = d.Positions
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.Report == nil {
		c.Report = io.Discard
	}
	return c
}

// Stats summarises a sample.
type Stats struct {
	Count  int     `yaml:"count"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

func describe(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0 // Single sample
	}
	return Stats{
		Count:  len(xs),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("n=%d mean=%.2f stddev=%.2f min=%.2f max=%.2f", s.Count, s.Mean, s.StdDev, s.Min, s.Max)
}

func printHistogram(w io.Writer, title string, values []float64) error {
	if len(values) == 0 {
		return nil
	}
	fmt.Fprintln(w, title)
	h := histogram.Hist(histogramBins, values)
	return histogram.Fprint(w, h, histogram.Linear(histogramWidth))
}
