package engine

import (
	"time"

	"go.uber.org/zap"
)

type RunOptions struct {
	Input              string
	Output             string
	SyntheticDimension string
	EnsureASCII        bool
}

type Summary struct {
	Rows       int
	Dimensions int
	Entries    int
	EmptyCodes int
	Bytes      int
	Elapsed    time.Duration
}

// LoadTree reads the CSV at path and builds its tree in memory.
func LoadTree(path string, opts BuildOptions) (*CodeTree, Summary, error) {
	start := time.Now()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rows, err := LoadFile(path)
	if err != nil {
		return nil, Summary{}, err
	}
	log.Info("rows loaded", zap.String("input", path), zap.Int("rows", len(rows)))

	b := NewBuilder(BuildOptions{SyntheticDimension: opts.SyntheticDimension, Logger: log})
	for _, row := range rows {
		if err := b.Add(row); err != nil {
			return nil, Summary{}, err
		}
	}

	t := b.Tree()
	sum := Summary{
		Rows:       len(rows),
		Dimensions: len(t.dims),
		Entries:    t.Count(),
		EmptyCodes: b.EmptyCodes(),
		Elapsed:    time.Since(start),
	}
	log.Info("tree built",
		zap.Int("dimensions", sum.Dimensions),
		zap.Int("entries", sum.Entries),
		zap.Int("empty_codes", sum.EmptyCodes))
	return t, sum, nil
}

// Run converts opts.Input into the JSON document at opts.Output. The output
// is only touched once the whole tree has been built.
func Run(opts RunOptions, log *zap.Logger) (Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	t, sum, err := LoadTree(opts.Input, BuildOptions{
		SyntheticDimension: opts.SyntheticDimension,
		Logger:             log,
	})
	if err != nil {
		return Summary{}, err
	}

	n, err := WriteFile(opts.Output, t, opts.EnsureASCII)
	if err != nil {
		return Summary{}, err
	}
	sum.Bytes = n
	sum.Elapsed = time.Since(start)

	log.Info("output written",
		zap.String("output", opts.Output),
		zap.Int("bytes", n),
		zap.Duration("elapsed", sum.Elapsed))
	return sum, nil
}
