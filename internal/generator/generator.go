package generator

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/nao1215/enumdir/internal/wordlist"
)

// Mode is the candidate generation mode of a scan.
type Mode string

const (
	// ModeEnumeration brute-forces every string over the AlphaNum pool.
	ModeEnumeration Mode = "enumeration"

	// ModeDictionary expands dictionary template lines.
	ModeDictionary Mode = "dictionary"
)

// Generator produces the candidates of one scan.
type Generator struct {
	// length is the maximum candidate stem length in enumeration mode.
	length int

	// fixedLength restricts enumeration to stems of exactly length symbols.
	fixedLength bool

	// suffixes is the ordered suffix set.
	suffixes []string

	// dictionary selects dictionary mode.
	dictionary bool

	// dictionaryPath is the dictionary file. Empty means the bundled list.
	dictionaryPath string

	logger *slog.Logger

	// emitted counts candidates accepted by the task queue.
	emitted atomic.Int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithLength sets the maximum stem length for enumeration mode.
func WithLength(length int) Option {
	return func(g *Generator) {
		g.length = length
	}
}

// WithFixedLength limits enumeration to stems of exactly the maximum length.
func WithFixedLength(fixed bool) Option {
	return func(g *Generator) {
		g.fixedLength = fixed
	}
}

// WithSuffixes sets the ordered suffix set.
func WithSuffixes(suffixes []string) Option {
	return func(g *Generator) {
		g.suffixes = suffixes
	}
}

// WithDictionary switches the generator to dictionary mode. An empty path,
// or a path with no file behind it, selects the bundled dictionary.
func WithDictionary(path string) Option {
	return func(g *Generator) {
		g.dictionary = true
		g.dictionaryPath = path
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator. Without options it enumerates stems of length
// 1 to 3 with no suffix.
func New(opts ...Option) *Generator {
	g := &Generator{
		length:   3,
		suffixes: []string{""},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if len(g.suffixes) == 0 {
		g.suffixes = []string{""}
	}
	return g
}

// Mode returns the active generation mode.
func (g *Generator) Mode() Mode {
	if g.dictionary {
		return ModeDictionary
	}
	return ModeEnumeration
}

// Total returns the number of candidates the generator will emit, or -1 when
// it is not known in advance (dictionary mode).
func (g *Generator) Total() int64 {
	if g.dictionary {
		return -1
	}
	return Count(g.length, g.fixedLength, len(g.suffixes))
}

// Emitted returns how many candidates have been queued so far.
func (g *Generator) Emitted() int64 {
	return g.emitted.Load()
}

// Run generates every candidate and sends it to tasks. A full queue blocks
// Run until a worker takes a candidate. Run returns when the input space is
// exhausted or ctx is cancelled; it never closes tasks.
func (g *Generator) Run(ctx context.Context, tasks chan<- string) error {
	g.logger.Info("generator started",
		"mode", g.Mode(),
		"suffixes", g.suffixes,
	)

	var err error
	if g.dictionary {
		err = g.runDictionary(ctx, tasks)
	} else {
		err = g.runEnumeration(ctx, tasks)
	}

	g.logger.Info("generator finished", "emitted", g.Emitted())
	return err
}

// runEnumeration emits the enumeration space length by length.
func (g *Generator) runEnumeration(ctx context.Context, tasks chan<- string) error {
	start := 1
	if g.fixedLength {
		start = g.length
	}
	for l := start; l <= g.length; l++ {
		if !EnumerateLength(l, g.suffixes, g.sender(ctx, tasks)) {
			return ctx.Err()
		}
		g.logger.Info("length build done", "length", l)
	}
	return nil
}

// runDictionary expands every dictionary line in file order.
func (g *Generator) runDictionary(ctx context.Context, tasks chan<- string) error {
	src := wordlist.Load(g.dictionaryPath)
	switch {
	case src.Err != nil:
		g.logger.Warn("dictionary unusable, using bundled dictionary",
			"path", g.dictionaryPath,
			"error", src.Err,
		)
	case src.Bundled():
		g.logger.Info("no dictionary file given or file not found, using bundled dictionary",
			"path", g.dictionaryPath,
		)
	}

	pools := NewPools(g.suffixes)
	send := g.sender(ctx, tasks)
	for _, raw := range src.Lines {
		line, ok := PrepareLine(raw)
		if !ok {
			continue
		}
		if !ExpandFunc(Tokenize(line), pools, send) {
			return ctx.Err()
		}
	}
	return nil
}

// sender returns an emit function that queues a candidate. The only way a
// send can fail is cancellation; the candidate is logged and dropped and the
// emit function asks the caller to stop.
func (g *Generator) sender(ctx context.Context, tasks chan<- string) func(string) bool {
	return func(candidate string) bool {
		select {
		case tasks <- candidate:
			g.emitted.Add(1)
			return true
		case <-ctx.Done():
			g.logger.Warn("failed to queue candidate",
				"candidate", candidate,
				"error", ctx.Err(),
			)
			return false
		}
	}
}
