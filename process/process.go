// Package process extracts statistics from a directory of OCR dumps, once
// or continuously as new dumps arrive.
package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pfdb/pkg/parse"
	"pfdb/pkg/weapon"
)

// Result is the outcome of one dump.
type Result struct {
	Name string
	ID   weapon.ID
	// Text is the dump after any repairs made during extraction.
	Text string
	Set  *parse.ResultSet
}

// Sink receives every successful result. Implementations must be safe for
// concurrent use.
type Sink interface {
	Record(ctx context.Context, r Result) error
}

type Options struct {
	Dir     string
	Workers int
	Params  parse.Params
	// WriteBack rewrites dump files whose labels were repaired.
	WriteBack bool
	Sink      Sink
	// Debounce is how long a file must be quiet before Watch picks it up.
	Debounce time.Duration
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// Summary counts what a run did.
type Summary struct {
	Files     int64
	Extracted int64
	Flagged   int64
	Failed    int64
}

type counters struct {
	files, extracted, flagged, failed atomic.Int64
}

func (c *counters) summary() Summary {
	return Summary{
		Files:     c.files.Load(),
		Extracted: c.extracted.Load(),
		Flagged:   c.flagged.Load(),
		Failed:    c.failed.Load(),
	}
}

// seen remembers the modification time of every processed dump so a file
// is only extracted again after it changes.
type seen struct {
	mu    sync.RWMutex
	byDir map[string]time.Time
}

func newSeen() *seen {
	return &seen{byDir: make(map[string]time.Time, 256)}
}

func (s *seen) fresh(name string, mod time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byDir[name]
	return !ok || mod.After(t)
}

func (s *seen) mark(name string, mod time.Time) {
	s.mu.Lock()
	s.byDir[name] = mod
	s.mu.Unlock()
}

// runner owns the state shared by the workers of one Run or Watch.
type runner struct {
	opts  Options
	files *FileStore
	seen  *seen
	count counters
}

func newRunner(opts Options) (*runner, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	fi, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", opts.Dir)
	}
	return &runner{opts: opts, files: NewFileStore(opts.Dir), seen: newSeen()}, nil
}

// Run extracts every dump in opts.Dir with a bounded pool of workers.
// Dumps that fail are logged and counted; only cancellation, setup
// problems and sink failures stop the run.
func Run(ctx context.Context, opts Options) (Summary, error) {
	r, err := newRunner(opts)
	if err != nil {
		return Summary{}, err
	}
	names, err := listDumps(opts.Dir)
	if err != nil {
		return Summary{}, err
	}
	log.Info().Str("dir", opts.Dir).Int("dumps", len(names)).Int("workers", opts.workers()).Msg("extracting")
	err = r.pool(ctx, names)
	return r.count.summary(), err
}

func (r *runner) pool(ctx context.Context, names []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.workers())
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error { return r.process(ctx, name) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// process extracts one dump. It returns an error only when the sink fails.
func (r *runner) process(ctx context.Context, name string) error {
	path := filepath.Join(r.opts.Dir, name)
	fi, err := os.Stat(path)
	if err != nil {
		log.Warn().Err(err).Str("dump", name).Msg("dump vanished")
		return nil
	}
	if !r.seen.fresh(name, fi.ModTime()) {
		return nil
	}
	r.count.files.Add(1)
	res, err := r.extract(ctx, name)
	if err != nil {
		r.count.failed.Add(1)
		log.Error().Err(err).Str("dump", name).Msg("extraction failed")
		r.seen.mark(name, fi.ModTime())
		return nil
	}
	r.count.extracted.Add(1)
	r.count.flagged.Add(int64(len(res.Set.NeedsRevision())))
	if r.opts.Sink != nil {
		if err := r.opts.Sink.Record(ctx, res); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
	}
	// written-back files get a new mtime; mark after so that write is not picked up again
	if fi, err := os.Stat(path); err == nil {
		r.seen.mark(name, fi.ModTime())
	}
	log.Debug().Str("dump", name).Int("statistics", res.Set.Len()).Msg("extracted")
	return nil
}

func (r *runner) extract(ctx context.Context, name string) (Result, error) {
	id, err := ParseDumpName(name)
	if err != nil {
		return Result{}, err
	}
	b, err := os.ReadFile(filepath.Join(r.opts.Dir, name))
	if err != nil {
		return Result{}, err
	}
	var store parse.Store
	if r.opts.WriteBack {
		store = r.files.Dump(name)
	}
	o := parse.NewOrchestrator(string(b), id, r.opts.Params, store)
	rs, err := o.ExtractAll(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Name: name, ID: id, Text: o.Text(), Set: rs}, nil
}

func listDumps(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isDump(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}
