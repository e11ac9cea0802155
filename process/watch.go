package process

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultDebounce = 300 * time.Millisecond

// Watch extracts the dumps already in opts.Dir and then every dump created
// or rewritten there, once it has been quiet for opts.Debounce. It returns
// nil when ctx is cancelled.
func Watch(ctx context.Context, opts Options) (Summary, error) {
	r, err := newRunner(opts)
	if err != nil {
		return Summary{}, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Summary{}, err
	}
	defer w.Close()
	if err := w.Add(opts.Dir); err != nil {
		return Summary{}, err
	}

	names, err := listDumps(opts.Dir)
	if err != nil {
		return Summary{}, err
	}
	if err := r.pool(ctx, names); err != nil {
		if ctx.Err() != nil {
			return r.count.summary(), nil
		}
		return r.count.summary(), err
	}

	quiet := opts.Debounce
	if quiet <= 0 {
		quiet = defaultDebounce
	}
	log.Info().Str("dir", opts.Dir).Dur("debounce", quiet).Msg("watching for dumps")

	ready := make(chan string, 256)
	g, gctx := errgroup.WithContext(ctx)
	// one slot for the debouncer, the rest for workers
	g.SetLimit(opts.workers() + 1)
	g.Go(func() error { return debounce(gctx, w, quiet, ready) })
	for name := range ready {
		g.Go(func() error { return r.process(gctx, name) })
	}
	err = g.Wait()
	return r.count.summary(), err
}

// debounce forwards dump names from w once no event has touched them for
// quiet. It closes out when it returns.
func debounce(ctx context.Context, w *fsnotify.Watcher, quiet time.Duration, out chan<- string) error {
	defer close(out)
	pending := map[string]time.Time{}
	tick := time.NewTicker(max(quiet/2, 10*time.Millisecond))
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if isDump(name) {
				pending[name] = time.Now()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case now := <-tick.C:
			for name, t := range pending {
				if now.Sub(t) < quiet {
					continue
				}
				select {
				case out <- name:
					delete(pending, name)
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}
