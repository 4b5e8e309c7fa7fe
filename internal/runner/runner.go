// Package runner drives one scraper goroutine per enabled source.
// Scrapers run independently; a stalled or failing source never blocks
// the others.
package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/uniwatch/uniwatch/internal/config"
	"github.com/uniwatch/uniwatch/internal/domain"
	"github.com/uniwatch/uniwatch/internal/logger"
	"github.com/uniwatch/uniwatch/internal/scraper"
)

// startStagger spaces out scraper starts so process startup does not
// fire every outbound request at once.
const startStagger = time.Second

// Runner owns the set of configured scrapers and their lifecycles.
type Runner struct {
	scrapers map[string]*scraper.Scraper
	order    []string
	log      logger.Interface
	wg       sync.WaitGroup
}

// New builds one scraper per enabled source. A bad source configuration
// fails construction; the operator must fix it before polling starts.
func New(cfg config.Interface, deps scraper.Deps) (*Runner, error) {
	r := &Runner{
		scrapers: make(map[string]*scraper.Scraper),
		log:      deps.Logger.WithComponent("runner"),
	}

	for name, sc := range cfg.GetScrapers() {
		if !sc.Enabled {
			r.log.Debug("scraper disabled", "scraper", name)
			continue
		}
		s, err := scraper.New(name, deps)
		if err != nil {
			return nil, fmt.Errorf("build scraper %s: %w", name, err)
		}
		r.scrapers[name] = s
		r.order = append(r.order, name)
	}
	sort.Strings(r.order)

	return r, nil
}

// Start launches every scraper, spaced by the start stagger. It returns
// immediately; use Wait to block until all scrapers have stopped.
func (r *Runner) Start(ctx context.Context) {
	r.StartNames(ctx, r.order)
}

// StartNames launches the named scrapers, spaced by the start stagger.
// Unknown names are skipped with a warning.
func (r *Runner) StartNames(ctx context.Context, names []string) {
	r.log.Info("starting scrapers", "count", len(names))

	for i, name := range names {
		s, ok := r.scrapers[name]
		if !ok {
			r.log.Warn("unknown scraper", "scraper", name)
			continue
		}
		delay := time.Duration(i) * startStagger

		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			if delay > 0 && !waitOrCancel(ctx, delay) {
				return
			}
			s.Run(ctx)
		}()
	}
}

// Wait blocks until every scraper goroutine has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Names returns the enabled scraper names in sorted order.
func (r *Runner) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Get returns the named scraper.
func (r *Runner) Get(name string) (*scraper.Scraper, bool) {
	s, ok := r.scrapers[name]
	return s, ok
}

// RunOnce triggers a single manual cycle for the named scraper and
// returns the rendered posts.
func (r *Runner) RunOnce(ctx context.Context, name string) ([]domain.Post, error) {
	s, ok := r.scrapers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", scraper.ErrScraperNotFound, name)
	}
	return s.RunOnce(ctx)
}

// ClearCache resets the persisted identifiers for the named scraper.
func (r *Runner) ClearCache(name string) error {
	s, ok := r.scrapers[name]
	if !ok {
		return fmt.Errorf("%w: %s", scraper.ErrScraperNotFound, name)
	}
	return s.ClearCache()
}

// ClearAll resets every scraper's persisted identifiers.
func (r *Runner) ClearAll() error {
	for _, name := range r.order {
		if err := r.scrapers[name].ClearCache(); err != nil {
			return err
		}
	}
	return nil
}

// waitOrCancel sleeps for the delay unless the context ends first.
func waitOrCancel(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
