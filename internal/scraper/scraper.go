// Package scraper implements the poll cycle: fetch a source page, extract
// posts through the source's strategy, diff the identifiers against the
// persisted cache, deliver new posts oldest-first and replace the cache.
// One Scraper owns one source and its cache entry.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/uniwatch/uniwatch/internal/auth"
	"github.com/uniwatch/uniwatch/internal/cache"
	"github.com/uniwatch/uniwatch/internal/config"
	"github.com/uniwatch/uniwatch/internal/domain"
	"github.com/uniwatch/uniwatch/internal/logger"
	"github.com/uniwatch/uniwatch/internal/notify"
	"github.com/uniwatch/uniwatch/internal/strategy"
)

const defaultFetchTimeout = 30 * time.Second

// Deps bundles the collaborators a scraper needs.
type Deps struct {
	Config   config.Interface
	Store    *cache.Store
	Notifier notify.Notifier
	Auth     auth.Provider
	Logger   logger.Interface
}

// Scraper runs the poll cycle for one configured source.
type Scraper struct {
	name     string
	cfg      config.ScraperConfig
	watch    config.WatchConfig
	strat    strategy.Strategy
	store    *cache.Store
	notifier notify.Notifier
	auth     auth.Provider
	client   *http.Client
	log      logger.Interface

	maxPosts int
	dest     notify.Destination
	errDest  notify.Destination
}

// New builds a scraper for the named source. Unknown names and unknown
// strategy selectors fail construction; these are operator errors that
// must surface before polling starts.
func New(name string, deps Deps) (*Scraper, error) {
	cfg, ok := deps.Config.GetScraper(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScraperNotFound, name)
	}

	watch := *deps.Config.GetWatchConfig()

	strat, err := strategy.New(cfg.Strategy, strategy.BaseURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("scraper %s: %w", name, err)
	}

	timeout := watch.RequestTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	maxPosts := cfg.MaxPosts
	if maxPosts <= 0 {
		maxPosts = watch.MaxPosts
	}

	webhook := cfg.Webhook
	if webhook == "" {
		webhook = watch.Webhook
	}
	errorWebhook := watch.ErrorWebhook
	if errorWebhook == "" {
		errorWebhook = webhook
	}

	provider := deps.Auth
	if cfg.Cookie != "" {
		provider = auth.NewStatic(cfg.Cookie)
	}

	return &Scraper{
		name:     name,
		cfg:      cfg,
		watch:    watch,
		strat:    strat,
		store:    deps.Store,
		notifier: deps.Notifier,
		auth:     provider,
		client:   &http.Client{Timeout: timeout},
		log:      deps.Logger.WithComponent("scraper").With("scraper", name),
		maxPosts: maxPosts,
		dest: notify.Destination{
			WebhookURL: webhook,
			Role:       cfg.Role,
			Username:   cfg.Name,
		},
		errDest: notify.Destination{
			WebhookURL: errorWebhook,
			Username:   cfg.Name,
		},
	}, nil
}

// Name returns the configured source name.
func (s *Scraper) Name() string {
	return s.name
}

// URL returns the fetch target.
func (s *Scraper) URL() string {
	return s.cfg.URL
}

// Strategy returns the configured strategy selector.
func (s *Scraper) Strategy() string {
	return s.cfg.Strategy
}

// Run polls the source until the context is cancelled. Cycle failures
// are reported and retried after the error delay; the loop never dies
// from a transient outage.
func (s *Scraper) Run(ctx context.Context) {
	s.log.Info("scraper started",
		"url", s.cfg.URL,
		"strategy", s.cfg.Strategy,
	)

	for {
		posts, err := s.Poll(ctx)
		delay := s.watch.SuccessDelay
		if err != nil {
			s.reportCycleError(ctx, err)
			delay = s.watch.ErrorDelay
		} else if len(posts) > 0 {
			s.log.Info("cycle complete", "new_posts", len(posts))
		} else {
			s.log.Debug("cycle complete, no new posts")
		}

		if !sleepOrCancel(ctx, delay) {
			s.log.Info("scraper stopped")
			return
		}
	}
}

// Poll executes one cache-checked cycle and returns the newly
// discovered, rendered posts. This is the loop body of Run.
func (s *Scraper) Poll(ctx context.Context) ([]domain.Post, error) {
	return s.cycle(ctx, true)
}

// RunOnce executes exactly one cycle and returns the newly discovered,
// rendered posts. The cache diff is bypassed so a manual trigger always
// yields the current batch, but the cache is still rewritten.
func (s *Scraper) RunOnce(ctx context.Context) ([]domain.Post, error) {
	return s.cycle(ctx, false)
}

// ClearCache resets the persisted identifier list for this source.
func (s *Scraper) ClearCache() error {
	return s.store.Clear(s.name)
}

// cycle runs one fetch-parse-diff-notify-persist pass. With checkCache
// set, unchanged pages short-circuit and cached identifiers are skipped;
// without it every selected element is treated as new.
func (s *Scraper) cycle(ctx context.Context, checkCache bool) ([]domain.Post, error) {
	doc, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	elements := doc.Find(s.strat.PostsSelector())
	if elements.Length() == 0 {
		return nil, fmt.Errorf("%w: selector %q", ErrNoPosts, s.strat.PostsSelector())
	}

	// Newest first in document order, capped at maxPosts.
	limit := elements.Length()
	if s.maxPosts > 0 && limit > s.maxPosts {
		limit = s.maxPosts
	}
	batch := make([]*goquery.Selection, 0, limit)
	ids := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		sel := elements.Eq(i)
		batch = append(batch, sel)
		ids = append(ids, s.strat.Identify(sel))
	}

	cached, err := s.store.Read(s.name)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	if checkCache && sameIdentifiers(ids, cached) {
		s.log.Debug("no new posts")
		return nil, nil
	}

	delivered := s.deliverNew(ctx, batch, ids, cached, checkCache)

	// Replace, never append. Identifiers that failed extraction are
	// dropped so a later fix re-detects those posts.
	if err := s.store.Write(s.name, withoutEmpty(ids)); err != nil {
		return delivered, fmt.Errorf("write cache: %w", err)
	}

	return delivered, nil
}

// deliverNew walks the batch oldest-first and sends each genuinely new
// post. Per-post failures are reported and skipped, never fatal.
func (s *Scraper) deliverNew(
	ctx context.Context,
	batch []*goquery.Selection,
	ids []string,
	cached []string,
	checkCache bool,
) []domain.Post {
	// Oldest-of-the-batch first, so arrival order in the destination
	// feed matches publication order.
	order := make([]int, 0, len(batch))
	for i := len(batch) - 1; i >= 0; i-- {
		order = append(order, i)
	}

	seen := make(map[string]struct{}, len(cached))
	for _, id := range cached {
		seen[id] = struct{}{}
	}

	skip := 0
	switch {
	case !checkCache:
		// Manual trigger: the whole batch counts as new.
	case len(cached) == 0:
		if !s.watch.SeedAll {
			s.log.Info("seeding cache without delivery", "posts", len(ids))
			return nil
		}
	default:
		// Drop the oldest fraction of the batch as flood control
		// against transient layout reshuffles.
		skip = int(float64(len(order)) * s.watch.SkipFraction)
	}

	var delivered []domain.Post
	for _, i := range order[skip:] {
		if checkCache && len(cached) > 0 {
			if _, ok := seen[ids[i]]; ok {
				continue
			}
		}

		post := s.strat.Render(batch[i])
		if !post.Identified() {
			s.reportPostError(ctx, fmt.Errorf("%w: %s", ErrPostID, orTitle(post)))
			continue
		}

		if err := s.notifier.Deliver(ctx, post, s.dest); err != nil {
			s.reportPostError(ctx, fmt.Errorf("%w: %s: %v", ErrDeliver, post.ID, err))
			continue
		}
		s.log.Info("post delivered", "id", post.ID, "title", post.Title)
		delivered = append(delivered, post)
	}

	return delivered
}

// fetch retrieves and parses the source page.
func (s *Scraper) fetch(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if s.watch.UserAgent != "" {
		req.Header.Set("User-Agent", s.watch.UserAgent)
	}
	if authed, ok := s.strat.(strategy.Authenticated); ok {
		for key, values := range authed.RequestHeaders(s.cookieHeader(ctx)) {
			for _, value := range values {
				req.Header.Set(key, value)
			}
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if !s.watch.Accepts(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return doc, nil
}

// cookieHeader obtains a session cookie for gated sources. A failed
// login degrades to an unauthenticated fetch for this cycle.
func (s *Scraper) cookieHeader(ctx context.Context) string {
	if s.auth == nil {
		return ""
	}
	cookie, err := s.auth.CookieHeader(ctx, s.cfg.URL)
	if err != nil {
		s.log.Warn("proceeding unauthenticated", "error", err)
		return ""
	}
	return cookie
}

// reportCycleError logs a cycle-level failure and relays it to the
// error-reporting endpoint.
func (s *Scraper) reportCycleError(ctx context.Context, err error) {
	s.log.WithError(err).Error("cycle failed")
	if rerr := s.notifier.Report(ctx, s.errDest, fmt.Sprintf("[%s] %v", s.name, err)); rerr != nil {
		s.log.WithError(rerr).Warn("error report not delivered")
	}
}

// reportPostError logs a per-post failure without aborting the batch.
func (s *Scraper) reportPostError(ctx context.Context, err error) {
	s.log.WithError(err).Error("post skipped")
	if rerr := s.notifier.Report(ctx, s.errDest, fmt.Sprintf("[%s] %v", s.name, err)); rerr != nil {
		s.log.WithError(rerr).Warn("error report not delivered")
	}
}

// sameIdentifiers reports whether the fetched identifiers match the
// cached ones as equal-cardinality sets. An empty cache never matches,
// so first runs always proceed to seeding.
func sameIdentifiers(ids, cached []string) bool {
	if len(cached) == 0 || len(ids) != len(cached) {
		return false
	}
	seen := make(map[string]struct{}, len(cached))
	for _, id := range cached {
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}

// withoutEmpty drops identifiers that failed extraction.
func withoutEmpty(ids []string) []string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			kept = append(kept, id)
		}
	}
	return kept
}

// orTitle names a post for error messages when it has no identifier.
func orTitle(post domain.Post) string {
	if post.Title != "" {
		return post.Title
	}
	return "untitled post"
}

// sleepOrCancel waits for the delay or the context, whichever ends
// first. Returns false when the context was cancelled.
func sleepOrCancel(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
