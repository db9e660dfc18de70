// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	repository "github.com/okian/olympicsnav/internal/adapters/repository"
	"github.com/okian/olympicsnav/internal/domain/catalog"
	"github.com/okian/olympicsnav/internal/domain/filter"
	"github.com/okian/olympicsnav/internal/domain/session"
	"github.com/okian/olympicsnav/internal/domain/types"
	"github.com/okian/olympicsnav/pkg/logger"
	"github.com/okian/olympicsnav/pkg/metrics"
)

// Service implements the API dependencies for the navigator.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	catalog  *catalog.Catalog
	sessions *session.Store

	// Configuration
	sessionCapacity int
	maxPageSize     int
	defaultPageSize int
	assetsBase      string

	// Option cache for the most recent load of the records.
	cacheMu sync.Mutex
	cache   *filter.Cache

	// State
	started   bool
	startedAt time.Time
	stopCh    chan struct{}

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessionCapacity: 1024,
		maxPageSize:     1000,
		defaultPageSize: 100,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultPageSize > s.maxPageSize {
		s.defaultPageSize = s.maxPageSize
	}
	return s
}

// Start loads both datasets and prepares the session store. Load failures
// are logged, not returned: each view reports its own data error, so a bad
// host table does not take down the records view.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		return fmt.Errorf("service.start: %w", repository.ErrNoPath)
	}
	if s.catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("service.start: %w", err)
		}
		s.catalog = c
	}

	s.logger.Info(ctx, "starting navigator service...")

	s.sessions = session.NewStore(
		session.WithCapacity(s.sessionCapacity),
		session.WithEvictHook(func(id string) {
			metrics.RecordSessionEvicted()
			s.logger.Debug(context.Background(), "session evicted", logger.String("session_id", id))
		}),
		session.WithCacheOptions(filter.WithLookupHook(metrics.RecordOptionsLookup)),
	)

	if rs, err := s.store.Records(ctx); err != nil {
		s.logger.Error(ctx, "records unavailable", logger.Error(err))
	} else {
		s.logger.Info(ctx, "records ready", logger.Int("rows", rs.Len()))
	}
	if hosts, err := s.store.Hosts(ctx); err != nil {
		s.logger.Warn(ctx, "host table unavailable", logger.Error(err))
	} else {
		s.logger.Info(ctx, "host table ready", logger.Int("rows", len(hosts)))
	}

	s.stopCh = make(chan struct{})
	s.startMetricsUpdater(ctx)
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "navigator service started",
		logger.Int("sessionCapacity", s.sessionCapacity),
		logger.Int("maxPageSize", s.maxPageSize),
	)
	return nil
}

// Stop shuts down background work.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	close(s.stopCh)
	s.started = false
	s.logger.Info(context.Background(), "navigator service stopped")
}

func (s *Service) startMetricsUpdater(ctx context.Context) {
	stop := s.stopCh
	go func() {
		ticker := time.NewTicker(metrics.RefreshInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				var ms runtime.MemStats
				runtime.ReadMemStats(&ms)
				metrics.UpdateSystemMemoryUsage(ms.Alloc)
				metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
			}
		}
	}()
}

func (s *Service) components() (*session.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.sessions, nil
}

// options returns the option cache for the current load of the records,
// replacing it when the store has reloaded.
func (s *Service) options(ctx context.Context) (*filter.Cache, error) {
	if _, err := s.components(); err != nil {
		return nil, err
	}
	rs, err := s.store.Records(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cache == nil || !s.cache.Records().Same(rs) {
		s.cache = filter.NewCache(rs, filter.WithLookupHook(metrics.RecordOptionsLookup))
	}
	return s.cache, nil
}

// window validates and defaults a pagination request.
func (s *Service) window(offset, limit int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must not be negative", types.ErrInvalidWindow)
	}
	if limit == 0 {
		limit = s.defaultPageSize
	}
	if limit < 0 || limit > s.maxPageSize {
		return 0, 0, fmt.Errorf("%w: limit must be in 1..%d", types.ErrInvalidWindow, s.maxPageSize)
	}
	return offset, limit, nil
}

func page(rs types.RecordSet, offset, limit int) types.ResultPage {
	return types.ResultPage{
		Total:   rs.Len(),
		Offset:  offset,
		Limit:   limit,
		Records: rs.Window(offset, limit),
	}
}

// Options returns every option list for the given upstream selections.
func (s *Service) Options(ctx context.Context, season, sport types.Selection) (types.OptionSet, error) {
	c, err := s.options(ctx)
	if err != nil {
		return types.OptionSet{}, fmt.Errorf("service.options: %w", err)
	}
	return c.Options(season, sport), nil
}

// Filter applies state to the current records and returns one window of the
// result. limit 0 selects the default window size.
func (s *Service) Filter(ctx context.Context, state types.FilterState, offset, limit int) (types.ResultPage, error) {
	const op = "service.filter"
	offset, limit, err := s.window(offset, limit)
	if err != nil {
		return types.ResultPage{}, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.options(ctx)
	if err != nil {
		return types.ResultPage{}, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	out := filter.Apply(c.Records(), state)
	metrics.RecordFilterRequest("query", float64(time.Since(start).Microseconds())/1000, out.Len())
	return page(out, offset, limit), nil
}

func (s *Service) view(sess session.Session) types.SessionView {
	start := time.Now()
	total := filter.Apply(sess.Records(), sess.State).Len()
	metrics.RecordFilterRequest("session", float64(time.Since(start).Microseconds())/1000, total)
	return types.SessionView{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
		State:     sess.State,
		Options:   sess.Options.Options(sess.State.Season, sess.State.Sport),
		Total:     total,
	}
}

// CreateSession starts a browsing session over the current records.
func (s *Service) CreateSession(ctx context.Context) (types.SessionView, error) {
	const op = "service.create_session"
	sessions, err := s.components()
	if err != nil {
		return types.SessionView{}, fmt.Errorf("%s: %w", op, err)
	}
	rs, err := s.store.Records(ctx)
	if err != nil {
		return types.SessionView{}, fmt.Errorf("%s: %w", op, err)
	}
	sess, err := sessions.Create(ctx, rs)
	if err != nil {
		return types.SessionView{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordSessionCreated()
	metrics.UpdateSessionsActive(sessions.Len())
	s.logger.Debug(ctx, "session created", logger.String("session_id", sess.ID), logger.Int("records", rs.Len()))
	return s.view(sess), nil
}

// Session returns the current view of session id.
func (s *Service) Session(ctx context.Context, id string) (types.SessionView, error) {
	sessions, err := s.components()
	if err != nil {
		return types.SessionView{}, fmt.Errorf("service.session: %w", err)
	}
	sess, err := sessions.Get(ctx, id)
	if err != nil {
		return types.SessionView{}, fmt.Errorf("service.session: %w", err)
	}
	return s.view(sess), nil
}

// UpdateSession applies a partial selection change. Downstream cascading
// selections that the new upstream choice no longer offers are reset.
func (s *Service) UpdateSession(ctx context.Context, id string, change types.StateChange) (types.SessionView, error) {
	sessions, err := s.components()
	if err != nil {
		return types.SessionView{}, fmt.Errorf("service.update_session: %w", err)
	}
	sess, err := sessions.Apply(ctx, id, change)
	if err != nil {
		return types.SessionView{}, fmt.Errorf("service.update_session: %w", err)
	}
	s.logger.Debug(ctx, "session updated",
		logger.String("session_id", id),
		logger.Bool("upstream", change.UpstreamChanged()),
	)
	return s.view(sess), nil
}

// SessionRecords returns one window of the session's filtered records.
func (s *Service) SessionRecords(ctx context.Context, id string, offset, limit int) (types.ResultPage, error) {
	const op = "service.session_records"
	offset, limit, err := s.window(offset, limit)
	if err != nil {
		return types.ResultPage{}, fmt.Errorf("%s: %w", op, err)
	}
	sessions, err := s.components()
	if err != nil {
		return types.ResultPage{}, fmt.Errorf("%s: %w", op, err)
	}
	sess, err := sessions.Get(ctx, id)
	if err != nil {
		return types.ResultPage{}, fmt.Errorf("%s: %w", op, err)
	}
	out := filter.Apply(sess.Records(), sess.State)
	return page(out, offset, limit), nil
}

// DeleteSession ends session id.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	sessions, err := s.components()
	if err != nil {
		return fmt.Errorf("service.delete_session: %w", err)
	}
	if err := sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.delete_session: %w", err)
	}
	metrics.UpdateSessionsActive(sessions.Len())
	return nil
}

func (s *Service) render(p catalog.Page) (catalog.RenderedPage, error) {
	p = p.WithAssetBase(s.assetsBase)
	html, err := catalog.RenderHTML(p.Body)
	if err != nil {
		return catalog.RenderedPage{}, fmt.Errorf("render %s: %w", p.Slug, err)
	}
	return catalog.RenderedPage{Page: p, HTML: html}, nil
}

// Pages returns the notable Games pages in order, rendered to HTML.
func (s *Service) Pages(ctx context.Context) ([]catalog.RenderedPage, error) {
	if _, err := s.components(); err != nil {
		return nil, fmt.Errorf("service.pages: %w", err)
	}
	pages := s.catalog.Pages()
	out := make([]catalog.RenderedPage, 0, len(pages))
	for _, p := range pages {
		r, err := s.render(p)
		if err != nil {
			return nil, fmt.Errorf("service.pages: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Page returns one rendered page.
func (s *Service) Page(ctx context.Context, slug string) (catalog.RenderedPage, error) {
	if _, err := s.components(); err != nil {
		return catalog.RenderedPage{}, fmt.Errorf("service.page: %w", err)
	}
	p, err := s.catalog.Page(slug)
	if err != nil {
		return catalog.RenderedPage{}, fmt.Errorf("service.page: %w", err)
	}
	return s.render(p)
}

// Overview returns the rendered landing page.
func (s *Service) Overview(ctx context.Context) (catalog.RenderedPage, error) {
	if _, err := s.components(); err != nil {
		return catalog.RenderedPage{}, fmt.Errorf("service.overview: %w", err)
	}
	return s.render(s.catalog.Overview())
}

// Citations returns the works cited.
func (s *Service) Citations(ctx context.Context) ([]string, error) {
	if _, err := s.components(); err != nil {
		return nil, fmt.Errorf("service.citations: %w", err)
	}
	return s.catalog.Citations(), nil
}

// HostPoints returns the host-city map points. A malformed host row fails
// the whole view with a data invariant error.
func (s *Service) HostPoints(ctx context.Context) ([]catalog.Point, error) {
	const op = "service.host_points"
	if _, err := s.components(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hosts, err := s.store.Hosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pts, err := catalog.HostPoints(hosts)
	if err != nil {
		if errors.Is(err, types.ErrDataInvariant) {
			metrics.RecordErrorByComponent("catalog", "data_invariant")
		}
		s.logger.Error(ctx, "host view failed", logger.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pts, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"sessionCapacity": s.sessionCapacity,
		"maxPageSize":     s.maxPageSize,
		"defaultPageSize": s.defaultPageSize,
	}
	if !s.started {
		return stats
	}

	stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
	stats["sessionsActive"] = s.sessions.Len()
	metrics.UpdateSessionsActive(s.sessions.Len())

	ctx := context.Background()
	if rs, err := s.store.Records(ctx); err == nil {
		stats["records"] = rs.Len()
	} else {
		stats["recordsError"] = err.Error()
	}
	if hosts, err := s.store.Hosts(ctx); err == nil {
		stats["hosts"] = len(hosts)
	} else {
		stats["hostsError"] = err.Error()
	}
	if fs, ok := s.store.(interface{ Loads() int64 }); ok {
		stats["datasetLoads"] = fs.Loads()
	}
	return stats
}
