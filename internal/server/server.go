// Package server serves the localized documentation site.
//
// A DocsServer owns the content store, the page chrome and, in development,
// the file watcher and the live reload hub. Every request passes the
// middleware chain first, so unprefixed documentation paths are redirected
// to a locale before they reach the handlers registered here.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/ayden94/caro-kann-docs/internal/config"
	"github.com/ayden94/caro-kann-docs/internal/content"
	docserrors "github.com/ayden94/caro-kann-docs/internal/errors"
	"github.com/ayden94/caro-kann-docs/internal/i18n"
	"github.com/ayden94/caro-kann-docs/internal/locale"
	"github.com/ayden94/caro-kann-docs/internal/logging"
	"github.com/ayden94/caro-kann-docs/internal/metadata"
	"github.com/ayden94/caro-kann-docs/internal/middleware"
	"github.com/ayden94/caro-kann-docs/internal/pagemap"
	"github.com/ayden94/caro-kann-docs/internal/security"
	"github.com/ayden94/caro-kann-docs/internal/site"
	"github.com/ayden94/caro-kann-docs/internal/watcher"
	"github.com/ayden94/caro-kann-docs/internal/websocket"
)

const readHeaderTimeout = 10 * time.Second

// DocsServer serves documentation pages with optional live reload.
type DocsServer struct {
	config   *config.Config
	logger   logging.Logger
	locales  locale.Config
	resolver *locale.Resolver
	store    *content.Store
	nav      *pagemap.Map
	site     *site.Site
	handler  http.Handler
	started  time.Time

	contentDir string
	onDisk     bool
	contentFS  fs.FS

	hub     *websocket.Hub
	watcher *watcher.FileWatcher

	httpServer   *http.Server
	serverMutex  sync.RWMutex
	shutdownOnce sync.Once
}

// Option customises a DocsServer.
type Option func(*DocsServer)

// WithContentFS serves pages from fsys instead of the configured content
// directory. The file watcher is not started for such a source.
func WithContentFS(fsys fs.FS) Option {
	return func(s *DocsServer) { s.contentFS = fsys }
}

// New loads the content, navigation and metadata named by cfg and builds
// the handler stack. A nil logger discards output.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...Option) (*DocsServer, error) {
	if cfg == nil {
		return nil, docserrors.NewConfigError(docserrors.ErrCodeConfigInvalid, "server requires a configuration", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &DocsServer{
		config:  cfg,
		logger:  logger.WithComponent("server"),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	locales, err := cfg.LocaleConfig()
	if err != nil {
		return nil, docserrors.NewConfigError(docserrors.ErrCodeConfigInvalid, "invalid locale configuration", err)
	}
	s.locales = locales
	s.resolver = locale.NewResolver(locales)

	nav, err := pagemap.LoadFile(cfg.Site.NavigationFile)
	if err != nil {
		return nil, err
	}
	s.nav = nav

	meta, err := metadata.LoadFile(cfg.Site.MetadataFile)
	if err != nil {
		return nil, err
	}
	if err := meta.Validate(locales.Locales()); err != nil {
		s.logger.Warn(ctx, err, "Locales fall back to default metadata", "fallback", meta.Fallback)
	}

	translator, err := i18n.New(locales.Default())
	if err != nil {
		return nil, docserrors.NewInternalError(docserrors.ErrCodeInternalError, "loading interface translations", err)
	}
	for _, loc := range locales.Locales() {
		if !slices.Contains(translator.Languages(), loc) {
			s.logger.Warn(ctx, nil, "No interface translations for locale", "locale", loc, "fallback", locales.Default())
		}
	}

	fsys := s.contentFS
	if fsys == nil {
		fsys, s.onDisk = content.Source(cfg.Content.Dir)
		if s.onDisk {
			s.contentDir = filepath.Clean(cfg.Content.Dir)
		} else {
			s.logger.Info(ctx, "Content directory not found, serving bundled documentation", "dir", cfg.Content.Dir)
		}
	}

	s.store = content.NewStore(fsys, locales.Locales(), logger)
	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}
	s.checkCoverage(ctx)

	liveReload := cfg.Development.HotReload
	if liveReload {
		origins := security.NewOriginValidator(cfg.Server.AllowedOrigins, cfg.Server.Host, cfg.Server.Port)
		s.hub = websocket.NewHub(origins, logger)
	}

	s.site = &site.Site{
		Name:               cfg.Site.Name,
		LogoText:           cfg.Site.LogoText,
		ProjectLink:        cfg.Site.ProjectLink,
		DocsRepositoryBase: cfg.Site.DocsRepositoryBase,
		Feedback:           cfg.Site.Feedback,
		Locales:            locales.Locales(),
		Nav:                nav,
		Meta:               meta,
		Translator:         translator,
		LiveReload:         liveReload,
	}

	sec := security.SecurityConfigFromAppConfig(cfg)
	sec.Logger = logger
	chain := middleware.NewMiddlewareChain(middleware.MiddlewareDependencies{
		Logger:   logger,
		Security: sec,
		Resolver: s.resolver,
	})
	s.handler = chain.Apply(s.routes())
	s.logger.Debug(ctx, "Middleware chain built", "middlewares", chain.Len(), "live_reload", s.hub != nil)

	return s, nil
}

// Handler returns the full handler stack, middleware included.
func (s *DocsServer) Handler() http.Handler {
	return s.handler
}

// Store returns the content store backing the server.
func (s *DocsServer) Store() *content.Store {
	return s.store
}

// Start listens on the configured address and serves until ctx is done.
func (s *DocsServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return docserrors.NewEnhancedError("Failed to start server", err,
			docserrors.ServerStartError(err, s.config.Server.Port, nil))
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or Shutdown is called.
// Cancelling ctx shuts the server down within the configured timeout.
func (s *DocsServer) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.startWatcher(ctx); err != nil {
		s.logger.Warn(ctx, err, "Live reload disabled: cannot watch content")
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Documentation server listening",
		"url", "http://"+ln.Addr().String(),
		"locales", s.locales.Locales(),
		"default_locale", s.locales.Default(),
		"pages", s.store.Count(),
		"live_reload", s.hub != nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		<-errCh
		return err
	}
}

// Shutdown stops the watcher, closes live reload connections and drains
// the HTTP server. Only the first call has an effect.
func (s *DocsServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop file watcher")
			}
		}

		// Hijacked connections are not tracked by http.Server
		if s.hub != nil {
			if err := s.hub.Shutdown(ctx); err != nil {
				shutdownErr = err
			}
		}

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				shutdownErr = err
			}
		}
	})

	return shutdownErr
}

func (s *DocsServer) startWatcher(ctx context.Context) error {
	if s.hub == nil || !s.onDisk {
		return nil
	}

	fw, err := watcher.NewFileWatcher(s.config.Development.Debounce, s.logger)
	if err != nil {
		return err
	}
	fw.AddFilter(watcher.MarkdownFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddHandler(s.HandleContentChange)

	if err := fw.AddRecursive(s.contentDir); err != nil {
		_ = fw.Stop()
		return err
	}
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return err
	}

	s.watcher = fw
	s.logger.Debug(ctx, "Watching content", "dirs", len(fw.WatchList()))
	return nil
}

// HandleContentChange reloads the content store after files changed and
// tells open pages to reload. When the reload fails the previous pages
// stay in place and the pages are sent the error instead.
func (s *DocsServer) HandleContentChange(ctx context.Context, events []watcher.ChangeEvent) error {
	paths := make([]string, 0, len(events))
	for _, e := range events {
		paths = append(paths, s.relativePath(e.Path))
	}

	if err := s.store.Reload(ctx); err != nil {
		if s.hub != nil {
			_ = s.hub.Broadcast(websocket.UpdateMessage{Type: websocket.MessageError, Content: err.Error()})
		}
		return err
	}
	s.checkCoverage(ctx)

	s.logger.Info(ctx, "Content reloaded", "files", paths, "pages", s.store.Count())
	if s.hub == nil {
		return nil
	}
	return s.hub.Reload(paths...)
}

func (s *DocsServer) relativePath(path string) string {
	if s.contentDir == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(s.contentDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// checkCoverage warns about navigation entries without a page.
func (s *DocsServer) checkCoverage(ctx context.Context) {
	var routes []string
	for _, e := range s.nav.Flatten() {
		routes = append(routes, e.Route)
	}
	for _, loc := range s.locales.Locales() {
		if missing := s.store.Missing(loc, routes); len(missing) > 0 {
			s.logger.Warn(ctx, nil, "Navigation lists pages that do not exist", "locale", loc, "routes", missing)
		}
	}
}
