// Package minicodelab is the engine behind the MiniCodeLab blog: posts stored
// in SQLite, a 404 page recommending recent posts, and a calendar page built
// from a Notion database. Pages are generated on demand and regenerated once
// their revalidation interval passes, and the whole site can be exported as
// static files.
//
// Templates are supplied through ViewFuncs; the views package provides the
// default set.
package minicodelab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron"

	"github.com/eringen/minicodelab/mirror"
	"github.com/eringen/minicodelab/notion"
)

// ViewFuncs holds the templ components the engine calls when rendering pages.
type ViewFuncs struct {
	Home           func(posts []BlogPost, activeTag string, tags []string, cfg SiteConfig) templ.Component
	Post           func(post BlogPost, related []BlogPost, cfg SiteConfig) templ.Component
	Calendar       func(props CalendarProps, cfg SiteConfig) templ.Component
	NotFound       func(props NotFoundProps, cfg SiteConfig) templ.Component
	ServerError    func(cfg SiteConfig) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []BlogPost, message string, csrfToken string) templ.Component
	AdminForm      func(post BlogPost, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
}

// App is the central application. It wires together the store, the
// statically generated pages, handlers, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Views  ViewFuncs

	Posts    *StaticPage[[]BlogPost]
	NotFound *StaticPage[NotFoundProps]
	Calendar *StaticPage[CalendarProps] // nil when the calendar is disabled

	logger         *slog.Logger
	loginLimiter   *LoginLimiter
	calendarSource CalendarSource
	coverMirror    CoverMirror
	customRoutes   []func(*App)
	staticDir      string

	lifecycle sync.Mutex // guards scheduler and stopped
	scheduler *cron.Cron
	stopped   bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.Echo.HideBanner = true
	return a
}

// Init opens the store and prepares the generated pages. It is called by
// Start and Export; call it directly only to use the pages without either.
func (a *App) Init(ctx context.Context) error {
	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("minicodelab: init store: %w", err)
		}
		a.Store = store
	}

	a.Posts = NewStaticPage("posts", a.Config.PostsRevalidate, func(ctx context.Context) ([]BlogPost, error) {
		return a.Store.ListPosts("")
	}, a.logger)
	a.NotFound = NewStaticPage("404", a.Config.NotFoundRevalidate, generateNotFound(a.Store), a.logger)

	if a.calendarSource == nil && a.Config.CalendarEnabled() {
		a.calendarSource = notion.NewClient(a.Config.Notion)
	}
	if a.calendarSource != nil {
		if a.coverMirror == nil && a.Config.Mirror.Configured() {
			m, err := mirror.New(ctx, a.Config.Mirror)
			if err != nil {
				return fmt.Errorf("minicodelab: init cover mirror: %w", err)
			}
			a.coverMirror = m
		}
		a.Calendar = NewStaticPage("calendar", a.Config.CalendarRevalidate, generateCalendar(a.calendarSource, a.coverMirror), a.logger)
	}
	return nil
}

// Start initializes the app, registers middleware and routes, starts the
// regeneration scheduler, and serves until the server is shut down.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("minicodelab: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("minicodelab: SessionSecret is required")
	}

	if err := a.Init(context.Background()); err != nil {
		return err
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.lifecycle.Lock()
	if a.stopped {
		a.lifecycle.Unlock()
		a.loginLimiter.Stop()
		return nil
	}
	scheduler, err := a.startScheduler()
	if err != nil {
		a.lifecycle.Unlock()
		a.loginLimiter.Stop()
		return fmt.Errorf("minicodelab: start scheduler: %w", err)
	}
	a.scheduler = scheduler
	a.lifecycle.Unlock()

	a.logger.Info("server starting", "addr", a.Config.Addr, "calendar", a.Calendar != nil)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	if a.Calendar != nil {
		e.GET("/calendar/", a.handleCalendar)
		e.GET("/calendar.json", a.handleCalendarJSON)
	}

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/post/:slug/delete/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.POST("/admin/images/:filename/delete/", a.handleImageDelete)
}

// invalidatePosts drops every page derived from the post table.
func (a *App) invalidatePosts() {
	a.Posts.Invalidate()
	a.NotFound.Invalidate()
}

// Shutdown stops the scheduler and gracefully stops the HTTP server. It is
// safe to call while Start is still running; a Start that has not reached
// the scheduler yet returns without serving.
func (a *App) Shutdown(ctx context.Context) error {
	a.lifecycle.Lock()
	a.stopped = true
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.loginLimiter.Stop()
		a.scheduler = nil
	}
	a.lifecycle.Unlock()
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
