package minicodelab

import (
	"log/slog"
	"time"

	"github.com/eringen/minicodelab/mirror"
	"github.com/eringen/minicodelab/notion"
)

// SiteConfig holds all configuration for a minicodelab site.
type SiteConfig struct {
	Name        string // Site name (default "MiniCodeLab")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/blog.db")

	AdminPassword string // Required to serve: admin login password
	SessionSecret string // Required to serve: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	Notion notion.Config // Calendar database; the calendar page is disabled when unset
	Mirror mirror.Config // Optional bucket for calendar covers

	PostsRevalidate    time.Duration // Post listing (default 5min)
	NotFoundRevalidate time.Duration // 404 page (default 1h)
	CalendarRevalidate time.Duration // Calendar page (default 24h)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "MiniCodeLab"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.PostsRevalidate == 0 {
		c.PostsRevalidate = 5 * time.Minute
	}
	if c.NotFoundRevalidate == 0 {
		c.NotFoundRevalidate = time.Hour
	}
	if c.CalendarRevalidate == 0 {
		c.CalendarRevalidate = 24 * time.Hour
	}
}

// CalendarEnabled reports whether the Notion calendar database is configured.
func (c SiteConfig) CalendarEnabled() bool {
	return c.Notion.Configured()
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the logger used for generation and request logs.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithCalendarSource replaces the Notion client used by the calendar page.
func WithCalendarSource(q CalendarSource) Option {
	return func(a *App) {
		a.calendarSource = q
	}
}

// WithCoverMirror replaces the bucket mirror used for calendar covers.
func WithCoverMirror(m CoverMirror) Option {
	return func(a *App) {
		a.coverMirror = m
	}
}
