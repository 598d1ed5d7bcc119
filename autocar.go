// Package autocar is the website of a bus-charter company built with Go, Echo
// and templ: static information pages, a blog read from a remote content
// store merged with an embedded fallback dataset, a contact form, RSS and
// sitemap.
//
// Pages are provided through the ViewFuncs struct, and autocar handles the
// handler logic, middleware, content resolution and the contact inbox.
package autocar

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/autocaravecchauffeur/autocar/content"
	"github.com/autocaravecchauffeur/autocar/views"
)

// ViewFuncs holds the page components the handlers render. DefaultViews
// returns the site's own pages; any field may be swapped for a custom page.
type ViewFuncs struct {
	Home        func(d views.HomeData) templ.Component
	Services    func(p views.Page) templ.Component
	Pricing     func(d views.PricingData) templ.Component
	Contact     func(d views.ContactData) templ.Component
	Blog        func(d views.BlogData) templ.Component
	Post        func(d views.PostData) templ.Component
	NotFound    func(p views.Page) templ.Component
	ServerError func(p views.Page) templ.Component
}

// DefaultViews returns the pages of the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		Services:    views.Services,
		Pricing:     views.Pricing,
		Contact:     views.Contact,
		Blog:        views.Blog,
		Post:        views.Post,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App is the central application. It wires together the content
// repository, the contact inbox, handlers, middleware and pages.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *content.Repository
	Inbox   *Inbox
	Logger  *zap.Logger
	Views   ViewFuncs

	source         content.Source
	contactLimiter *RateLimiter
	closers        []io.Closer
	customRoutes   []func(*App)
	staticDir      string
	initialized    bool
}

// New creates an App with the given configuration and pages.
func New(cfg SiteConfig, pages ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:    cfg,
		Echo:      e,
		Views:     pages,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init builds the content repository, the inbox, middleware and routes
// without starting the server. Start calls it; tests drive a.Echo directly.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("autocar: SessionSecret is required")
	}

	if a.Logger == nil {
		logger, err := NewLogger(a.Config.LogLevel, a.Config.LogDev)
		if err != nil {
			return err
		}
		a.Logger = logger
	}

	if a.source == nil {
		src, err := OpenSource(a.Config)
		if err != nil {
			return fmt.Errorf("autocar: init content source: %w", err)
		}
		if cl, ok := src.(io.Closer); ok {
			a.closers = append(a.closers, cl)
		}
		a.source = src
	}
	a.Content = content.NewRepository(a.source, a.Logger.Named("content"))

	inbox, err := NewInbox(a.Config.InboxPath)
	if err != nil {
		a.Close()
		return fmt.Errorf("autocar: init inbox: %w", err)
	}
	a.Inbox = inbox
	a.closers = append(a.closers, inbox)

	a.contactLimiter = NewRateLimiter(a.Config.ContactMaxPerWindow, a.Config.ContactWindow)
	a.closers = append(a.closers, a.contactLimiter)

	a.Echo.Validator = forms
	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.initialized = true
	return nil
}

// OpenSource returns the content source named by cfg.ContentBackend. In
// auto mode a configured Supabase project is used, otherwise the embedded
// dataset. Sources that hold resources implement io.Closer.
func OpenSource(cfg SiteConfig) (content.Source, error) {
	switch cfg.ContentBackend {
	case BackendSQLite:
		return content.NewSQLiteSource(cfg.SQLitePath)
	case BackendStatic:
		return content.NopSource{}, nil
	case BackendSupabase:
		return content.NewSupabaseSource(cfg.Supabase()), nil
	default:
		if src := content.NewSupabaseSource(cfg.Supabase()); src.Configured() {
			return src, nil
		}
		return content.NopSource{}, nil
	}
}

// Start initializes the app and runs the server until it is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("listening",
		zap.String("addr", a.Config.Addr),
		zap.String("content_source", a.source.Name()),
	)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets are served under /public/ and fall through to the
	// user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/favicon.svg", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", echo.WrapHandler(embeddedHandler))
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/services/", a.handleServices)
	e.GET("/tarifs/", a.handlePricing)
	e.GET("/contact/", a.handleContact)
	e.POST("/contact/", a.handleContactSubmit)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
}

// Close releases the databases and stops background work. Call it when
// the app is shutting down.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}
