package autocar

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/autocaravecchauffeur/autocar/content"
)

// Content backends accepted by SiteConfig.ContentBackend.
const (
	BackendAuto     = "auto"
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
	BackendStatic   = "static"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string // Site name (default "Autocaravecchauffeur")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and the footer
	Author      string // Default post author
	Phone       string
	Email       string
	WhatsApp    string // international number without "+"

	Addr string // Listen address (default ":3000")

	SupabaseURL     string
	SupabaseAnonKey string
	SupabaseTimeout time.Duration // per-request bound (default 10s)

	ContentBackend string // auto, supabase, sqlite or static (default auto)
	SQLitePath     string // content database for the sqlite backend (default "data/content.db")
	InboxPath      string // contact messages database (default "data/inbox.db")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	LogLevel string // debug, info, warn or error (default "info")
	LogDev   bool   // console encoding instead of JSON

	ContactMaxPerWindow int           // contact submissions per IP (default 5)
	ContactWindow       time.Duration // default 10min
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Autocaravecchauffeur"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "Compagnie d'autocars haut-de-gamme à Bruxelles. Transport de groupe en Belgique et en Europe."
	}
	if c.Author == "" {
		c.Author = c.Name
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.SupabaseTimeout == 0 {
		c.SupabaseTimeout = 10 * time.Second
	}
	if c.ContentBackend == "" {
		c.ContentBackend = BackendAuto
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/content.db"
	}
	if c.InboxPath == "" {
		c.InboxPath = "data/inbox.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ContactMaxPerWindow == 0 {
		c.ContactMaxPerWindow = 5
	}
	if c.ContactWindow == 0 {
		c.ContactWindow = 10 * time.Minute
	}
}

// Supabase returns the remote source settings.
func (c SiteConfig) Supabase() content.SupabaseConfig {
	return content.SupabaseConfig{
		URL:     c.SupabaseURL,
		AnonKey: c.SupabaseAnonKey,
		Timeout: c.SupabaseTimeout,
	}
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

// WithLogger replaces the logger built from LogLevel and LogDev.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithContentSource bypasses ContentBackend and reads posts from src.
func WithContentSource(src content.Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// configOption is one configuration key with its default.
type configOption struct {
	Key     string
	Default any
}

var configOptions = []configOption{
	{"site.name", "Autocaravecchauffeur"},
	{"site.url", "http://localhost:3000"},
	{"site.description", ""},
	{"site.author", ""},
	{"site.phone", "+32489001530"},
	{"site.email", "info@autocaravecchauffeur.be"},
	{"site.whatsapp", "32489001530"},
	{"server.addr", ":3000"},
	{"supabase.url", ""},
	{"supabase.anon_key", ""},
	{"supabase.timeout", "10s"},
	{"content.backend", BackendAuto},
	{"content.sqlite_path", "data/content.db"},
	{"inbox.path", "data/inbox.db"},
	{"session.secret", ""},
	{"cookie_secure", false},
	{"log.level", "info"},
	{"log.dev", false},
	{"contact.max_per_window", 5},
	{"contact.window", "10m"},
}

// LoadConfig resolves configuration with precedence: defaults < file < env.
// Environment variables use the AUTOCAR_ prefix with dots replaced by
// underscores (AUTOCAR_SUPABASE_URL). SUPABASE_URL and SUPABASE_ANON_KEY are
// accepted as well.
func LoadConfig(v *viper.Viper) (SiteConfig, error) {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("autocar")
		v.AddConfigPath(".")
	}
	for _, o := range configOptions {
		v.SetDefault(o.Key, o.Default)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return SiteConfig{}, fmt.Errorf("autocar: read config: %w", err)
		}
	}

	v.SetEnvPrefix("autocar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("supabase.url", "AUTOCAR_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.anon_key", "AUTOCAR_SUPABASE_ANON_KEY", "SUPABASE_ANON_KEY")

	backend := strings.ToLower(strings.TrimSpace(v.GetString("content.backend")))
	switch backend {
	case BackendAuto, BackendSupabase, BackendSQLite, BackendStatic:
	default:
		return SiteConfig{}, fmt.Errorf("autocar: unknown content backend %q", backend)
	}

	cfg := SiteConfig{
		Name:                v.GetString("site.name"),
		URL:                 v.GetString("site.url"),
		Description:         v.GetString("site.description"),
		Author:              v.GetString("site.author"),
		Phone:               v.GetString("site.phone"),
		Email:               v.GetString("site.email"),
		WhatsApp:            v.GetString("site.whatsapp"),
		Addr:                v.GetString("server.addr"),
		SupabaseURL:         v.GetString("supabase.url"),
		SupabaseAnonKey:     v.GetString("supabase.anon_key"),
		SupabaseTimeout:     v.GetDuration("supabase.timeout"),
		ContentBackend:      backend,
		SQLitePath:          v.GetString("content.sqlite_path"),
		InboxPath:           v.GetString("inbox.path"),
		SessionSecret:       v.GetString("session.secret"),
		CookieSecure:        v.GetBool("cookie_secure"),
		LogLevel:            v.GetString("log.level"),
		LogDev:              v.GetBool("log.dev"),
		ContactMaxPerWindow: v.GetInt("contact.max_per_window"),
		ContactWindow:       v.GetDuration("contact.window"),
	}
	cfg.setDefaults()
	return cfg, nil
}

// NewLogger builds the process logger. Development mode writes colored
// console lines without stack traces; otherwise JSON lines are written.
func NewLogger(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("autocar: log level: %w", err)
	}
	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
