package autocar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/autocaravecchauffeur/autocar/content"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "Autocaravecchauffeur", cfg.Name)
	assert.Equal(t, cfg.Name, cfg.Author)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, BackendAuto, cfg.ContentBackend)
	assert.Equal(t, 10*time.Second, cfg.SupabaseTimeout)
	assert.Equal(t, 5, cfg.ContactMaxPerWindow)
	assert.Equal(t, 10*time.Minute, cfg.ContactWindow)
	assert.NotEmpty(t, cfg.Description)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://demo.supabase.co")
	t.Setenv("AUTOCAR_SUPABASE_ANON_KEY", "anon")
	t.Setenv("AUTOCAR_SITE_URL", "https://autocaravecchauffeur.be")
	t.Setenv("AUTOCAR_CONTENT_BACKEND", "Supabase")

	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "https://demo.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "anon", cfg.SupabaseAnonKey)
	assert.Equal(t, "https://autocaravecchauffeur.be", cfg.URL)
	assert.Equal(t, BackendSupabase, cfg.ContentBackend)
	assert.True(t, content.NewSupabaseSource(cfg.Supabase()).Configured())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autocar.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[site]
url = "https://example.be"
phone = "+3220000000"

[content]
backend = "sqlite"
sqlite_path = "/var/lib/autocar/content.db"

[contact]
max_per_window = 2
window = "30m"
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "https://example.be", cfg.URL)
	assert.Equal(t, "+3220000000", cfg.Phone)
	assert.Equal(t, BackendSQLite, cfg.ContentBackend)
	assert.Equal(t, "/var/lib/autocar/content.db", cfg.SQLitePath)
	assert.Equal(t, 2, cfg.ContactMaxPerWindow)
	assert.Equal(t, 30*time.Minute, cfg.ContactWindow)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("AUTOCAR_CONTENT_BACKEND", "ftp")
		_, err := LoadConfig(viper.New())
		assert.ErrorContains(t, err, `unknown content backend "ftp"`)
	})
	t.Run("missing explicit file", func(t *testing.T) {
		v := viper.New()
		v.SetConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
		_, err := LoadConfig(v)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = NewLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}
