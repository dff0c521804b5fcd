package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/frutilize/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "frutilize.db", cfg.DB.Path)
	assert.Equal(t, ".", cfg.Report.Dir)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
	assert.Equal(t, "5521968982850", cfg.Store.WhatsAppPhone)
	assert.Equal(t, "sessions.json", cfg.Session.Path)
	assert.Equal(t, "UTC", cfg.Report.Timezone.String())
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nDB_PATH=/tmp/test.db\nSTORE_PHONE=5521900001111\nTIMEZONE=UTC\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// t.Setenv registers the restore; the unset lets the .env values win.
	for _, key := range []string{"APP_PORT", "DB_PATH", "STORE_PHONE", "TIMEZONE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DB.Path)
	assert.Equal(t, "5521900001111", cfg.Store.WhatsAppPhone)
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "3000")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.App.Port)
}

func TestLoadInvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Not/AZone")

	_, err := config.Load("")
	assert.Error(t, err)
}
