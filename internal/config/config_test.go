package config_test

import (
	"testing"
	"time"

	"github.com/karloscodes/cartridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberdock/internal/config"
)

func TestGetConfigDefaults(t *testing.T) {
	t.Setenv("CYBERDOCK_ENV", "test")
	config.Reset()
	t.Cleanup(config.Reset)

	cfg := config.GetConfig()

	assert.Equal(t, "cyberdock", cfg.AppName)
	assert.Equal(t, config.DefaultTimezone, cfg.Timezone)
	assert.Equal(t, "Pago", cfg.DefaultStatus)
	assert.Equal(t, "with", cfg.DefaultDispatch)
	assert.Empty(t, cfg.GetPalette())
	assert.Equal(t, 300*time.Second, cfg.CacheTTL())
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, 1, cfg.GetMaxOpenConns())
	assert.Equal(t, "storage/cyberdock-test.db", cfg.DatabaseName)
}

func TestGetConfigFromEnvironment(t *testing.T) {
	t.Setenv("CYBERDOCK_ENV", "production")
	t.Setenv("CYBERDOCK_CACHE_TTL_SECONDS", "60")
	t.Setenv("CYBERDOCK_TIMEZONE", "UTC")
	t.Setenv("CYBERDOCK_DB_MAX_OPEN_CONNS", "4")
	t.Setenv("CYBERDOCK_PALETTE", "#111111, #222222,")
	config.Reset()
	t.Cleanup(config.Reset)

	cfg := config.GetConfig()

	require.True(t, cfg.IsProduction())
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, 4, cfg.GetMaxOpenConns())
	assert.Equal(t, 5, cfg.GetMaxIdleConns())
	assert.Equal(t, []string{"#111111", "#222222"}, cfg.GetPalette())
}

func TestConfigSatisfiesCartridge(t *testing.T) {
	cfg := &config.Config{
		AppName:          "cyberdock",
		AppPort:          "3000",
		Environment:      config.Production,
		LogLevel:         config.LogLevelWarn,
		LogsDirectory:    "logs",
		LogsMaxSizeInMb:  20,
		LogsMaxBackups:   10,
		LogsMaxAgeInDays: 30,
	}

	var runtime cartridge.Config = cfg
	assert.True(t, runtime.IsProduction())
	assert.Equal(t, "3000", runtime.GetPort())

	logCfg := cartridge.LogConfigFromProvider(cfg)
	assert.Equal(t, "warn", logCfg.Level)
	assert.Equal(t, "logs", logCfg.Directory)
	assert.Equal(t, 20, logCfg.MaxSizeMB)
	assert.Equal(t, 10, logCfg.MaxBackups)
	assert.Equal(t, 30, logCfg.MaxAgeDays)
	assert.Equal(t, "cyberdock", logCfg.AppName)
}
