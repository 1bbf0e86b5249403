package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SHOPSYNC_APP_NAME":                 os.Getenv("SHOPSYNC_APP_NAME"),
		"SHOPSYNC_APP_ENV":                  os.Getenv("SHOPSYNC_APP_ENV"),
		"SHOPSYNC_APP_PORT":                 os.Getenv("SHOPSYNC_APP_PORT"),
		"SHOPSYNC_DATABASE_HOST":            os.Getenv("SHOPSYNC_DATABASE_HOST"),
		"SHOPSYNC_DATABASE_PORT":            os.Getenv("SHOPSYNC_DATABASE_PORT"),
		"SHOPSYNC_DATABASE_USER":            os.Getenv("SHOPSYNC_DATABASE_USER"),
		"SHOPSYNC_DATABASE_PASSWORD":        os.Getenv("SHOPSYNC_DATABASE_PASSWORD"),
		"SHOPSYNC_DATABASE_DBNAME":          os.Getenv("SHOPSYNC_DATABASE_DBNAME"),
		"SHOPSYNC_DATABASE_SSLMODE":         os.Getenv("SHOPSYNC_DATABASE_SSLMODE"),
		"SHOPSYNC_DATABASE_MAX_OPEN_CONNS":  os.Getenv("SHOPSYNC_DATABASE_MAX_OPEN_CONNS"),
		"SHOPSYNC_DATABASE_MAX_IDLE_CONNS":  os.Getenv("SHOPSYNC_DATABASE_MAX_IDLE_CONNS"),
		"SHOPSYNC_SHOPIFY_ENABLED":          os.Getenv("SHOPSYNC_SHOPIFY_ENABLED"),
		"SHOPSYNC_SHOPIFY_SHOP_DOMAIN":      os.Getenv("SHOPSYNC_SHOPIFY_SHOP_DOMAIN"),
		"SHOPSYNC_SHOPIFY_ACCESS_TOKEN":     os.Getenv("SHOPSYNC_SHOPIFY_ACCESS_TOKEN"),
		"SHOPSYNC_SHOPIFY_PAGE_SIZE":        os.Getenv("SHOPSYNC_SHOPIFY_PAGE_SIZE"),
		"SHOPSYNC_SHOPIFY_POLL_INTERVAL":    os.Getenv("SHOPSYNC_SHOPIFY_POLL_INTERVAL"),
		"SHOPSYNC_SHOPIFY_MAX_POLL_RETRIES": os.Getenv("SHOPSYNC_SHOPIFY_MAX_POLL_RETRIES"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shopsync", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "shopsync", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "2024-01", cfg.Shopify.APIVersion)
		assert.Equal(t, 100, cfg.Shopify.PageSize)
		assert.Equal(t, 30*time.Second, cfg.Shopify.PollInterval)
		assert.Equal(t, 10, cfg.Shopify.MaxPollRetries)
		assert.False(t, cfg.Shopify.Enabled)
	})

	t.Run("loads values from environment variables with SHOPSYNC prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSYNC_APP_NAME", "test-app")
		os.Setenv("SHOPSYNC_APP_PORT", "9000")
		os.Setenv("SHOPSYNC_DATABASE_HOST", "testdb.local")
		os.Setenv("SHOPSYNC_DATABASE_PORT", "5433")
		os.Setenv("SHOPSYNC_SHOPIFY_ENABLED", "true")
		os.Setenv("SHOPSYNC_SHOPIFY_SHOP_DOMAIN", "demo.myshopify.com")
		os.Setenv("SHOPSYNC_SHOPIFY_ACCESS_TOKEN", "shpat_test")
		os.Setenv("SHOPSYNC_SHOPIFY_PAGE_SIZE", "50")
		os.Setenv("SHOPSYNC_SHOPIFY_POLL_INTERVAL", "5s")
		os.Setenv("SHOPSYNC_SHOPIFY_MAX_POLL_RETRIES", "3")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Shopify.Enabled)
		assert.Equal(t, "demo.myshopify.com", cfg.Shopify.ShopDomain)
		assert.Equal(t, "shpat_test", cfg.Shopify.AccessToken)
		assert.Equal(t, 50, cfg.Shopify.PageSize)
		assert.Equal(t, 5*time.Second, cfg.Shopify.PollInterval)
		assert.Equal(t, 3, cfg.Shopify.MaxPollRetries)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSYNC_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SHOPSYNC_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("requires shop domain when integration enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSYNC_SHOPIFY_ENABLED", "true")
		os.Setenv("SHOPSYNC_SHOPIFY_ACCESS_TOKEN", "shpat_test")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shopify.shop_domain is required")
	})

	t.Run("requires access token when integration enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSYNC_SHOPIFY_ENABLED", "true")
		os.Setenv("SHOPSYNC_SHOPIFY_SHOP_DOMAIN", "demo.myshopify.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shopify.access_token is required")
	})

	t.Run("rejects page size above the platform maximum", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSYNC_SHOPIFY_PAGE_SIZE", "500")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page_size must be between 1 and 250")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"SHOPSYNC_APP_ENV":           os.Getenv("SHOPSYNC_APP_ENV"),
		"SHOPSYNC_DATABASE_PASSWORD": os.Getenv("SHOPSYNC_DATABASE_PASSWORD"),
		"SHOPSYNC_DATABASE_SSLMODE":  os.Getenv("SHOPSYNC_DATABASE_SSLMODE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSYNC_APP_ENV", "production")
		os.Setenv("SHOPSYNC_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSYNC_APP_ENV", "production")
		os.Setenv("SHOPSYNC_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SHOPSYNC_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPSYNC_APP_ENV", "production")
		os.Setenv("SHOPSYNC_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SHOPSYNC_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.local", Port: 6380}
	assert.Equal(t, "redis.local:6380", cfg.Addr())
}
