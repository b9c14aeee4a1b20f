package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"FERREPOS_APP_NAME":                  os.Getenv("FERREPOS_APP_NAME"),
		"FERREPOS_APP_ENV":                   os.Getenv("FERREPOS_APP_ENV"),
		"FERREPOS_APP_PORT":                  os.Getenv("FERREPOS_APP_PORT"),
		"FERREPOS_DATABASE_HOST":             os.Getenv("FERREPOS_DATABASE_HOST"),
		"FERREPOS_DATABASE_PASSWORD":         os.Getenv("FERREPOS_DATABASE_PASSWORD"),
		"FERREPOS_DATABASE_SSLMODE":          os.Getenv("FERREPOS_DATABASE_SSLMODE"),
		"FERREPOS_DATABASE_MAX_IDLE_CONNS":   os.Getenv("FERREPOS_DATABASE_MAX_IDLE_CONNS"),
		"FERREPOS_DATABASE_MAX_OPEN_CONNS":   os.Getenv("FERREPOS_DATABASE_MAX_OPEN_CONNS"),
		"FERREPOS_JWT_SECRET":                os.Getenv("FERREPOS_JWT_SECRET"),
		"FERREPOS_SALES_RESTOCK_THRESHOLD":   os.Getenv("FERREPOS_SALES_RESTOCK_THRESHOLD"),
		"FERREPOS_SALES_ADMIN_CODE_SEED":     os.Getenv("FERREPOS_SALES_ADMIN_CODE_SEED"),
		"FERREPOS_RATE_PROVIDER_URL":         os.Getenv("FERREPOS_RATE_PROVIDER_URL"),
		"FERREPOS_HTTP_CORS_ALLOW_ORIGINS":   os.Getenv("FERREPOS_HTTP_CORS_ALLOW_ORIGINS"),
		"FERREPOS_SALES_PAYMENT_TOLERANCE_USD": os.Getenv("FERREPOS_SALES_PAYMENT_TOLERANCE_USD"),
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

		assert.Equal(t, "ferrepos-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "ferrepos", cfg.Database.DBName)
		assert.Equal(t, "https://api.dolarvzla.com/public/exchange-rate", cfg.Rate.ProviderURL)
		assert.Equal(t, 36.5, cfg.Rate.FallbackRate)
		assert.Equal(t, 10, cfg.Sales.RestockThreshold)
		assert.Equal(t, 0.01, cfg.Sales.PaymentToleranceUSD)
		assert.Equal(t, 5*time.Minute, cfg.Sales.SecurityCodeTTL)
		assert.False(t, cfg.Sales.AllowCreditOverride)
		assert.Equal(t, "0 2 * * *", cfg.Scheduler.DailyCronSchedule)
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("FERREPOS_APP_PORT", "9090")
		os.Setenv("FERREPOS_DATABASE_HOST", "db.internal")
		os.Setenv("FERREPOS_SALES_RESTOCK_THRESHOLD", "25")
		os.Setenv("FERREPOS_RATE_PROVIDER_URL", "https://rates.example.com/v1")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 25, cfg.Sales.RestockThreshold)
		assert.Equal(t, "https://rates.example.com/v1", cfg.Rate.ProviderURL)
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("FERREPOS_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production requires admin code seed", func(t *testing.T) {
		clearEnv()
		os.Setenv("FERREPOS_APP_ENV", "production")
		os.Setenv("FERREPOS_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		os.Setenv("FERREPOS_DATABASE_PASSWORD", "secret")
		os.Setenv("FERREPOS_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "admin_code_seed")
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		clearEnv()
		os.Setenv("FERREPOS_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("FERREPOS_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "ferrepos",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", r.Addr())
}
