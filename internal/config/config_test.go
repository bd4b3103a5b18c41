package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv() map[string]string {
	return map[string]string{
		"DB_DRIVER":            "sqlite",
		"DATABASE_URL":         "file::memory:",
		"ACCESS_TOKEN_SECRET":  "access",
		"REFRESH_TOKEN_SECRET": "refresh",
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(validEnv())
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpiry)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.CSRFEnabled)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "user_events", cfg.Kafka.Topic)
}

func TestParse_Overrides(t *testing.T) {
	t.Parallel()

	e := validEnv()
	e["PORT"] = "9000"
	e["ACCESS_TOKEN_EXPIRY"] = "5m"
	e["REFRESH_TOKEN_EXPIRY"] = "24h"
	e["CORS_ORIGIN"] = "http://a.test,http://b.test"
	e["COOKIE_SECURE"] = "false"
	e["CSRF_ENABLED"] = "true"
	e["S3_ENDPOINT"] = "http://minio:9000"
	e["S3_BUCKET"] = "pics"
	e["KAFKA_BROKERS"] = "k1:9092,k2:9092"

	cfg, err := Parse(e)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.CSRFEnabled)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "pics", cfg.S3.Bucket)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{name: "unknown driver", mutate: func(e map[string]string) { e["DB_DRIVER"] = "oracle" }},
		{name: "no database url", mutate: func(e map[string]string) { delete(e, "DATABASE_URL") }},
		{name: "no access secret", mutate: func(e map[string]string) { delete(e, "ACCESS_TOKEN_SECRET") }},
		{name: "no refresh secret", mutate: func(e map[string]string) { delete(e, "REFRESH_TOKEN_SECRET") }},
		{name: "same secrets", mutate: func(e map[string]string) { e["REFRESH_TOKEN_SECRET"] = "access" }},
		{name: "access outlives refresh", mutate: func(e map[string]string) {
			e["ACCESS_TOKEN_EXPIRY"] = "48h"
			e["REFRESH_TOKEN_EXPIRY"] = "24h"
		}},
		{name: "zero expiry", mutate: func(e map[string]string) { e["ACCESS_TOKEN_EXPIRY"] = "0s" }},
		{name: "bad duration", mutate: func(e map[string]string) { e["ACCESS_TOKEN_EXPIRY"] = "1d" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEnv()
			tt.mutate(e)
			_, err := Parse(e)
			require.Error(t, err)
		})
	}
}
