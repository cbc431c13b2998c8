package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	vars := map[string]string{
		"PORT":              "9876",
		"DATABASE_USER":     "quibly",
		"DATABASE_PASSWORD": "secret",
		"DATABASE_HOST":     "localhost",
		"DATABASE_PORT":     "5432",
		"DATABASE_NAME":     "quibly",
		"DATABASE_SSL_MODE": "disable",
		"ENV":               "prod",
		"SESSION_KEY":       key,
		"JWT_SIGNING_KEY":   key,
		"ADMIN_EMAIL":       "Admin@Quibly.io",
		"SUPPORT_EMAIL":     "support@quibly.io",
		"NO_REPLY_EMAIL":    "no-reply@quibly.io",
		"EMAIL_API_KEY":     "xkeysib",
		"SITE_NAME":         "Quibly",
		"SITE_HOST":         "quibly.io",
		"MACHINE_TOKEN":     "machine",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
	for _, k := range []string{"SIGN_ON_TOKEN_TTL", "SESSION_TTL", "DRAFT_TTL", "TELEGRAM_API_TOKEN", "TELEGRAM_CHANNEL_ID", "SENTRY_DSN"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9876", cfg.Port)
	assert.Equal(t, "admin@quibly.io", cfg.AdminEmail)
	assert.Equal(t, "https://", cfg.URLProtocol)
	assert.Equal(t, time.Hour, cfg.SignOnTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12*time.Hour, cfg.DraftTTL)
	assert.Equal(t, "https://quibly.io/verify", cfg.SiteURL("/verify"))
	assert.False(t, cfg.IsDev())
	assert.Zero(t, cfg.TelegramChannelID)
}

func TestLoadConfigMissingPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Equal(t, "PORT cannot be empty", err.Error())
}

func TestLoadConfigBadSessionKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_KEY", "not base64!")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode session key")
}

func TestLoadConfigTelegramRequiresChannel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_API_TOKEN", "123:abc")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("TELEGRAM_CHANNEL_ID", "-100200300")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(-100200300), cfg.TelegramChannelID)
}

func TestLoadConfigDurations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SIGN_ON_TOKEN_TTL", "15m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.SignOnTokenTTL)

	t.Setenv("DRAFT_TTL", "-1h")
	_, err = LoadConfig()
	require.Error(t, err)

	t.Setenv("DRAFT_TTL", "soon")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigDevProtocol(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "dev")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "http://", cfg.URLProtocol)
}
