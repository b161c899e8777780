package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("APP_BASE_URL", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("GATEWAY_PRODUCTION", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:3000", cfg.AppBaseURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.Gateway.Production)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://catering.example.com/")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("GATEWAY_PRODUCTION", "true")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	assert.Equal(t, "https://catering.example.com", cfg.AppBaseURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.Gateway.Production)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("GATEWAY_PRODUCTION", "maybe")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.Gateway.Production)
}

func TestValidate_JWTSecret(t *testing.T) {
	cases := []struct {
		env, secret string
		weak        bool
		wantErr     bool
	}{
		{"production", DefaultJWTSecret, true, true},
		{"production", "  ", true, true},
		{"prod", "", true, true},
		{"production", "d41d8cd98f00b204e9800998ecf8427e", false, false},
		{"local", DefaultJWTSecret, true, false},
		{"local", "", true, false},
	}
	for _, tc := range cases {
		cfg := Config{AppEnv: tc.env, JWTSecret: tc.secret}
		assert.Equal(t, tc.weak, cfg.WeakJWTSecret(), "%s/%q", tc.env, tc.secret)
		if tc.wantErr {
			assert.ErrorIs(t, cfg.Validate(), ErrWeakJWTSecret, "%s/%q", tc.env, tc.secret)
		} else {
			assert.NoError(t, cfg.Validate(), "%s/%q", tc.env, tc.secret)
		}
	}
}

func TestLoad_DefaultSecretIsRefusedInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.ErrorIs(t, cfg.Validate(), ErrWeakJWTSecret)
}
