package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTPPort)
	assert.Equal(t, 9100, cfg.MetricsPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "bot.message.new", cfg.PushSubject)
	assert.False(t, cfg.CNAMEnabled)
	assert.False(t, cfg.AdminEnabled)
	assert.Equal(t, 200, cfg.AdminDefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DispatchTimeout())

	// No code or template configured: the coupon feature stays off.
	assert.False(t, cfg.CouponConfigured())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_HTTP_PORT", "4000")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_CNAM_ENABLED", "true")

	// Keys with empty-string defaults must still pick up their environment
	// overrides; these gate whole features, so a miss here silently disables
	// the coupon, the classifier and admin auth.
	t.Setenv("APP_COUPON_CODE", "SAVE20")
	t.Setenv("APP_COUPON_TEMPLATE", "Use code {code} for 20% off.")
	t.Setenv("APP_INTENT_API_URL", "https://api.example.com/query")
	t.Setenv("APP_INTENT_API_TOKEN", "test-token")
	t.Setenv("APP_IDENTITY_API_URL", "https://api.example.com/ni")
	t.Setenv("APP_IDENTITY_API_KEY", "id-key")
	t.Setenv("APP_IDENTITY_API_SECRET", "id-secret")
	t.Setenv("APP_SMS_API_URL", "https://rest.example.com/sms")
	t.Setenv("APP_SMS_API_KEY", "sms-key")
	t.Setenv("APP_SMS_API_SECRET", "sms-secret")
	t.Setenv("APP_ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.CNAMEnabled)

	assert.Equal(t, "SAVE20", cfg.CouponCode)
	assert.Equal(t, "Use code {code} for 20% off.", cfg.CouponTemplate)
	assert.True(t, cfg.CouponConfigured())

	assert.Equal(t, "https://api.example.com/query", cfg.IntentAPIURL)
	assert.Equal(t, "test-token", cfg.IntentAPIToken)
	assert.Equal(t, "https://api.example.com/ni", cfg.IdentityAPIURL)
	assert.Equal(t, "id-key", cfg.IdentityAPIKey)
	assert.Equal(t, "id-secret", cfg.IdentityAPISecret)
	assert.Equal(t, "https://rest.example.com/sms", cfg.SMSAPIURL)
	assert.Equal(t, "sms-key", cfg.SMSAPIKey)
	assert.Equal(t, "sms-secret", cfg.SMSAPISecret)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", cfg.AdminPasswordHash)
}
