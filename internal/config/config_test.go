package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("OTP_DIGITS", "")
	t.Setenv("MAIL_SEND_TIMEOUT", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 4, cfg.OTPDigits)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.Mail.SendTimeout)
	assert.False(t, cfg.Cookie.Secure)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MAIL_SEND_TIMEOUT", "2s")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "off")

	cfg := Load()

	assert.Equal(t, StoreMySQL, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2*time.Second, cfg.Mail.SendTimeout)
	assert.False(t, cfg.TelemetryInsecure)
	assert.True(t, cfg.Cookie.Secure, "cookies are secure in production by default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		secret  string
	}{
		{
			name:   "development falls back to a local secret",
			cfg:    Config{Environment: "development", StoreDriver: StoreMongo, OTPDigits: 4, Mail: MailConfig{SendTimeout: time.Second}},
			secret: "change-me",
		},
		{
			name:    "production requires a secret",
			cfg:     Config{Environment: "production", StoreDriver: StoreMongo, OTPDigits: 4, Mail: MailConfig{SendTimeout: time.Second}},
			wantErr: true,
		},
		{
			name:   "production with secret and mail host",
			cfg:    Config{Environment: "production", StoreDriver: StoreMongo, JWTSecret: "s", OTPDigits: 4, Mail: MailConfig{Host: "smtp.example.com", SendTimeout: time.Second}},
			secret: "s",
		},
		{
			name:    "production requires a mail host",
			cfg:     Config{Environment: "production", StoreDriver: StoreMongo, JWTSecret: "s", OTPDigits: 4, Mail: MailConfig{SendTimeout: time.Second}},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			cfg:     Config{Environment: "development", StoreDriver: "sqlite", OTPDigits: 4, Mail: MailConfig{SendTimeout: time.Second}},
			wantErr: true,
		},
		{
			name:    "non-positive otp digits",
			cfg:     Config{Environment: "development", StoreDriver: StorePostgres, JWTSecret: "s", Mail: MailConfig{SendTimeout: time.Second}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.JWTSecret)
		})
	}
}
