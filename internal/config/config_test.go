package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:      AppConfig{Env: "local", Port: 3000},
		DB:       DBConfig{URL: "postgres://postgres:x@localhost:5432/postgres"},
		Twilio:   TwilioConfig{AccountSID: "AC1", AuthToken: "tok", FromPhone: "+15550000000"},
		Calendar: CalendarConfig{FrontendURL: "https://app.example.com"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"APP_ENV", "DB_URL", "TWILIO_ACCOUNT_SID", "FRONTEND_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err.Error())
		}
	}
}

func TestValidate_LocalConfigPasses(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_ProductionRequiresSSLModeAndJWTSecret(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected error for production without sslmode and jwt secret")
	}
	if !strings.Contains(err.Error(), "sslmode") || !strings.Contains(err.Error(), "SUPABASE_JWT_SECRET") {
		t.Fatalf("unexpected error: %v", err)
	}

	c.DB.URL += "?sslmode=require"
	c.Auth.JWTSecret = "secret"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_BlandNeedsCallbackBase(t *testing.T) {
	c := validConfig()
	c.Bland.APIKey = "key"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected BASE_URL error")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_URL", "postgres://u:p@db.example.com:5432/postgres?sslmode=require")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC1")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	t.Setenv("TWILIO_PHONE_NUMBER", "+15550000000")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("BLAND_DEFAULT_PHONE", "+380664374069")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("OUTBOUND_TIMEOUT", "")
	t.Setenv("REDIS_HOST", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", c.App.Port)
	}
	if c.HTTP.OutboundTimeout != 10*time.Second {
		t.Fatalf("expected 10s outbound timeout, got %s", c.HTTP.OutboundTimeout)
	}
	if c.Auth.JWTAudience != "authenticated" {
		t.Fatalf("expected default audience, got %q", c.Auth.JWTAudience)
	}
	if len(c.HTTP.CORSOrigins) != 3 {
		t.Fatalf("expected default cors origins, got %v", c.HTTP.CORSOrigins)
	}
	if c.Bland.DefaultPhone != "" {
		t.Fatalf("placeholder phone must be dropped in production")
	}
	if c.Calendar.FrontendURL != "https://app.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", c.Calendar.FrontendURL)
	}
	if c.RedisEnabled() {
		t.Fatalf("expected redis disabled")
	}
}

func TestLoad_RejectsBadInteger(t *testing.T) {
	t.Setenv("APP_PORT", "abc")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
