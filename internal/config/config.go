package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Bland      BlandConfig
	ElevenLabs ElevenLabsConfig
	Twilio     TwilioConfig
	HubSpot    HubSpotConfig
	Calendar   CalendarConfig
	HTTP       HTTPConfig
}

type AppConfig struct {
	Env  string
	Port int
}

type DBConfig struct {
	// URL is the Supabase Postgres connection string.
	URL string
}

// RedisConfig is optional. When Host is empty, webhook de-duplication and
// the booking guard are disabled.
type RedisConfig struct {
	Host string
	Port int
}

// AuthConfig verifies Supabase access tokens on recruiter routes.
type AuthConfig struct {
	JWTSecret   string
	JWTAudience string
}

type BlandConfig struct {
	APIKey    string
	PathwayID string
	FromPhone string

	// CallbackBaseURL is this service's public base URL; the provider posts
	// call completion to CallbackBaseURL + "/bland/webhook".
	CallbackBaseURL string

	// DefaultPhone is a development placeholder used by /start-call when the
	// caller omits a phone. Ignored in production.
	DefaultPhone string
}

type ElevenLabsConfig struct {
	APIKey        string
	AgentID       string
	PhoneNumberID string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromPhone  string
}

type HubSpotConfig struct {
	Token string
}

type CalendarConfig struct {
	// FrontendURL is the public front-end base used in booking links.
	FrontendURL string
}

type HTTPConfig struct {
	CORSOrigins []string

	// OutboundTimeout bounds every call to a provider or the store.
	OutboundTimeout time.Duration
}

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"https://screen-iq.onrender.com",
	"https://ai-powered-candidate-screening-plat.vercel.app",
}

const (
	defaultPort            = 3000
	defaultJWTAudience     = "authenticated"
	defaultOutboundTimeout = 10 * time.Second
)

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := optionalInt("APP_PORT", defaultPort)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.DB.URL = strings.TrimSpace(os.Getenv("DB_URL"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Host != "" {
		n, err := optionalInt("REDIS_PORT", 6379)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	c.Auth.JWTSecret = os.Getenv("SUPABASE_JWT_SECRET")
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("SUPABASE_JWT_AUDIENCE"))

	c.Bland.APIKey = os.Getenv("BLAND_AI_API")
	c.Bland.PathwayID = strings.TrimSpace(os.Getenv("BLAND_PATHWAY_ID"))
	c.Bland.FromPhone = strings.TrimSpace(os.Getenv("BLAND_PHONE_FROM"))
	c.Bland.CallbackBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("BASE_URL")), "/")
	c.Bland.DefaultPhone = strings.TrimSpace(os.Getenv("BLAND_DEFAULT_PHONE"))

	c.ElevenLabs.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	c.ElevenLabs.AgentID = strings.TrimSpace(os.Getenv("ELEVENLABS_AGENT_ID"))
	c.ElevenLabs.PhoneNumberID = strings.TrimSpace(os.Getenv("ELEVENLABS_PHONE_NUMBER_ID"))

	c.Twilio.AccountSID = strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	c.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	c.Twilio.FromPhone = strings.TrimSpace(os.Getenv("TWILIO_PHONE_NUMBER"))

	c.HubSpot.Token = os.Getenv("HUBSPOT_TOKEN")

	c.Calendar.FrontendURL = strings.TrimRight(strings.TrimSpace(os.Getenv("FRONTEND_URL")), "/")

	c.HTTP.CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))
	{
		d, err := optionalDuration("OUTBOUND_TIMEOUT")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.HTTP.OutboundTimeout = d
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	return c, nil
}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.DB.URL == "" {
		errs = append(errs, errors.New("DB_URL is required"))
	} else if u, err := url.Parse(c.DB.URL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		errs = append(errs, errors.New("DB_URL must be a postgres:// connection string"))
	} else if c.IsProduction() && u.Query().Get("sslmode") == "" {
		errs = append(errs, errors.New("DB_URL must set sslmode in production"))
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	if c.IsProduction() && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("SUPABASE_JWT_SECRET is required in production"))
	}

	if c.Twilio.AccountSID == "" {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID is required"))
	}
	if c.Twilio.AuthToken == "" {
		errs = append(errs, errors.New("TWILIO_AUTH_TOKEN is required"))
	}
	if c.Twilio.FromPhone == "" {
		errs = append(errs, errors.New("TWILIO_PHONE_NUMBER is required"))
	}

	if c.Calendar.FrontendURL == "" {
		errs = append(errs, errors.New("FRONTEND_URL is required"))
	}
	if c.Bland.APIKey != "" && c.Bland.CallbackBaseURL == "" {
		errs = append(errs, errors.New("BASE_URL is required when BLAND_AI_API is set"))
	}

	if c.HTTP.OutboundTimeout < 0 {
		errs = append(errs, errors.New("OUTBOUND_TIMEOUT must not be negative"))
	}

	return joinErrors(errs)
}

func (c *Config) applyDefaults() {
	if c.Auth.JWTAudience == "" {
		c.Auth.JWTAudience = defaultJWTAudience
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = append([]string(nil), defaultCORSOrigins...)
	}
	if c.HTTP.OutboundTimeout <= 0 {
		c.HTTP.OutboundTimeout = defaultOutboundTimeout
	}
	if c.IsProduction() {
		// The placeholder number is a development artifact.
		c.Bland.DefaultPhone = ""
	}
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// PostgresDSN returns the store connection string. Avoid logging it; it contains secrets.
func (c Config) PostgresDSN() string {
	return c.DB.URL
}

func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// WebhookURL is where the voice provider posts call completion.
func (c Config) WebhookURL() string {
	return c.Bland.CallbackBaseURL + "/bland/webhook"
}

func optionalInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalDuration(key string) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
