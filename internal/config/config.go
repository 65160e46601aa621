// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, the LLM provider, weather enrichment, mail delivery, document
// rendering and observability settings.
//
// The resulting Config is loaded once at process start and injected by value
// into every component; nothing reads the environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Supported mail transports.
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// LLMConfig selects and parameterizes the plan generator.
type LLMConfig struct {
	Provider      string        // LLM_PROVIDER: openai|gemini
	OpenAIKey     string        // OPENAI_API_KEY
	OpenAIModel   string        // OPENAI_MODEL
	OpenAIBaseURL string        // OPENAI_BASE_URL
	GeminiKey     string        // GEMINI_API_KEY
	GeminiModel   string        // GEMINI_MODEL
	Timeout       time.Duration // LLM_TIMEOUT
	MaxTokens     int           // LLM_MAX_TOKENS
	Temperature   float64       // LLM_TEMPERATURE
	MaxAttempts   int           // LLM_MAX_ATTEMPTS
}

// APIKey returns the key of the selected provider.
func (c LLMConfig) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

// Configured reports whether the selected provider has a key.
func (c LLMConfig) Configured() bool { return strings.TrimSpace(c.APIKey()) != "" }

// LLMBackoffUnit is the base wait between LLM attempts; it doubles per retry.
const LLMBackoffUnit = time.Second

// Worst returns the longest a Generate call can take: every attempt timing
// out plus the waits between them.
func (c LLMConfig) Worst() time.Duration {
	n := c.MaxAttempts
	if n < 1 {
		n = 1
	}
	total := time.Duration(n) * c.Timeout
	for i := 0; i < n-1; i++ {
		total += LLMBackoffUnit << i
	}
	return total
}

// WeatherConfig parameterizes the geo-weather enricher.
type WeatherConfig struct {
	Enabled bool          // WEATHER_ENABLED
	APIKey  string        // WEATHER_API_KEY
	BaseURL string        // WEATHER_BASE_URL
	Timeout time.Duration // WEATHER_TIMEOUT
	// PerMinute caps outbound lookups (WEATHER_RATE_PER_MINUTE); 0 disables.
	// The OpenWeatherMap free tier allows 60.
	PerMinute int
}

// Configured reports whether enrichment can run at all.
func (c WeatherConfig) Configured() bool { return c.Enabled && strings.TrimSpace(c.APIKey) != "" }

// MailConfig parameterizes the delivery dispatcher.
type MailConfig struct {
	Enabled     bool          // DELIVERY_ENABLED
	Transport   string        // MAIL_TRANSPORT: smtp|ses
	Host        string        // SMTP_HOST
	Port        int           // SMTP_PORT
	Username    string        // SMTP_USER
	Password    string        // SMTP_PASS
	From        string        // SMTP_FROM
	SESRegion   string        // SES_REGION
	Timeout     time.Duration // MAIL_TIMEOUT (per attempt)
	MaxAttempts int           // MAIL_MAX_ATTEMPTS
	BackoffUnit time.Duration // MAIL_BACKOFF_UNIT
}

// Configured reports whether every credential required by the transport is present.
func (c MailConfig) Configured() bool {
	if !c.Enabled || strings.TrimSpace(c.From) == "" {
		return false
	}
	if c.Transport == TransportSES {
		return strings.TrimSpace(c.SESRegion) != ""
	}
	return strings.TrimSpace(c.Host) != "" &&
		c.Port > 0 &&
		strings.TrimSpace(c.Username) != "" &&
		c.Password != ""
}

// PlanConfig toggles prompt variants.
type PlanConfig struct {
	Days     int  // PLAN_DAYS: 1 or 7
	AgeAware bool // AGE_AWARE_PROMPTS
}

// DocumentConfig parameterizes the PDF renderer.
type DocumentConfig struct {
	FontDir string // FONT_DIR
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	Debug             bool          // DEBUG exposes verbose diagnostics
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must exceed RequestBudget
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	StaticDir      string // landing page assets

	// Pipeline
	LLM      LLMConfig
	Weather  WeatherConfig
	Mail     MailConfig
	Plan     PlanConfig
	Document DocumentConfig

	// Diagnostics log (empty disables)
	DiagDBPath string

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// RequestBudget is the longest the synchronous part of a plan request can
// run: a weather lookup followed by the LLM call with all its retries.
func (c Config) RequestBudget() time.Duration {
	return c.Weather.Timeout + c.LLM.Worst()
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "5050"),
		Debug:             getbool("DEBUG", false),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		StaticDir:      getenv("STATIC_DIR", "static"),

		LLM: LLMConfig{
			Provider:      strings.ToLower(strings.TrimSpace(getenv("LLM_PROVIDER", ProviderOpenAI))),
			OpenAIKey:     getenv("OPENAI_API_KEY", ""),
			OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o"),
			OpenAIBaseURL: strings.TrimRight(getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
			GeminiKey:     getenv("GEMINI_API_KEY", ""),
			GeminiModel:   getenv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:       getdur("LLM_TIMEOUT", 90*time.Second),
			MaxTokens:     getint("LLM_MAX_TOKENS", 4096),
			Temperature:   getfloat("LLM_TEMPERATURE", 0.4),
			MaxAttempts:   getint("LLM_MAX_ATTEMPTS", 1),
		},
		Weather: WeatherConfig{
			Enabled:   getbool("WEATHER_ENABLED", true),
			APIKey:    getenv("WEATHER_API_KEY", ""),
			BaseURL:   strings.TrimRight(getenv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"), "/"),
			Timeout:   getdur("WEATHER_TIMEOUT", 10*time.Second),
			PerMinute: getint("WEATHER_RATE_PER_MINUTE", 60),
		},
		Mail: MailConfig{
			Enabled:     getbool("DELIVERY_ENABLED", true),
			Transport:   strings.ToLower(strings.TrimSpace(getenv("MAIL_TRANSPORT", TransportSMTP))),
			Host:        getenv("SMTP_HOST", ""),
			Port:        getint("SMTP_PORT", 0),
			Username:    getenv("SMTP_USER", ""),
			Password:    getenv("SMTP_PASS", ""),
			From:        getenv("SMTP_FROM", ""),
			SESRegion:   getenv("SES_REGION", ""),
			Timeout:     getdur("MAIL_TIMEOUT", 30*time.Second),
			MaxAttempts: getint("MAIL_MAX_ATTEMPTS", 3),
			BackoffUnit: getdur("MAIL_BACKOFF_UNIT", time.Second),
		},
		Plan: PlanConfig{
			Days:     getint("PLAN_DAYS", 7),
			AgeAware: getbool("AGE_AWARE_PROMPTS", true),
		},
		Document: DocumentConfig{
			FontDir: getenv("FONT_DIR", "fonts"),
		},

		DiagDBPath: getenv("DIAG_DB_PATH", ""),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "diet-plan-service"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.Debug && cfg.GinMode == "release" {
		cfg.GinMode = "debug"
	}
	if cfg.Mail.Port == 0 && cfg.Mail.Host != "" {
		cfg.Mail.Port = 587
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return cfg, errors.New("LLM_PROVIDER must be one of: openai, gemini")
	}
	if cfg.LLM.Timeout <= 0 || cfg.Weather.Timeout <= 0 || cfg.Mail.Timeout <= 0 {
		return cfg, errors.New("LLM_TIMEOUT, WEATHER_TIMEOUT and MAIL_TIMEOUT must be positive")
	}
	if cfg.LLM.MaxTokens <= 0 {
		return cfg, errors.New("LLM_MAX_TOKENS must be > 0")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return cfg, errors.New("LLM_TEMPERATURE must be between 0 and 2")
	}
	if cfg.LLM.MaxAttempts < 1 || cfg.Mail.MaxAttempts < 1 {
		return cfg, errors.New("LLM_MAX_ATTEMPTS and MAIL_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.Weather.PerMinute < 0 {
		return cfg, errors.New("WEATHER_RATE_PER_MINUTE must be >= 0")
	}
	if budget := cfg.RequestBudget(); cfg.WriteTimeout <= budget {
		return cfg, fmt.Errorf("WRITE_TIMEOUT (%s) must exceed LLM_TIMEOUT x LLM_MAX_ATTEMPTS + backoff + WEATHER_TIMEOUT (%s)", cfg.WriteTimeout, budget)
	}
	if cfg.Mail.BackoffUnit < 0 {
		return cfg, errors.New("MAIL_BACKOFF_UNIT must be >= 0")
	}
	switch cfg.Mail.Transport {
	case TransportSMTP, TransportSES:
	default:
		return cfg, errors.New("MAIL_TRANSPORT must be one of: smtp, ses")
	}
	if cfg.Plan.Days != 1 && cfg.Plan.Days != 7 {
		return cfg, errors.New("PLAN_DAYS must be 1 or 7")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
