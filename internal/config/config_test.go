package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.Port == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}

// --- Load defaults ---

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "5050" {
		t.Fatalf("PORT default = %q; want 5050", cfg.Port)
	}
	if cfg.LLM.Provider != ProviderOpenAI || cfg.LLM.OpenAIModel != "gpt-4o" {
		t.Fatalf("llm defaults unexpected: %+v", cfg.LLM)
	}
	if cfg.LLM.MaxTokens != 4096 || cfg.LLM.Temperature != 0.4 || cfg.LLM.MaxAttempts != 1 || cfg.LLM.Timeout != 90*time.Second {
		t.Fatalf("llm generation defaults unexpected: %+v", cfg.LLM)
	}
	if cfg.Weather.Timeout != 10*time.Second || !cfg.Weather.Enabled || cfg.Weather.PerMinute != 60 {
		t.Fatalf("weather defaults unexpected: %+v", cfg.Weather)
	}
	if cfg.Mail.MaxAttempts != 3 || cfg.Mail.BackoffUnit != time.Second || cfg.Mail.Timeout != 30*time.Second || cfg.Mail.Transport != TransportSMTP {
		t.Fatalf("mail defaults unexpected: %+v", cfg.Mail)
	}
	if cfg.Plan.Days != 7 || !cfg.Plan.AgeAware {
		t.Fatalf("plan defaults unexpected: %+v", cfg.Plan)
	}
	if cfg.DiagDBPath != "" {
		t.Fatalf("diagnostics log should be disabled by default")
	}
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "30s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")

	// LLM (bad parses fall back to defaults)
	t.Setenv("LLM_PROVIDER", " Gemini ")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("LLM_MAX_TOKENS", "nope")
	t.Setenv("OPENAI_BASE_URL", "http://llm.local/v1/")
	t.Setenv("LLM_TIMEOUT", "20s")

	// Weather
	t.Setenv("WEATHER_API_KEY", "w-key")
	t.Setenv("WEATHER_TIMEOUT", "3s")
	t.Setenv("WEATHER_RATE_PER_MINUTE", "0")

	// Mail: port defaults to 587 when a host is set
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "user")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("SMTP_FROM", "plans@example.com")
	t.Setenv("MAIL_BACKOFF_UNIT", "10ms")

	t.Setenv("PLAN_DAYS", "1")
	t.Setenv("AGE_AWARE_PROMPTS", "off")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 30*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// LLM
	if cfg.LLM.Provider != ProviderGemini || cfg.LLM.APIKey() != "g-key" || !cfg.LLM.Configured() {
		t.Fatalf("llm provider unexpected: %+v", cfg.LLM)
	}
	if cfg.LLM.MaxTokens != 4096 {
		t.Fatalf("LLM_MAX_TOKENS should fall back to default, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.OpenAIBaseURL != "http://llm.local/v1" {
		t.Fatalf("OPENAI_BASE_URL trailing slash not trimmed: %q", cfg.LLM.OpenAIBaseURL)
	}

	// Weather
	if !cfg.Weather.Configured() || cfg.Weather.Timeout != 3*time.Second || cfg.Weather.PerMinute != 0 {
		t.Fatalf("weather unexpected: %+v", cfg.Weather)
	}

	// Mail
	if cfg.Mail.Port != 587 || !cfg.Mail.Configured() || cfg.Mail.BackoffUnit != 10*time.Millisecond {
		t.Fatalf("mail unexpected: %+v", cfg.Mail)
	}

	if cfg.Plan.Days != 1 || cfg.Plan.AgeAware {
		t.Fatalf("plan unexpected: %+v", cfg.Plan)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_DebugForcesGinDebug(t *testing.T) {
	t.Setenv("DEBUG", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Debug || cfg.GinMode != "debug" {
		t.Fatalf("DEBUG should switch gin to debug mode, got %+v", cfg)
	}
}

// --- Configured predicates ---

func TestMailConfig_Configured(t *testing.T) {
	full := MailConfig{Enabled: true, Transport: TransportSMTP, Host: "h", Port: 465, Username: "u", Password: "p", From: "f@x.io"}
	if !full.Configured() {
		t.Fatalf("complete smtp config should be configured")
	}
	for name, mut := range map[string]func(*MailConfig){
		"no host":     func(c *MailConfig) { c.Host = "" },
		"no port":     func(c *MailConfig) { c.Port = 0 },
		"no user":     func(c *MailConfig) { c.Username = " " },
		"no password": func(c *MailConfig) { c.Password = "" },
		"no from":     func(c *MailConfig) { c.From = "" },
		"disabled":    func(c *MailConfig) { c.Enabled = false },
	} {
		c := full
		mut(&c)
		if c.Configured() {
			t.Fatalf("%s: expected not configured", name)
		}
	}

	ses := MailConfig{Enabled: true, Transport: TransportSES, SESRegion: "eu-west-1", From: "f@x.io"}
	if !ses.Configured() {
		t.Fatalf("ses with region and from should be configured")
	}
	ses.SESRegion = ""
	if ses.Configured() {
		t.Fatalf("ses without region should not be configured")
	}
}

func TestWeatherConfig_Configured(t *testing.T) {
	if (WeatherConfig{Enabled: true}).Configured() {
		t.Fatalf("missing key should not be configured")
	}
	if (WeatherConfig{Enabled: false, APIKey: "k"}).Configured() {
		t.Fatalf("disabled enrichment should not be configured")
	}
	if !(WeatherConfig{Enabled: true, APIKey: "k"}).Configured() {
		t.Fatalf("enabled with key should be configured")
	}
}

func TestLLMConfig_APIKeyFollowsProvider(t *testing.T) {
	c := LLMConfig{Provider: ProviderOpenAI, OpenAIKey: "o", GeminiKey: "g"}
	if c.APIKey() != "o" {
		t.Fatalf("openai key expected")
	}
	c.Provider = ProviderGemini
	if c.APIKey() != "g" {
		t.Fatalf("gemini key expected")
	}
	c.GeminiKey = "  "
	if c.Configured() {
		t.Fatalf("blank key should not count as configured")
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name, key, val, want string
	}{
		{"invalid LOG_LEVEL", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"empty PORT via spaces", "PORT", "   ", "PORT must not be empty"},
		{"non-positive timeouts", "READ_TIMEOUT", "0s", "timeouts must be positive"},
		{"max header bytes <= 0", "MAX_HEADER_BYTES", "0", "MAX_HEADER_BYTES"},
		{"unknown provider", "LLM_PROVIDER", "llama", "LLM_PROVIDER"},
		{"llm timeout", "LLM_TIMEOUT", "-1s", "LLM_TIMEOUT"},
		{"max tokens", "LLM_MAX_TOKENS", "0", "LLM_MAX_TOKENS"},
		{"temperature", "LLM_TEMPERATURE", "3", "LLM_TEMPERATURE"},
		{"mail attempts", "MAIL_MAX_ATTEMPTS", "0", "MAIL_MAX_ATTEMPTS"},
		{"backoff unit", "MAIL_BACKOFF_UNIT", "-1s", "MAIL_BACKOFF_UNIT"},
		{"transport", "MAIL_TRANSPORT", "pigeon", "MAIL_TRANSPORT"},
		{"plan days", "PLAN_DAYS", "3", "PLAN_DAYS"},
		{"hsts max age negative", "HSTS_MAX_AGE", "-1s", "HSTS_MAX_AGE"},
		{"otel sample ratio out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
		{"weather rate", "WEATHER_RATE_PER_MINUTE", "-1", "WEATHER_RATE_PER_MINUTE"},
		{"llm retries outlast write timeout", "LLM_MAX_ATTEMPTS", "2", "WRITE_TIMEOUT"},
		{"write timeout below llm timeout", "WRITE_TIMEOUT", "60s", "WRITE_TIMEOUT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected %s validation error, got: %v", tc.want, err)
			}
		})
	}
}

func TestRequestBudget(t *testing.T) {
	cases := []struct {
		name     string
		attempts int
		want     time.Duration
	}{
		{"single attempt", 1, 10*time.Second + 90*time.Second},
		{"two attempts add one wait", 2, 10*time.Second + 180*time.Second + LLMBackoffUnit},
		{"three attempts add doubling waits", 3, 10*time.Second + 270*time.Second + 3*LLMBackoffUnit},
		{"zero treated as one", 0, 100 * time.Second},
	}
	for _, tc := range cases {
		cfg := Config{
			LLM:     LLMConfig{Timeout: 90 * time.Second, MaxAttempts: tc.attempts},
			Weather: WeatherConfig{Timeout: 10 * time.Second},
		}
		if got := cfg.RequestBudget(); got != tc.want {
			t.Fatalf("%s: budget = %s; want %s", tc.name, got, tc.want)
		}
	}
}

func TestLoad_RetriesFitInsideLongerWriteTimeout(t *testing.T) {
	t.Setenv("LLM_MAX_ATTEMPTS", "2")
	t.Setenv("WRITE_TIMEOUT", "200s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.WriteTimeout <= cfg.RequestBudget() {
		t.Fatalf("write timeout %s does not cover budget %s", cfg.WriteTimeout, cfg.RequestBudget())
	}
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	for i, v := range trueVals {
		k := "B_T_" + keySuffix(i)
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	falseVals := []string{"0", "false", "FALSE", " no ", "N", "off", "Off"}
	for i, v := range falseVals {
		k := "B_F_" + keySuffix(i)
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	in := " a, ,b ,  c  ,"
	want := []string{"a", "b", "c"}
	if got := splitCSV(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV mismatch: got %#v want %#v", got, want)
	}
}

func keySuffix(i int) string { return string('a' + rune(i)) }

// Ensure tests don't leak env to others.
func TestMain(m *testing.M) {
	for _, k := range []string{
		"PORT", "DEBUG", "LLM_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"SMTP_HOST", "SMTP_PORT", "PLAN_DAYS", "MAIL_TRANSPORT",
	} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}
