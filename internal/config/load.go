package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/studyplan-backend/internal/platform/envutil"
)

const (
	DefaultModel         = "mistralai/mistral-small-3.1-24b-instruct:free"
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
	maxRetriesCap        = 2
)

func Default() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":5000",
			ReadHeaderTimeout: Duration{5 * time.Second},
			IdleTimeout:       Duration{2 * time.Minute},
			ShutdownTimeout:   Duration{15 * time.Second},
			MaxRequestBytes:   1 << 20,
			CORSOrigins:       []string{"http://localhost:3000", "http://localhost:5173"},
		},
		DB: DBConfig{
			Driver:      "postgres",
			Port:        5432,
			SSLMode:     "disable",
			AutoMigrate: true,
		},
		LLM: LLMConfig{
			Provider:      "openrouter",
			Model:         DefaultModel,
			Timeout:       Duration{60 * time.Second},
			MaxRetries:    2,
			RetryBaseWait: Duration{500 * time.Millisecond},
			RetryMaxWait:  Duration{5 * time.Second},
			Temperature:   0.7,
		},
		Metrics: MetricsConfig{Path: "/metrics"},
		Plans: PlansConfig{
			DefaultDuration:    30,
			MaxDuration:        365,
			MaxGoalChars:       1000,
			MaxPlanChars:       32000,
			MaxProgressChars:   8000,
			MaxFeedbackChars:   4000,
			ValidateOutput:     true,
			StrictPreservation: true,
		},
	}
}

// Load reads the optional YAML file, applies environment overrides, then
// normalizes and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	cfgPath := strings.TrimSpace(os.Getenv("STUDYPLAN_CONFIG"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && os.Getenv("HTTP_ADDR") == "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.HTTP.MaxRequestBytes = int64(envutil.Int("HTTP_MAX_REQUEST_BYTES", int(cfg.HTTP.MaxRequestBytes)))
	cfg.HTTP.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.HTTP.CORSOrigins)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.DSN = envutil.String("DATABASE_URL", cfg.DB.DSN)
	cfg.DB.Host = envutil.String("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envutil.Int("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = envutil.String("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Password = envutil.String("POSTGRES_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = envutil.String("POSTGRES_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.AutoMigrate = envutil.Bool("DB_AUTO_MIGRATE", cfg.DB.AutoMigrate)

	cfg.LLM.Provider = envutil.String("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.Model = envutil.String("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.APIKey = envutil.String("LLM_API_KEY", envutil.String("OPENROUTER_API_KEY", cfg.LLM.APIKey))
	cfg.LLM.BaseURL = envutil.String("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Timeout.Duration = envutil.Duration("LLM_TIMEOUT", cfg.LLM.Timeout.Duration)
	cfg.LLM.MaxRetries = envutil.Int("LLM_MAX_RETRIES", cfg.LLM.MaxRetries)
	cfg.LLM.RateLimitRPS = envutil.Float("LLM_RATE_LIMIT_RPS", cfg.LLM.RateLimitRPS)
	cfg.LLM.RateLimitBurst = envutil.Int("LLM_RATE_LIMIT_BURST", cfg.LLM.RateLimitBurst)
	cfg.LLM.CacheTTL.Duration = envutil.Duration("LLM_CACHE_TTL", cfg.LLM.CacheTTL.Duration)
	cfg.LLM.Temperature = envutil.Float("LLM_TEMPERATURE", cfg.LLM.Temperature)

	cfg.Plans.ValidateOutput = envutil.Bool("PLANS_VALIDATE_OUTPUT", cfg.Plans.ValidateOutput)
	cfg.Plans.StrictPreservation = envutil.Bool("PLANS_STRICT_PRESERVATION", cfg.Plans.StrictPreservation)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Path = envutil.String("METRICS_PATH", cfg.Metrics.Path)
}

func (c *Config) normalize() error {
	def := Default()
	if strings.TrimSpace(c.Env) == "" {
		c.Env = def.Env
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		c.HTTP.Addr = def.HTTP.Addr
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		c.Metrics.Path = def.Metrics.Path
	}
	if c.HTTP.MaxRequestBytes <= 0 {
		c.HTTP.MaxRequestBytes = def.HTTP.MaxRequestBytes
	}
	if c.HTTP.ShutdownTimeout.Duration <= 0 {
		c.HTTP.ShutdownTimeout = def.HTTP.ShutdownTimeout
	}
	if c.HTTP.ReadHeaderTimeout.Duration <= 0 {
		c.HTTP.ReadHeaderTimeout = def.HTTP.ReadHeaderTimeout
	}

	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case "", "postgres", "postgresql":
		c.DB.Driver = "postgres"
	case "sqlite", "sqlite3":
		c.DB.Driver = "sqlite"
		if c.DB.DSN == "" {
			c.DB.DSN = "file:studyplan.db?_foreign_keys=on"
		}
	default:
		return fmt.Errorf("invalid db.driver=%q", c.DB.Driver)
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case "":
		c.LLM.Provider = "openrouter"
	case "openai_http":
		c.LLM.Provider = "oai_http"
	case "openrouter", "oai_http", "openai", "anthropic", "gemini", "mock":
	default:
		return fmt.Errorf("invalid llm.provider=%q", c.LLM.Provider)
	}
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	if c.LLM.Provider == "openrouter" && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultOpenRouterURL
	}
	if c.LLM.Provider == "oai_http" && c.LLM.BaseURL == "" {
		return errors.New("llm.base_url is required for provider oai_http")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.Timeout.Duration <= 0 {
		c.LLM.Timeout = def.LLM.Timeout
	}
	if c.LLM.MaxRetries < 0 {
		c.LLM.MaxRetries = 0
	}
	if c.LLM.MaxRetries > maxRetriesCap {
		c.LLM.MaxRetries = maxRetriesCap
	}
	if c.LLM.RetryBaseWait.Duration <= 0 {
		c.LLM.RetryBaseWait = def.LLM.RetryBaseWait
	}
	if c.LLM.RetryMaxWait.Duration <= 0 {
		c.LLM.RetryMaxWait = def.LLM.RetryMaxWait
	}
	if c.LLM.RateLimitRPS < 0 {
		return errors.New("llm.rate_limit_rps must be >= 0")
	}
	if c.LLM.RateLimitRPS > 0 && c.LLM.RateLimitBurst <= 0 {
		c.LLM.RateLimitBurst = 1
	}

	p := &c.Plans
	if p.DefaultDuration <= 0 {
		p.DefaultDuration = def.Plans.DefaultDuration
	}
	if p.MaxDuration <= 0 {
		p.MaxDuration = def.Plans.MaxDuration
	}
	if p.DefaultDuration > p.MaxDuration {
		return fmt.Errorf("plans.default_duration (%d) exceeds plans.max_duration (%d)", p.DefaultDuration, p.MaxDuration)
	}
	if p.MaxGoalChars <= 0 {
		p.MaxGoalChars = def.Plans.MaxGoalChars
	}
	if p.MaxPlanChars <= 0 {
		p.MaxPlanChars = def.Plans.MaxPlanChars
	}
	if p.MaxProgressChars <= 0 {
		p.MaxProgressChars = def.Plans.MaxProgressChars
	}
	if p.MaxFeedbackChars <= 0 {
		p.MaxFeedbackChars = def.Plans.MaxFeedbackChars
	}
	return nil
}
