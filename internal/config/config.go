package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

type Config struct {
	Env  string
	Port string

	StoreBackend string
	DataFile     string
	BackupDir    string
	DatabaseURL  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	R2Endpoint      string
	R2AccessKey     string
	R2SecretKey     string
	R2Bucket        string
	R2PublicBaseURL string

	LLMProvider   string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiModel   string

	CORSOrigins    []string
	Timezone       *time.Location
	FetchTimeout   time.Duration
	RescanInterval time.Duration
	APIURL         string
}

// Load reads the environment, loading .env first outside production.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Env:  getEnvOrDefault("APP_ENV", "development"),
		Port: getEnvOrDefault("PORT", "8000"),

		StoreBackend: strings.ToLower(getEnvOrDefault("STORE_BACKEND", "file")),
		DataFile:     getEnvOrDefault("DATA_FILE", "data/restaurants.json"),
		BackupDir:    getEnvOrDefault("BACKUP_DIR", "data/backups"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		R2Endpoint:      os.Getenv("R2_ENDPOINT"),
		R2AccessKey:     os.Getenv("R2_ACCESS_KEY"),
		R2SecretKey:     os.Getenv("R2_SECRET_KEY"),
		R2Bucket:        os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),

		LLMProvider:   strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "openai")),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		APIURL:      getEnvOrDefault("API_URL", "http://localhost:8000"),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnvOrDefault("REDIS_DB", "0")); err != nil {
		return nil, eris.Wrap(err, "REDIS_DB")
	}
	if cfg.Timezone, err = time.LoadLocation(getEnvOrDefault("TIMEZONE", "Local")); err != nil {
		return nil, eris.Wrap(err, "TIMEZONE")
	}
	if cfg.FetchTimeout, err = time.ParseDuration(getEnvOrDefault("FETCH_TIMEOUT", "30s")); err != nil {
		return nil, eris.Wrap(err, "FETCH_TIMEOUT")
	}
	if cfg.RescanInterval, err = time.ParseDuration(getEnvOrDefault("RESCAN_INTERVAL", "24h")); err != nil {
		return nil, eris.Wrap(err, "RESCAN_INTERVAL")
	}

	return cfg, nil
}

// Validate checks that the variables the chosen backends need are set.
func (c *Config) Validate() error {
	var required []string

	switch c.StoreBackend {
	case "file", "memory":
	case "postgres":
		required = append(required, "DATABASE_URL")
	case "redis":
		required = append(required, "REDIS_ADDR")
	default:
		return eris.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.LLMProvider {
	case "openai":
		required = append(required, "OPENAI_API_KEY")
	case "gemini":
		required = append(required, "GEMINI_API_KEY", "GEMINI_MODEL")
	default:
		return eris.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.R2Enabled() {
		required = append(required, "R2_ENDPOINT", "R2_ACCESS_KEY", "R2_SECRET_KEY")
	}

	values := map[string]string{
		"DATABASE_URL":   c.DatabaseURL,
		"REDIS_ADDR":     c.RedisAddr,
		"OPENAI_API_KEY": c.OpenAIKey,
		"GEMINI_API_KEY": c.GeminiKey,
		"GEMINI_MODEL":   c.GeminiModel,
		"R2_ENDPOINT":    c.R2Endpoint,
		"R2_ACCESS_KEY":  c.R2AccessKey,
		"R2_SECRET_KEY":  c.R2SecretKey,
	}

	var missing []string
	for _, k := range required {
		if values[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// R2Enabled reports whether an R2 bucket is configured for backups and
// image uploads.
func (c *Config) R2Enabled() bool {
	return c.R2Bucket != ""
}

// RemoteImagesEnabled reports whether uploaded menu images should be sent to
// the model by public R2 URL. Gemini only accepts inline image data.
func (c *Config) RemoteImagesEnabled() bool {
	return c.R2Enabled() && c.R2PublicBaseURL != "" && c.LLMProvider == "openai"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
