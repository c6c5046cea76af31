package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	for _, k := range []string{"PORT", "STORE_BACKEND", "DATA_FILE", "LLM_PROVIDER", "CORS_ORIGINS", "RESCAN_INTERVAL", "TIMEZONE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, "data/restaurants.json", cfg.DataFile)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.RescanInterval)
	assert.True(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173,")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	t.Setenv("RESCAN_INTERVAL", "daily")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("RESCAN_INTERVAL", "")
	t.Setenv("REDIS_DB", "one")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "file store with openai",
			cfg:  Config{StoreBackend: "file", LLMProvider: "openai", OpenAIKey: "sk"},
		},
		{
			name:    "postgres without dsn",
			cfg:     Config{StoreBackend: "postgres", LLMProvider: "openai", OpenAIKey: "sk"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "gemini without key",
			cfg:     Config{StoreBackend: "memory", LLMProvider: "gemini", GeminiModel: "m"},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "r2 bucket without credentials",
			cfg:     Config{StoreBackend: "file", LLMProvider: "openai", OpenAIKey: "sk", R2Bucket: "b"},
			wantErr: "R2_ENDPOINT, R2_ACCESS_KEY, R2_SECRET_KEY",
		},
		{
			name:    "unknown backend",
			cfg:     Config{StoreBackend: "mongo", LLMProvider: "openai"},
			wantErr: "STORE_BACKEND",
		},
		{
			name:    "unknown provider",
			cfg:     Config{StoreBackend: "file", LLMProvider: "llama"},
			wantErr: "LLM_PROVIDER",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRemoteImagesEnabled(t *testing.T) {
	r2 := Config{R2Bucket: "menus", R2PublicBaseURL: "https://cdn.example"}

	openai := r2
	openai.LLMProvider = "openai"
	assert.True(t, openai.RemoteImagesEnabled())

	gemini := r2
	gemini.LLMProvider = "gemini"
	assert.False(t, gemini.RemoteImagesEnabled())

	noPublicURL := openai
	noPublicURL.R2PublicBaseURL = ""
	assert.False(t, noPublicURL.RemoteImagesEnabled())
}
