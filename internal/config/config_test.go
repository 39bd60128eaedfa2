package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "medicity-console", cfg.App.Name)
	assert.Equal(t, StorageMemory, cfg.Session.StorageDriver)
	assert.Equal(t, "http://localhost:3000/auth/login", cfg.Backend.LoginURL())
	assert.Equal(t, "medicity_client", cfg.Session.CookieName)
}

func TestLoadTrimsBackendSlash(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://api.local:3000/")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://api.local:3000", cfg.Backend.BaseURL)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:     AppConfig{Env: "development"},
			Backend: BackendConfig{BaseURL: "http://localhost:3000", LoginPath: "/auth/login"},
			Session: SessionConfig{StorageDriver: StorageMemory},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Session.StorageDriver = "sqlite" }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Session.StorageDriver = StoragePostgres }, wantErr: true},
		{name: "plain http in production", mutate: func(c *Config) { c.App.Env = "production" }, wantErr: true},
		{name: "https in production", mutate: func(c *Config) {
			c.App.Env = "production"
			c.Backend.BaseURL = "https://api.medicity.example"
		}},
		{name: "relative login path", mutate: func(c *Config) { c.Backend.LoginPath = "auth/login" }, wantErr: true},
		{name: "missing host", mutate: func(c *Config) { c.Backend.BaseURL = "localhost" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
