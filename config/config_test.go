package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key LoadConfig reads; viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range defaults {
		t.Setenv(key, "")
	}
	t.Setenv("CONFIG_FILE", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "enrollments.db", cfg.DBName)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.SaltRound)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.False(t, cfg.Production())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_NAME", "school")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("SALT_ROUND", "12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.SaltRound)
	assert.Equal(t, "host=localhost user= password= dbname=school port=5432 sslmode=disable", cfg.DSN())
}

func TestLoadConfig_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"7000\"\nDB_LOG_LEVEL: info\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "info", cfg.DBLogLevel)

	// Environment wins over the file.
	t.Setenv("PORT", "9000")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{DBDriver: "sqlite", TokenTTL: time.Hour, SaltRound: 10, JWTKey: "secret"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, true},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, true},
		{"salt too low", func(c *Config) { c.SaltRound = 2 }, true},
		{"default key in production", func(c *Config) {
			c.Environment = "production"
			c.JWTKey = defaultJWTKey
		}, true},
		{"default key in development", func(c *Config) { c.JWTKey = defaultJWTKey }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
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

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  Config{DBDriver: "postgres", DBDSN: "postgres://x"},
			want: "postgres://x",
		},
		{
			name: "mysql",
			cfg:  Config{DBDriver: "mysql", DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n"},
			want: "u:p@tcp(db:3306)/n?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "sqlite",
			cfg:  Config{DBDriver: "sqlite", DBName: "/tmp/e.db"},
			want: "/tmp/e.db?_busy_timeout=5000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
