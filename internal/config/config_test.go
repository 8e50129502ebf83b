package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "DB_TIMEOUT", "SERVER_ADDR", "SESSION_LIFETIME", "ARCHIVE_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "sabo_arena.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.False(t, cfg.Archive.Enabled())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"bad timeout", map[string]string{"DB_TIMEOUT": "soon"}},
		{"negative session lifetime", map[string]string{"SESSION_LIFETIME": "-1h"}},
		{"archive without credentials", map[string]string{"ARCHIVE_BUCKET": "brackets", "ARCHIVE_ACCESS_KEY": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
