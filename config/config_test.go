package config

import (
	"testing"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()

	v.Reset()
	t.Cleanup(v.Reset)

	for k, val := range env {
		t.Setenv(k, val)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"JWT_SECRET": "secret",
		"DB_URL":     "gifts.db",
	})

	require.NoError(t, Load())

	assert.Equal(t, 3060, v.GetInt("host.port"))
	assert.Equal(t, "sqlite", v.GetString("db.type"))
	assert.Equal(t, "giftdb", v.GetString("db.name"))
	assert.Equal(t, "2h0m0s", v.GetDuration("jwt.validity").String())
	assert.Equal(t, "bcrypt", v.GetString("security.password_hash"))
	assert.True(t, v.GetBool("gifts.require_auth"))
	assert.Equal(t, "none", v.GetString("cache.type"))
	assert.EqualValues(t, 5<<20, v.GetInt64("upload.max_size"))
}

func TestLoadMongoURL(t *testing.T) {
	setEnv(t, map[string]string{
		"JWT_SECRET": "secret",
		"DB_TYPE":    "mongo",
		"MONGO_URL":  "mongodb://localhost:27017",
	})

	require.NoError(t, Load())
	assert.Equal(t, "mongodb://localhost:27017", v.GetString("db.url"))
}

func TestLoadErrors(t *testing.T) {
	base := map[string]string{
		"JWT_SECRET": "secret",
		"DB_URL":     "gifts.db",
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}, ErrNoJWTSecret},
		{"missing db url", map[string]string{"DB_URL": ""}, ErrNoDatabaseURL},
		{"unknown db type", map[string]string{"DB_TYPE": "oracle"}, ErrInvalidDBType},
		{"bad log level", map[string]string{"APP_LOG_LEVEL": "loud"}, nil},
		{"bad hasher", map[string]string{"SECURITY_PASSWORD_HASH": "md5"}, nil},
		{"redis without url", map[string]string{"CACHE_TYPE": "redis"}, nil},
		{"unknown cache", map[string]string{"CACHE_TYPE": "disk"}, nil},
		{"storage without bucket", map[string]string{"STORAGE_ENABLED": "true"}, nil},
		{"negative rate limit", map[string]string{"SECURITY_RATE_LIMIT": "-1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{}
			for k, val := range base {
				env[k] = val
			}
			for k, val := range tt.env {
				env[k] = val
			}
			setEnv(t, env)

			err := Load()
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
