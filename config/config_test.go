package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("ARTSHARE_TEST_SET", "value")

	assert.Equal(t, "value", getEnv("ARTSHARE_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", getEnv("ARTSHARE_TEST_UNSET", "fallback"))
}

func TestGetIntAndBool(t *testing.T) {
	t.Setenv("ARTSHARE_TEST_INT", "42")
	t.Setenv("ARTSHARE_TEST_BAD_INT", "forty")
	t.Setenv("ARTSHARE_TEST_BOOL", "true")

	assert.Equal(t, 42, getInt("ARTSHARE_TEST_INT", 1))
	assert.Equal(t, 1, getInt("ARTSHARE_TEST_BAD_INT", 1))
	assert.Equal(t, 7, getInt("ARTSHARE_TEST_UNSET", 7))
	assert.True(t, getBool("ARTSHARE_TEST_BOOL", false))
	assert.False(t, getBool("ARTSHARE_TEST_UNSET", false))
}

func TestLoadEnvSQLiteDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")

	LoadEnv()

	assert.Equal(t, "sqlite", DB_DRIVER)
	assert.Equal(t, "artshare.db", DB_URL)
	assert.Equal(t, "secret", JWT_SECRET)
	assert.Equal(t, 20, RATE_LIMIT_PER_MINUTE)
	assert.Equal(t, "auto", MEDIA_REGION)
}
