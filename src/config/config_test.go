package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TIME_ZONE", "")
	t.Setenv("ACTIVITY_TTL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "premid:activity", cfg.ActivityKey)
	assert.Equal(t, 24*time.Hour, cfg.ActivityTTL)
	assert.Equal(t, "Africa/Kigali", cfg.TimeZone)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "Africa/Kigali", cfg.Location.String())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TIME_ZONE", "Europe/Paris")
	t.Setenv("ACTIVITY_TTL", "90m")
	t.Setenv("VALKEY_DB", "3")
	t.Setenv("STORE_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Paris", cfg.Location.String())
	assert.Equal(t, 90*time.Minute, cfg.ActivityTTL)
	assert.Equal(t, 3, cfg.ValkeyDB)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout, "empty values use the default")
}

func TestLoadRejectsUnknownZone(t *testing.T) {
	t.Setenv("TIME_ZONE", "Mars/Olympus_Mons")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNegativeTTL(t *testing.T) {
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("ACTIVITY_TTL", "-1h")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"ACTIVITY_TTL":          "abc",
		"STORE_TIMEOUT":         "3",
		"TRANSLATION_CACHE_TTL": "1 hour",
		"VALKEY_DB":             "zero",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("TIME_ZONE", "UTC")
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
