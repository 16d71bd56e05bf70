package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/safewalk")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/safewalk")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 1500.0, cfg.PlacesDefaultRadius)
	assert.Equal(t, 1, cfg.SMSMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.SMSTimeout)
	assert.Equal(t, DefaultEmergencyContacts, cfg.DefaultEmergencyContacts)
	assert.Equal(t, 60, cfg.StatsTimeWindowMinutes)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/safewalk")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_KEYS", " key-1 , ,key-2")
	t.Setenv("DEFAULT_EMERGENCY_CONTACTS", "+15555550111,+15555550112")
	t.Setenv("SMS_ENABLED", "true")
	t.Setenv("SMS_MAX_ATTEMPTS", "0")
	t.Setenv("PLACES_CACHE_TTL", "90s")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, []string{"key-1", "key-2"}, cfg.APIKeys)
	assert.Equal(t, []string{"+15555550111", "+15555550112"}, cfg.DefaultEmergencyContacts)
	assert.True(t, cfg.SMSEnabled)
	assert.Equal(t, 1, cfg.SMSMaxAttempts)
	assert.Equal(t, 90*time.Second, cfg.PlacesCacheTTL)
}

func TestLoadConfig_StartsWithoutMapsKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/safewalk")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.False(t, cfg.PlacesEnabled())

	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-key")
	cfg, err = LoadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.PlacesEnabled())
}
