package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "risk_backoffice", cfg.Mongo.Database)
	assert.Equal(t, 30*time.Second, cfg.Query.Timeout)
	assert.Equal(t, 24, cfg.Query.LookbackMonths)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                     "production",
		"MONGO_DB":                "risk",
		"QUERY_TIMEOUT":           "5s",
		"OVERDUE_LOOKBACK_MONTHS": "6",
		"REDIS_DB":                "2",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "risk", cfg.Mongo.Database)
	assert.Equal(t, 5*time.Second, cfg.Query.Timeout)
	assert.Equal(t, 6, cfg.Query.LookbackMonths)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestProcess_InvalidDuration(t *testing.T) {
	_, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"QUERY_TIMEOUT": "soon",
	}))
	assert.Error(t, err)
}
