// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/platform/config"
)

/*
TestLoad_Gateway verifies defaults and required upstream settings.
*/
func TestLoad_Gateway(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("USER_SERVICE_URL", "http://users:8080")
	t.Setenv("FRIENDSHIP_SERVICE_URL", "http://friendship:8080")
	t.Setenv("CONTENT_SERVICE_URL", "http://content:8080")
	t.Setenv("BUS_CONSUMER_NAME", "gw-1")
	t.Setenv("EXTRA_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load[config.Gateway]("gateway")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "gateway", cfg.BusConsumerGroup)
	assert.Equal(t, "gateway-gw-1", cfg.KeyConsumerGroup())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.ExtraOrigins)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_MissingRequired verifies that required settings fail fast.
*/
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	_, err := config.Load[config.Store]("users")
	assert.Error(t, err)
}

/*
TestLoad_HostnameFallback verifies the consumer name default.
*/
func TestLoad_HostnameFallback(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := config.Load[config.Notification]("notification")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.BusConsumerName)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10*time.Second, cfg.AuthTimeout)
	assert.Equal(t, "notification-"+cfg.BusConsumerName, cfg.InstanceGroup())
}

/*
TestLoad_StoreDefaults verifies the pool sizing defaults and overrides.
*/
func TestLoad_StoreDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/socialnet")
	t.Setenv("DB_MIN_CONNS", "4")

	cfg, err := config.Load[config.Store]("content")
	require.NoError(t, err)

	assert.Equal(t, int32(15), cfg.DBMaxConns)
	assert.Equal(t, int32(4), cfg.DBMinConns)
	assert.Equal(t, "content", cfg.BusConsumerGroup)
}
