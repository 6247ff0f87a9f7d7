// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles service-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
Go structs, providing early validation and default values. Every binary has
its own struct embedding [Common].

Usage:

	cfg, err := config.Load[config.Gateway]("gateway")
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, upstreams) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Common holds the settings shared by every binary.
type Common struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Event bus (Redis Streams)
	RedisURL string `env:"REDIS_URL,required"`

	// BusConsumerGroup defaults to the binary name.
	BusConsumerGroup string `env:"BUS_CONSUMER_GROUP"`
	// BusConsumerName defaults to the hostname, which is unique per replica.
	BusConsumerName string `env:"BUS_CONSUMER_NAME"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// Gateway configures the public REST surface.
type Gateway struct {
	Common

	UserServiceURL       string        `env:"USER_SERVICE_URL,required"`
	FriendshipServiceURL string        `env:"FRIENDSHIP_SERVICE_URL,required"`
	ContentServiceURL    string        `env:"CONTENT_SERVICE_URL,required"`
	UpstreamTimeout      time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
}

// Store configures a service that owns relational tables.
type Store struct {
	Common

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"15"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`
}

// Notification configures the WebSocket push service.
type Notification struct {
	Common

	// AuthTimeout bounds the wait for the token frame after the upgrade.
	AuthTimeout time.Duration `env:"SOCKET_AUTH_TIMEOUT" envDefault:"10s"`
}

// # Configuration Loading

type common interface {
	common() *Common
}

func (c *Common) common() *Common { return c }

// Load parses environment variables into T and fills the bus identity defaults.
func Load[T any, PT interface {
	*T
	common
}](app string) (*T, error) {

	cfg := PT(new(T))

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	shared := cfg.common()
	if shared.BusConsumerGroup == "" {
		shared.BusConsumerGroup = app
	}
	if shared.BusConsumerName == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = app
		}
		shared.BusConsumerName = hostname
	}

	return (*T)(cfg), nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Common) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Common) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins lists the CORS origins accepted outside development.
func (c *Common) AllowedOrigins() []string {
	return c.ExtraOrigins
}

// KeyConsumerGroup is the per-instance group used for the signing key topic.
// Every replica must see the key, so replicas cannot share a group there.
func (c *Common) KeyConsumerGroup() string {
	return c.InstanceGroup()
}

// InstanceGroup is a consumer group owned by this replica alone.
func (c *Common) InstanceGroup() string {
	return c.BusConsumerGroup + "-" + c.BusConsumerName
}
