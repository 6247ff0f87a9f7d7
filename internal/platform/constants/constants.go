// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between the gateway and the backing services.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer, token lifetime and the bearer scheme.
  - Event Bus: Stream naming and consumer tuning.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "socialnet"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// DefaultUpstreamTimeout bounds every service-to-service call issued by the gateway.
	DefaultUpstreamTimeout = 5 * time.Second

	// CompensationTimeout bounds a detached saga compensation call.
	CompensationTimeout = 10 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "socialnet.users"

	// AccessTokenTTL is the fixed lifetime of a session token. There is no refresh flow.
	AccessTokenTTL = 15 * time.Minute

	// SigningKeyBits is the RSA modulus size of the per-process signing key.
	SigningKeyBits = 2048

	// BearerPrefix is the expected Authorization scheme, including the separator.
	BearerPrefix = "Bearer "
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json; charset=utf-8"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Event Bus

const (
	// StreamPrefix namespaces every topic stream in Redis.
	StreamPrefix = "bus:"

	// BusReadBlock is how long a consumer blocks on XREADGROUP before looping.
	BusReadBlock = 2 * time.Second

	// BusReadCount is the maximum number of entries fetched per XREADGROUP call.
	BusReadCount = 32

	// BusRetryBackoff is the pause after a transport failure on the consumer loop.
	BusRetryBackoff = 1 * time.Second
)
