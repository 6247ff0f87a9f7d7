// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/ctxutil"
	"github.com/taibuivan/socialnet/internal/platform/respond"
	"github.com/taibuivan/socialnet/internal/platform/sec"
)

// TokenVerifier is the read side of the key cache. [*sec.Keyring] implements it.
type TokenVerifier interface {
	Ready() bool
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// ErrNotReady is the AuthGate answer while no verification key is cached.
var ErrNotReady = apperr.ServiceUnavailable("unable to authenticate, try again later")

// ParseBearer verifies an Authorization header value.
//
// # Order
//  1. No cached key: 503, so callers can tell "retry later" from "bad token".
//  2. Header missing or not using the Bearer scheme: 401.
//  3. Signature, expiry or structure rejected: 401 with the reason.
func ParseBearer(verifier TokenVerifier, header string) (*sec.AuthClaims, error) {
	if !verifier.Ready() {
		return nil, ErrNotReady
	}

	token, found := strings.CutPrefix(header, constants.BearerPrefix)
	if !found || strings.TrimSpace(token) == "" {
		return nil, apperr.Unauthorized("missing token or malformed")
	}

	claims, err := verifier.VerifyToken(strings.TrimSpace(token))
	if err != nil {
		// The key can only disappear if the verifier is swapped under us.
		if errors.Is(err, sec.ErrKeyNotReady) {
			return nil, ErrNotReady
		}
		return nil, apperr.Unauthorized("invalid token: " + err.Error()).WithCause(err)
	}

	return claims, nil
}

// Authenticate is the AuthGate. It rejects the request unless the
// Authorization header carries a token signed by the distributed key, and
// otherwise injects the verified [*sec.AuthClaims] into the context.
//
// # Usage
//
// [RequireRole] and [RequireUnblocked] must be mounted after it.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := ParseBearer(verifier, request.Header.Get(constants.HeaderAuthorization))
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context (implies AuthN).
//  2. Check the role hierarchy using [sec.UserRole.AtLeast].
//  3. If insufficient, abort with HTTP 401 Unauthorized.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetClaims(request.Context())

			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("missing token or malformed"))
				return
			}

			if !claims.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Unauthorized("insufficient role"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireUnblocked rejects tokens issued to blocked accounts, even though
// their signature is valid.
func RequireUnblocked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetClaims(request.Context())

		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("missing token or malformed"))
			return
		}

		if claims.IsBlocked() {
			respond.Error(writer, request, apperr.Unauthorized("user is blocked"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}
