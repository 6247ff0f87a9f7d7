// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
It also hosts the resource-owner check every identity-scoped handler runs.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/ctxutil"
	"github.com/taibuivan/socialnet/internal/platform/sec"
	"github.com/taibuivan/socialnet/internal/platform/validate"
)

// maxBodyBytes caps every decoded JSON body.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes)).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.

chi matches on the escaped path when one exists, so the value is unescaped
here. A malformed escape is returned as is.
*/
func Param(request *http.Request, name string) string {
	raw := chi.URLParam(request, name)
	if value, err := url.PathUnescape(raw); err == nil {
		return value
	}
	return raw
}

/*
RequiredClaims returns the claims installed by the AuthGate.

Returns:
  - *sec.AuthClaims: The verified claims
  - error: apperr.Unauthorized if the request never went through the AuthGate
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetClaims(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("missing token or malformed")
	}
	return claims, nil
}

/*
RequireOwner verifies that the authenticated subject is exactly owner.

Every identity-scoped handler calls it before issuing any upstream or store
call. The comparison is exact, with no case folding.

Returns:
  - *sec.AuthClaims: The verified claims on success
  - error: apperr.Unauthorized on mismatch
*/
func RequireOwner(request *http.Request, owner string) (*sec.AuthClaims, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return nil, err
	}

	if owner == "" || claims.Subject != owner {
		return nil, apperr.Unauthorized("you are not allowed to access this resource")
	}

	return claims, nil
}
