// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upstream is the gateway's HTTP client for the backing services.

Every call carries its own timeout. A reply of any status is returned as a
[Response] so the gateway can surface it verbatim; only transport failures
(unreachable service, timeout, truncated body) come back as an error, which
callers map to 503.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/socialnet/internal/platform/apperr"
	"github.com/taibuivan/socialnet/internal/platform/constants"
	"github.com/taibuivan/socialnet/internal/platform/ctxutil"
)

// maxResponseBytes caps a buffered upstream body.
const maxResponseBytes = 4 << 20

// Response is a fully buffered upstream reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into target.
func (response *Response) Decode(target any) error {
	return json.Unmarshal(response.Body, target)
}

// Is reports whether the reply has the given status code.
func (response *Response) Is(statusCode int) bool {
	return response.StatusCode == statusCode
}

// Client talks to one backing service.
type Client struct {
	name    string
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for the service reachable at baseURL.
func NewClient(name, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultUpstreamTimeout
	}
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// Do issues one call. body may be nil, a []byte forwarded as is, or any
// value encoded as JSON.
func (client *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	target := client.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	switch payload := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(payload)
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("upstream_encode_failed: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("upstream_request_failed: %w", err)
	}
	if reader != nil {
		request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	response, err := client.http.Do(request)
	if err != nil {
		return nil, client.unavailable(err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, client.unavailable(err)
	}

	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       payload,
	}, nil
}

// # Shorthands

// Get issues a GET.
func (client *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return client.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST with a JSON body.
func (client *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return client.Do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT with a JSON body.
func (client *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return client.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE.
func (client *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return client.Do(ctx, http.MethodDelete, path, nil, nil)
}

func (client *Client) unavailable(cause error) error {
	return apperr.ServiceUnavailable(client.name + " service unavailable").WithCause(cause)
}

// PathEscape escapes one path segment, e.g. an email inside /users/{email}.
func PathEscape(segment string) string {
	return url.PathEscape(segment)
}
