package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
	logger "github.com/PolarWolf314/vaultapi/internal/logging"
	"github.com/PolarWolf314/vaultapi/internal/secrets"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxBodySize     = 10 << 20
	maxErrorSnippet = 512
)

// Request describes one call. Params become the query string and Payload,
// when non-nil, the JSON body.
type Request struct {
	Endpoint Endpoint
	Params   map[string]string
	Payload  map[string]any
}

// Response is a successful server reply.
type Response struct {
	StatusCode int
	RequestID  string

	// Detail is the raw "detail" member, nil when absent or null.
	Detail json.RawMessage
}

// Options configures a Client.
type Options struct {
	Server    string
	Timeout   time.Duration
	Retries   int
	UserAgent string
	Logger    logger.Logger

	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	// Zero values keep the retryablehttp defaults.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client issues authenticated requests against one server.
type Client struct {
	server     string
	userAgent  string
	credential *secrets.Credential
	http       *retryablehttp.Client
	log        logger.Logger
}

// New returns a client for opts.Server authenticating with credential.
func New(opts Options, credential *secrets.Credential) (*Client, error) {
	if opts.Server == "" {
		return nil, kerrors.ErrMissingServer
	}
	if _, err := url.ParseRequestURI(opts.Server); err != nil {
		return nil, fmt.Errorf("%w: server %q: %v", kerrors.ErrInvalidConfig, opts.Server, err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.Retries
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logger.Leveled{Logger: opts.Logger}
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}

	return &Client{
		server:     opts.Server,
		userAgent:  opts.UserAgent,
		credential: credential,
		http:       rc,
		log:        opts.Logger,
	}, nil
}

// Server returns the base URL.
func (c *Client) Server() string {
	return c.server
}

// Health checks that the server answers /health with a 2xx status.
// The health route is not authenticated.
func (c *Client) Health(ctx context.Context) error {
	target := JoinURL(c.server, Health.Path())
	req, err := retryablehttp.NewRequestWithContext(ctx, Health.Method(), target, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrServerUnavailable, err)
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if resp == nil {
		return fmt.Errorf("%w: %s: %w", kerrors.ErrServerUnavailable, c.server, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s: health check returned %s", kerrors.ErrServerUnavailable, c.server, resp.Status)
	}
	c.log.Debugf("health check passed for %s", c.server)
	return nil
}

// Do sends r and returns the reply's detail member.
func (c *Client) Do(ctx context.Context, r Request) (Response, error) {
	if !r.Endpoint.Valid() {
		return Response{}, fmt.Errorf("%w: unknown endpoint %d", kerrors.ErrRequestFailed, r.Endpoint)
	}

	target := JoinURL(c.server, r.Endpoint.Path())
	if len(r.Params) > 0 {
		q := url.Values{}
		for k, v := range r.Params {
			q.Set(k, v)
		}
		target += "?" + q.Encode()
	}

	var body interface{}
	if r.Payload != nil {
		raw, err := json.Marshal(r.Payload)
		if err != nil {
			return Response{}, fmt.Errorf("%w: encoding payload: %v", kerrors.ErrRequestFailed, err)
		}
		body = raw
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, r.Endpoint.Method(), target, body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", kerrors.ErrRequestFailed, err)
	}
	requestID := c.setCommonHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	bearer, err := c.credential.Bearer()
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Authorization", bearer)

	c.log.Debugf("%s %s (request %s)", r.Endpoint.Method(), r.Endpoint.Path(), requestID)

	// With the passthrough error handler a final 5xx arrives as a response
	// plus an error; the status check below reports it with the body.
	resp, err := c.http.Do(req)
	if resp == nil {
		return Response{}, fmt.Errorf("%w: %s %s: %w", kerrors.ErrRequestFailed, r.Endpoint.Method(), r.Endpoint.Path(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Response{}, fmt.Errorf("%w: reading response: %v", kerrors.ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, fmt.Errorf("%w: %s %s returned %s: %s",
			kerrors.ErrRequestFailed, r.Endpoint.Method(), r.Endpoint.Path(), resp.Status, errorDetail(data))
	}

	detail, err := extractDetail(data)
	if err != nil {
		return Response{}, err
	}

	return Response{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
		Detail:     detail,
	}, nil
}

func (c *Client) setCommonHeaders(req *retryablehttp.Request) string {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return requestID
}

// extractDetail returns the detail member of a JSON object. Bodies that are
// valid JSON but not objects carry no detail.
func extractDetail(data []byte) (json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: body is not JSON", kerrors.ErrInvalidResponse)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, nil
	}

	detail, ok := obj["detail"]
	if !ok || bytes.Equal(bytes.TrimSpace(detail), []byte("null")) {
		return nil, nil
	}
	return detail, nil
}

// errorDetail summarises an error body, preferring a string detail member.
func errorDetail(data []byte) string {
	var obj struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && len(obj.Detail) > 0 {
		var s string
		if err := json.Unmarshal(obj.Detail, &s); err == nil {
			return truncate(s)
		}
		return truncate(string(obj.Detail))
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "empty response body"
	}
	return truncate(text)
}

func truncate(s string) string {
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}

// JoinURL joins base and path with exactly one slash between them.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
