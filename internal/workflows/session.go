package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PolarWolf314/vaultapi/internal/audit"
	"github.com/PolarWolf314/vaultapi/internal/client"
	"github.com/PolarWolf314/vaultapi/internal/configs"
	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
	logger "github.com/PolarWolf314/vaultapi/internal/logging"
	"github.com/PolarWolf314/vaultapi/internal/secrets"
	"github.com/PolarWolf314/vaultapi/internal/transit"
)

// SessionOptions configures NewSession.
type SessionOptions struct {
	// SkipHealthCheck skips the /health call made by NewSession.
	SkipHealthCheck bool

	// Offline builds a session without a server. Only Decrypt works.
	Offline bool

	// APIKey overrides settings.APIKey, e.g. after an interactive prompt.
	// The slice is wiped.
	APIKey []byte

	Logger    logger.Logger
	Clock     transit.Clock
	UserAgent string

	// RetryWait bounds the backoff between HTTP retries. Zero keeps the
	// client defaults.
	RetryWait time.Duration
}

// Result is the outcome of a read or write operation.
type Result struct {
	// Value is the decrypted payload for reads, or the server detail for writes.
	Value json.RawMessage

	// RequestID is the X-Request-ID of the request that produced Value.
	RequestID string

	// Attempts counts fetches, 2 when the envelope was fetched again after an
	// authentication failure.
	Attempts int
}

// Decode returns Value as a Go value with numbers kept as json.Number.
func (r Result) Decode() (any, error) {
	return transit.DecodeValue(r.Value)
}

// Session holds everything one invocation needs.
type Session struct {
	settings   configs.Settings
	credential *secrets.Credential
	client     *client.Client
	decrypter  transit.Decrypter
	trail      *audit.Trail
	log        logger.Logger
}

// NewSession validates settings and builds a session.
//
// Returns ErrMissingAPIKey or ErrMissingServer when they are not configured,
// ErrInvalidConfig for invalid settings and ErrServerUnavailable when the
// health check fails.
func NewSession(ctx context.Context, settings configs.Settings, opts SessionOptions) (*Session, error) {
	if err := configs.Validate(settings); err != nil {
		return nil, err
	}

	apikey := opts.APIKey
	if len(apikey) == 0 {
		if err := settings.RequireAPIKey(); err != nil {
			return nil, err
		}
		apikey = []byte(settings.APIKey)
	}
	if !opts.Offline {
		if err := settings.RequireServer(); err != nil {
			return nil, err
		}
	}

	suite, err := transit.ParseSuite(settings.Cipher)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}

	credential, err := secrets.NewCredential(apikey)
	if err != nil {
		return nil, err
	}
	settings.APIKey = ""

	sess := &Session{
		settings:   settings,
		credential: credential,
		decrypter: transit.Decrypter{
			Clock:               opts.Clock,
			BucketWidth:         settings.TimeBucket,
			KeyLength:           settings.KeyLength,
			Suite:               suite,
			AllowPreviousBucket: settings.AllowPreviousBucket,
		},
		trail: audit.New(settings.AuditLog),
		log:   opts.Logger,
	}

	if opts.Offline {
		return sess, nil
	}

	sess.client, err = client.New(client.Options{
		Server:       settings.Server,
		Timeout:      settings.Timeout,
		Retries:      settings.Retries,
		UserAgent:    opts.UserAgent,
		Logger:       opts.Logger,
		RetryWaitMin: opts.RetryWait,
		RetryWaitMax: opts.RetryWait,
	}, credential)
	if err != nil {
		return nil, err
	}

	if !opts.SkipHealthCheck {
		if err := sess.Health(ctx); err != nil {
			return nil, err
		}
	}

	return sess, nil
}

// Settings returns the session settings without the API key.
func (s *Session) Settings() configs.Settings {
	return s.settings
}

// Health checks that the server answers /health.
func (s *Session) Health(ctx context.Context) error {
	if s.client == nil {
		return kerrors.ErrMissingServer
	}
	s.log.Infof("checking %s", s.settings.Server)
	err := s.client.Health(ctx)
	s.record(audit.Entry{Operation: client.Health.String()}, err)
	return err
}

// Decrypt decrypts an envelope locally with the session's transit settings.
// No request is made; a stale envelope fails with ErrAuthentication.
func (s *Session) Decrypt(ctx context.Context, envelope string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, err := s.decrypt(envelope)
	s.record(audit.Entry{Operation: "decrypt"}, err)
	if err != nil {
		return nil, err
	}
	return &Result{Value: value}, nil
}

func (s *Session) decrypt(envelope string) (json.RawMessage, error) {
	var value json.RawMessage
	err := s.credential.Use(func(apikey []byte) error {
		var err error
		value, err = s.decrypter.DecryptRaw(apikey, envelope)
		return err
	})
	return value, err
}

// fetch performs req and returns its detail.
func (s *Session) fetch(ctx context.Context, req client.Request) (client.Response, error) {
	if s.client == nil {
		return client.Response{}, kerrors.ErrMissingServer
	}
	s.log.Infof("%s %s", req.Endpoint.Method(), client.JoinURL(s.settings.Server, req.Endpoint.Path()))
	return s.client.Do(ctx, req)
}

// fetchDecrypted performs req and decrypts the envelope in its detail,
// fetching once more on an authentication failure when RetryAuth is set.
func (s *Session) fetchDecrypted(ctx context.Context, req client.Request) (*Result, error) {
	result := &Result{}
	for {
		result.Attempts++
		resp, err := s.fetch(ctx, req)
		if err != nil {
			return result, err
		}
		result.RequestID = resp.RequestID

		envelope, err := envelopeFromDetail(resp.Detail)
		if err != nil {
			return result, err
		}

		value, err := s.decrypt(envelope)
		if kerrors.Retryable(err) && s.settings.RetryAuth && result.Attempts == 1 {
			s.log.Warnf("decryption failed for request %s, fetching again", resp.RequestID)
			continue
		}
		if err != nil {
			return result, err
		}
		result.Value = value
		return result, nil
	}
}

// fetchDetail performs req and returns its detail unchanged.
func (s *Session) fetchDetail(ctx context.Context, req client.Request) (*Result, error) {
	resp, err := s.fetch(ctx, req)
	if err != nil {
		return &Result{Attempts: 1}, err
	}
	value := resp.Detail
	if value == nil {
		value = json.RawMessage("null")
	}
	return &Result{Value: value, RequestID: resp.RequestID, Attempts: 1}, nil
}

// envelopeFromDetail extracts the transit envelope from a read response.
func envelopeFromDetail(detail json.RawMessage) (string, error) {
	if detail == nil {
		return "", kerrors.ErrNoDetail
	}
	var envelope string
	if err := json.Unmarshal(detail, &envelope); err != nil {
		return "", fmt.Errorf("%w: %s", kerrors.ErrUnexpectedDetail, summarize(detail))
	}
	return envelope, nil
}

func summarize(raw json.RawMessage) string {
	const max = 64
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}

func (s *Session) record(entry audit.Entry, err error) {
	entry.Server = s.settings.Server
	s.trail.Record(entry, err)
}
