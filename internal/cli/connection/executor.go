package connection

import (
	"context"

	"github.com/plmtools/centric-cli/internal/telemetry/logger"
)

// Authenticator exchanges stored credentials for a fresh token.
type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// TokenStore persists the cached token between invocations.
type TokenStore interface {
	Load() (string, error)
	Store(token string) error
}

// AuditLog records request/response traffic. Implementations must not
// fail the invocation.
type AuditLog interface {
	Request(method, url string, body []byte, note string)
	Response(method, url string, status int, body []byte, note string)
	Failure(method, url string, note string)
}

// Descriptor describes one API call.
type Descriptor struct {
	Method string
	URL    string
	Body   []byte
}

// execState tracks the single-retry authentication state machine.
type execState int

const (
	stateNotAuthenticated execState = iota
	stateAuthenticated
	stateRetryingAfterAuthFailure
	stateDone
	stateFailed
)

// Executor issues API calls with the bounded re-authentication policy:
// at most two request attempts and at most one authentication refresh
// per invocation. An explicitly supplied token is trusted as final and
// never refreshed.
type Executor struct {
	client       *HTTPClient
	auth         Authenticator
	store        TokenStore
	audit        AuditLog
	authStatuses map[int]struct{}
	log          logger.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithAuditLog attaches an audit log. A nil log leaves auditing off.
func WithAuditLog(a AuditLog) ExecutorOption {
	return func(e *Executor) {
		if a != nil {
			e.audit = a
		}
	}
}

// WithAuthFailureStatuses overrides the statuses treated as an expired
// or rejected token.
func WithAuthFailureStatuses(codes []int) ExecutorOption {
	return func(e *Executor) {
		e.authStatuses = make(map[int]struct{}, len(codes))
		for _, code := range codes {
			e.authStatuses[code] = struct{}{}
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logger.Logger) ExecutorOption {
	return func(e *Executor) {
		e.log = l
	}
}

// nopAudit discards all audit entries.
type nopAudit struct{}

func (nopAudit) Request(string, string, []byte, string)       {}
func (nopAudit) Response(string, string, int, []byte, string) {}
func (nopAudit) Failure(string, string, string)               {}

// NewExecutor creates an executor. By default 401 is the only
// authentication-failure status and no audit log is attached.
func NewExecutor(client *HTTPClient, auth Authenticator, store TokenStore, opts ...ExecutorOption) *Executor {
	e := &Executor{
		client:       client,
		auth:         auth,
		store:        store,
		audit:        nopAudit{},
		authStatuses: map[int]struct{}{401: {}},
		log:          logger.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveToken returns a usable token without issuing the API call:
// the explicit token when given, else the cached token, else a fresh
// one from the authenticator (which is then cached). Backs `--token-only`.
func (e *Executor) ResolveToken(ctx context.Context, explicitToken string) (string, error) {
	if explicitToken != "" {
		return explicitToken, nil
	}
	if cached, _ := e.store.Load(); cached != "" {
		return cached, nil
	}
	return e.refreshToken(ctx)
}

// Execute performs the API call described by desc. explicitToken, when
// non-empty, bypasses the cache and the authenticator entirely.
func (e *Executor) Execute(ctx context.Context, desc Descriptor, explicitToken string) (*Envelope, error) {
	explicit := explicitToken != ""
	token := explicitToken
	state := stateNotAuthenticated

	if explicit {
		state = stateAuthenticated
	} else if cached, _ := e.store.Load(); cached != "" {
		token = cached
		state = stateAuthenticated
		e.log.Debug("using cached token")
	}

	if state == stateNotAuthenticated {
		fresh, err := e.refreshToken(ctx)
		if err != nil {
			return nil, err
		}
		token = fresh
		state = stateAuthenticated
	}

	var result *Envelope
	for state == stateAuthenticated || state == stateRetryingAfterAuthFailure {
		retrying := state == stateRetryingAfterAuthFailure
		env, err := e.attempt(ctx, desc, token, retrying)
		if err != nil {
			state = stateFailed
			return nil, err
		}

		if _, isAuthFailure := e.authStatuses[env.StatusCode]; isAuthFailure {
			if explicit || retrying {
				// An explicit token is final; a second consecutive
				// rejection ends the invocation.
				state = stateFailed
				e.audit.Failure(desc.Method, desc.URL, "authentication failure, not retrying")
				return nil, &RequestError{URL: desc.URL, StatusCode: env.StatusCode, Body: env.Body}
			}

			e.log.Debug("token rejected, re-authenticating", "status", env.StatusCode)
			e.audit.Failure(desc.Method, desc.URL, "token rejected, re-authenticating")

			fresh, err := e.refreshToken(ctx)
			if err != nil {
				state = stateFailed
				return nil, err
			}
			token = fresh
			state = stateRetryingAfterAuthFailure
			continue
		}

		if env.StatusCode >= 400 {
			state = stateFailed
			return nil, &RequestError{URL: desc.URL, StatusCode: env.StatusCode, Body: env.Body}
		}

		result = env
		state = stateDone
	}

	return result, nil
}

// attempt sends a single request and records it in the audit log.
func (e *Executor) attempt(ctx context.Context, desc Descriptor, token string, retry bool) (*Envelope, error) {
	note := ""
	if retry {
		note = "retry"
	}
	e.audit.Request(desc.Method, desc.URL, desc.Body, note)

	env, err := e.client.Do(ctx, desc.Method, desc.URL, desc.Body, token)
	if err != nil {
		e.audit.Failure(desc.Method, desc.URL, err.Error())
		return nil, err
	}

	e.audit.Response(desc.Method, desc.URL, env.StatusCode, env.Body, note)
	return env, nil
}

// refreshToken authenticates and overwrites the cached token. A cache
// write failure is reported but does not fail the invocation.
func (e *Executor) refreshToken(ctx context.Context) (string, error) {
	token, err := e.auth.Authenticate(ctx)
	if err != nil {
		return "", err
	}
	if err := e.store.Store(token); err != nil {
		e.log.Warn("failed to cache token", "error", err)
	}
	return token, nil
}
