// Package session owns the authenticated-identity lifecycle of the client:
// restore on start, login, register, logout, and the forced teardown driven
// by the transport's unauthorized interceptor. No other component writes the
// identity or the persisted credential.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/models"
	"github.com/biwott-v/campus-connect-cli/internal/client/repositories/credentials"
	"github.com/biwott-v/campus-connect-cli/internal/logging"
)

// Status describes the kind of session currently live.
type Status string

const (
	StatusAnonymous Status = "anonymous"

	// StatusVerified means the identity was confirmed by the backend.
	StatusVerified Status = "verified"

	// StatusDegraded means the backend was unreachable and the client, with
	// explicit opt-in, fabricated a local identity. Never conflated with
	// StatusVerified; degraded sessions do not survive a restart.
	StatusDegraded Status = "degraded"
)

// Reason tells observers which trigger produced a state transition.
type Reason string

const (
	ReasonRestore  Reason = "restore"
	ReasonLogin    Reason = "login"
	ReasonRegister Reason = "register"
	ReasonLogout   Reason = "logout"
	ReasonExpired  Reason = "expired"
)

// State is the snapshot delivered to OnChange subscribers.
type State struct {
	Status Status
	User   *models.User
	Reason Reason
}

// Manager is the process-wide session singleton.
type Manager struct {
	client        api.Client
	creds         credentials.Repository
	log           logging.Logger
	allowDegraded bool

	mu     sync.RWMutex
	user   *models.User
	status Status

	// OnChange is invoked after every state transition, including the forced
	// teardown from HandleUnauthorized. Set it before the first operation.
	OnChange func(State)
}

func NewManager(client api.Client, creds credentials.Repository, log logging.Logger, allowDegraded bool) *Manager {
	return &Manager{
		client:        client,
		creds:         creds,
		log:           log.With("component", "session"),
		allowDegraded: allowDegraded,
		status:        StatusAnonymous,
	}
}

// Current returns the live identity, or nil when anonymous.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// IsActive is derived from the identity, never stored separately.
func (m *Manager) IsActive() bool {
	return m.Current() != nil
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Restore attempts to resume a previous session from the stored credential.
// With nothing stored it returns immediately without touching the network.
// An expired or unparseable stored token is discarded locally. Any fetch
// failure clears both credential and identity so no partial state remains.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("read stored credential: %w", err)
	}
	if token == "" {
		return nil
	}

	if tokenExpired(token) {
		m.log.Info(ctx, "stored credential expired, discarding")
		return m.creds.Clear(ctx)
	}

	m.client.SetToken(token)
	user, err := m.client.Me(ctx)
	if err != nil {
		m.client.ClearToken()
		_ = m.creds.Clear(ctx)
		return fmt.Errorf("restore session: %w", err)
	}

	m.transition(user, StatusVerified, ReasonRestore)
	m.log.Info(ctx, "session restored", "user", user.Username)
	return nil
}

// Login authenticates against the backend. On success the credential is
// persisted together with the account email in one transaction and the
// identity goes live. When the authenticator is unreachable and degraded
// sessions are enabled, a local unverified identity is fabricated and the
// distinct StatusDegraded is returned; bad credentials always fail.
func (m *Manager) Login(ctx context.Context, email, password string) (Status, error) {
	token, user, err := m.client.Login(ctx, email, password)
	if err != nil {
		if m.allowDegraded && errors.Is(err, api.ErrUnavailable) {
			m.log.Warn(ctx, "authenticator unreachable, starting degraded session", "email", email)
			return m.degrade(ctx, email, "", "", ReasonLogin)
		}
		return StatusAnonymous, fmt.Errorf("login: %w", err)
	}

	if err := m.creds.Save(ctx, token, user.Email); err != nil {
		return StatusAnonymous, fmt.Errorf("persist credential: %w", err)
	}
	m.client.SetToken(token)
	m.transition(user, StatusVerified, ReasonLogin)
	m.log.Info(ctx, "logged in", "user", user.Username)
	return StatusVerified, nil
}

// Register creates an account and starts a session; same contract as Login.
func (m *Manager) Register(ctx context.Context, p api.Profile) (Status, error) {
	token, user, err := m.client.Register(ctx, p)
	if err != nil {
		if m.allowDegraded && errors.Is(err, api.ErrUnavailable) {
			m.log.Warn(ctx, "authenticator unreachable, starting degraded session", "email", p.Email)
			return m.degrade(ctx, p.Email, p.Username, p.FullName, ReasonRegister)
		}
		return StatusAnonymous, fmt.Errorf("register: %w", err)
	}

	if err := m.creds.Save(ctx, token, user.Email); err != nil {
		return StatusAnonymous, fmt.Errorf("persist credential: %w", err)
	}
	m.client.SetToken(token)
	m.transition(user, StatusVerified, ReasonRegister)
	m.log.Info(ctx, "registered", "user", user.Username)
	return StatusVerified, nil
}

// Logout clears the credential and the identity unconditionally. Calling it
// while anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.creds.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	m.client.ClearToken()
	m.transition(nil, StatusAnonymous, ReasonLogout)
	return nil
}

// HandleUnauthorized is the transport's unauthorized-interceptor entry
// point; it tears the session down synchronously whatever request produced
// the response. Registered with the HTTP client at wiring time.
func (m *Manager) HandleUnauthorized() {
	ctx := context.Background()
	if err := m.creds.Clear(ctx); err != nil {
		m.log.Error(ctx, "clearing credential after unauthorized response", "err", err)
	}
	m.client.ClearToken()
	m.transition(nil, StatusAnonymous, ReasonExpired)
	m.log.Warn(ctx, "session expired")
}

// degrade fabricates a local identity plus a placeholder credential. The
// placeholder keeps the credential/identity pairing intact but is not a JWT,
// so Restore discards it on the next start.
func (m *Manager) degrade(ctx context.Context, email, username, fullName string, reason Reason) (Status, error) {
	if email == "" {
		email = "demo@example.com"
	}
	if username == "" {
		username = "demo-user"
	}
	if fullName == "" {
		fullName = "Demo User"
	}
	user := &models.User{
		ID:       time.Now().UnixMilli(),
		Username: username,
		Email:    email,
		FullName: fullName,
	}

	token := "degraded-" + uuid.NewString()
	if err := m.creds.Save(ctx, token, email); err != nil {
		return StatusAnonymous, fmt.Errorf("persist degraded credential: %w", err)
	}
	m.client.SetToken(token)
	m.transition(user, StatusDegraded, reason)
	return StatusDegraded, nil
}

func (m *Manager) transition(user *models.User, status Status, reason Reason) {
	m.mu.Lock()
	changed := m.status != status || (m.user == nil) != (user == nil)
	m.user = user
	m.status = status
	fn := m.OnChange
	m.mu.Unlock()

	if changed && fn != nil {
		fn(State{Status: status, User: user, Reason: reason})
	}
}
