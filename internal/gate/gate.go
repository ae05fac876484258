// Package gate implements the admin setup/login flow in front of a single
// credential backend.
//
// A Gate asks its backend whether a credential exists each time it is
// opened and derives the AuthMode from the answer. Submissions then either
// create the credential (setup) or verify it (login). Every failure leaves
// the gate open with a single user-facing error string and raises a short
// shake signal for a presentation layer.
package gate

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/atinyakov/lumina/internal/models"
)

// MinPasswordLength is the shortest password accepted during setup.
const MinPasswordLength = 4

const (
	msgTooShort      = "password too short"
	msgMismatch      = "passwords do not match"
	msgIncorrect     = "incorrect password"
	msgSetupRemote   = "remote setup failed, check the network"
	msgSetupLocal    = "could not store the password on this device"
	msgSetupRejected = "setup failed"
)

// Backend is the capability set shared by the remote authority and the
// local store.
type Backend interface {
	// Exists reports whether a credential is currently stored.
	Exists(ctx context.Context) (bool, error)
	// Create stores password as the credential, replacing any previous one.
	Create(ctx context.Context, password string) (bool, error)
	// Verify reports whether password equals the stored credential.
	Verify(ctx context.Context, password string) (bool, error)
}

// State is the gate's position in the setup/login flow.
type State string

const (
	Idle          State = "idle"
	Checking      State = "checking"
	SetupRequired State = "setup_required"
	LoginRequired State = "login_required"
	Submitting    State = "submitting"
	Authenticated State = "authenticated"
)

// Options configures a Gate.
type Options struct {
	// Kind is the backend kind, used for labels and error text.
	Kind models.BackendKind
	// OnSuccess is invoked exactly once per successful setup or login.
	OnSuccess func()
	// OnShake is notified when the shake signal rises and clears.
	OnShake func(on bool)
	// ShakeDelay overrides ShakeDuration.
	ShakeDelay time.Duration
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// View is a snapshot of the gate for rendering.
type View struct {
	State   State
	Mode    models.AuthMode
	Kind    models.BackendKind
	Error   string
	Busy    bool
	Shaking bool
}

// Gate owns the setup/login state machine.
type Gate struct {
	backend   Backend
	kind      models.BackendKind
	onSuccess func()
	log       *zap.Logger
	fb        *shake

	mu      sync.Mutex
	state   State
	mode    models.AuthMode
	errText string
	busy    bool
	session uint64
}

// New returns a closed gate over backend.
func New(backend Backend, opts Options) *Gate {
	delay := opts.ShakeDelay
	if delay <= 0 {
		delay = ShakeDuration
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{
		backend:   backend,
		kind:      opts.Kind,
		onSuccess: opts.OnSuccess,
		log:       log.Named("gate"),
		fb:        newShake(delay, opts.OnShake),
		state:     Idle,
	}
}

// Open starts a new session: it clears the previous error, queries the
// backend and settles on SetupRequired or LoginRequired. A failed query
// settles on SetupRequired and is not reported as an error. Open returns
// ErrStale if the gate was closed or reopened before the query settled.
func (g *Gate) Open(ctx context.Context) (models.AuthMode, error) {
	g.mu.Lock()
	g.session++
	session := g.session
	g.state = Checking
	g.mode = ""
	g.errText = ""
	g.busy = true
	g.mu.Unlock()

	exists, err := g.backend.Exists(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session != session || g.state != Checking {
		return "", ErrStale
	}
	if err != nil {
		g.log.Warn("credential check failed, offering setup", zap.String("backend", string(g.kind)), zap.Error(err))
		exists = false
	}
	g.mode = models.ModeFor(exists)
	g.state = State(g.mode)
	g.busy = false
	g.log.Debug("gate opened", zap.String("mode", string(g.mode)))
	return g.mode, nil
}

// Close ends the session. Results of calls still in flight are discarded.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closeLocked()
}

func (g *Gate) closeLocked() {
	g.session++
	g.state = Idle
	g.mode = ""
	g.errText = ""
	g.busy = false
}

// Submit performs setup or login depending on the current mode. confirm is
// only consulted during setup. On success the OnSuccess callback runs once
// and the gate closes.
func (g *Gate) Submit(ctx context.Context, password, confirm string) error {
	g.mu.Lock()
	switch g.state {
	case Idle:
		g.mu.Unlock()
		return ErrClosed
	case Checking, Submitting:
		g.mu.Unlock()
		return ErrBusy
	case Authenticated:
		g.mu.Unlock()
		return ErrAuthenticated
	}
	if g.busy {
		g.mu.Unlock()
		return ErrBusy
	}

	mode := g.mode
	if mode == models.SetupRequired {
		if err := validateSetup(password, confirm); err != nil {
			g.errText = err.Error()
			g.mu.Unlock()
			g.fb.trigger()
			return err
		}
	}

	session := g.session
	g.busy = true
	g.state = Submitting
	g.errText = ""
	g.mu.Unlock()

	var (
		ok      bool
		callErr error
	)
	if mode == models.SetupRequired {
		ok, callErr = g.backend.Create(ctx, password)
	} else {
		ok, callErr = g.backend.Verify(ctx, password)
	}

	g.mu.Lock()
	if g.session != session || g.state != Submitting {
		g.mu.Unlock()
		g.log.Debug("discarding result of stale submission")
		return ErrStale
	}
	g.busy = false

	if !ok || callErr != nil {
		err := g.failure(mode, callErr)
		g.state = State(mode)
		g.errText = userMessage(err)
		g.mu.Unlock()
		g.fb.trigger()
		return err
	}

	g.state = Authenticated
	g.mu.Unlock()

	g.log.Info("admin authenticated", zap.String("mode", string(mode)), zap.String("backend", string(g.kind)))
	if g.onSuccess != nil {
		g.onSuccess()
	}

	g.mu.Lock()
	if g.session == session {
		g.closeLocked()
	}
	g.mu.Unlock()
	return nil
}

func (g *Gate) failure(mode models.AuthMode, callErr error) error {
	if mode == models.SetupRequired {
		msg := msgSetupRejected
		switch {
		case g.kind == models.RemoteBackend:
			msg = msgSetupRemote
		case callErr != nil:
			msg = msgSetupLocal
		}
		g.log.Warn("credential setup failed", zap.String("backend", string(g.kind)), zap.Error(callErr))
		return &SetupError{Msg: msg, Err: callErr}
	}
	if callErr != nil {
		g.log.Warn("credential verification failed", zap.String("backend", string(g.kind)), zap.Error(callErr))
	}
	return &AuthError{Msg: msgIncorrect}
}

func validateSetup(password, confirm string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{Msg: msgTooShort}
	}
	if password != confirm {
		return &ValidationError{Msg: msgMismatch}
	}
	return nil
}

func userMessage(err error) string {
	if se, ok := err.(*SetupError); ok {
		return se.Msg
	}
	return err.Error()
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Mode returns the mode settled by the last Open, or "" when closed.
func (g *Gate) Mode() models.AuthMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// ErrorText returns the current user-facing error, if any.
func (g *Gate) ErrorText() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errText
}

// Shaking reports whether the failure feedback signal is raised.
func (g *Gate) Shaking() bool {
	return g.fb.active()
}

// Kind returns the backend kind the gate was built for.
func (g *Gate) Kind() models.BackendKind {
	return g.kind
}

// View returns a consistent snapshot for rendering.
func (g *Gate) View() View {
	g.mu.Lock()
	v := View{
		State: g.state,
		Mode:  g.mode,
		Kind:  g.kind,
		Error: g.errText,
		Busy:  g.busy,
	}
	g.mu.Unlock()
	v.Shaking = g.fb.active()
	return v
}
