package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/jrsteele09/lostfound-auth-client/autherrors"
	"github.com/jrsteele09/lostfound-auth-client/authmodel"
	"github.com/jrsteele09/lostfound-auth-client/internal/config"
	"github.com/jrsteele09/lostfound-auth-client/sessions"
	"github.com/jrsteele09/lostfound-auth-client/storage"
	"github.com/jrsteele09/lostfound-auth-client/transport"
	"github.com/jrsteele09/lostfound-auth-client/users"
)

// Controller owns the authentication state of the app: the current session,
// the signed-in user and the State the UI observes. Every mutation goes
// through its operations, which are serialized so a background refresh can
// never interleave with a foreground sign-in.
type Controller struct {
	transport  transport.Transport
	store      storage.Store
	config     config.SessionConfig
	issuer     sessions.Issuer
	classifier autherrors.Classifier
	logger     zerolog.Logger
	nowTime    func() time.Time

	ops          *semaphore.Weighted
	refreshGroup singleflight.Group

	mu         sync.RWMutex
	state      State
	session    *sessions.Session
	user       *users.User
	generation uint64
	changed    chan struct{}
	watchers   map[int]chan State
	nextWatch  int
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.nowTime = nowFunc
	}
}

func WithLogger(l zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithClassifier replaces the default text classifier.
func WithClassifier(cl autherrors.Classifier) ControllerOption {
	return func(c *Controller) {
		c.classifier = cl
	}
}

// WithIssuer replaces the issuer built from the session config.
func WithIssuer(i sessions.Issuer) ControllerOption {
	return func(c *Controller) {
		c.issuer = i
	}
}

// NewController creates a controller in the Initial state. Call
// RestoreSession once at start-up.
func NewController(t transport.Transport, s storage.Store, cfg config.SessionConfig, options ...ControllerOption) (*Controller, error) {
	if t == nil {
		return nil, errors.New("[NewController] transport is required")
	}
	if s == nil {
		return nil, errors.New("[NewController] store is required")
	}
	if cfg == nil {
		return nil, errors.New("[NewController] config is required")
	}
	if err := config.ValidateSession(cfg); err != nil {
		return nil, errors.Wrap(err, "[NewController] invalid session config")
	}

	c := &Controller{
		transport: t,
		store:     s,
		config:    cfg,
		issuer: sessions.Issuer{
			Lifetime:       cfg.GetTokenLifetime(),
			UseExpiryClaim: cfg.GetUseTokenExpiryClaim(),
		},
		classifier: autherrors.TextClassifier{},
		logger:     log.Logger,
		nowTime:    time.Now,
		ops:        semaphore.NewWeighted(1),
		state:      Initial,
		changed:    make(chan struct{}),
		watchers:   make(map[int]chan State),
	}
	for _, opt := range options {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "auth").Logger()
	return c, nil
}

// State returns the current authentication state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Session returns a copy of the live session, or nil.
func (c *Controller) Session() *sessions.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Clone()
}

// User returns a copy of the signed-in user, or nil.
func (c *Controller) User() *users.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.Clone()
}

func (c *Controller) IsAuthenticated() bool {
	return c.State() == Authenticated
}

// SignIn authenticates with an email or username. Once the request has been
// sent it runs to completion even if ctx is cancelled.
func (c *Controller) SignIn(ctx context.Context, identifier, password string) Result {
	return c.authenticate(ctx, "sign in", transport.Request{
		Path: authmodel.LoginPath,
		Body: authmodel.LoginRequest{Username: identifier, Password: password},
	})
}

// SignUp registers a new account and signs it in.
func (c *Controller) SignUp(ctx context.Context, fullName, email, phone, password string) Result {
	return c.authenticate(ctx, "sign up", transport.Request{
		Path: authmodel.RegisterPath,
		Body: authmodel.RegisterRequest{FullName: fullName, Email: email, Phone: phone, Password: password},
	})
}

func (c *Controller) authenticate(ctx context.Context, op string, req transport.Request) Result {
	if err := c.ops.Acquire(ctx, 1); err != nil {
		return Failure(cancelled(err))
	}
	defer c.ops.Release(1)

	c.setState(Loading)

	body, err := c.transport.Post(context.WithoutCancel(ctx), req)
	if err != nil {
		return c.fail(op, c.classifier.Classify(err))
	}

	resp, err := authmodel.ParseTokenResponse(body)
	if err != nil {
		return c.fail(op, malformedResponse(err))
	}
	if !resp.HasUser() {
		return c.fail(op, malformedResponse(errors.New("user missing from response")))
	}
	user, err := users.Parse(resp.User)
	if err != nil {
		return c.fail(op, malformedResponse(err))
	}
	session, err := c.issuer.Issue(resp, c.nowTime(), nil)
	if err != nil {
		return c.fail(op, malformedResponse(err))
	}

	c.persist(session, user)
	c.setSession(session, user)
	c.logger.Info().Str("op", op).Str("user_id", user.ID).Time("expires_at", session.ExpiresAt).Msg("authenticated")
	return Success(user, session)
}

// RestoreSession loads the persisted session at start-up. An expired session
// gets one silent refresh attempt before the user is signed out.
func (c *Controller) RestoreSession(ctx context.Context) State {
	if err := c.ops.Acquire(ctx, 1); err != nil {
		return c.State()
	}
	defer c.ops.Release(1)

	c.setState(Loading)

	raw, ok, err := c.store.Get(storage.KeyToken)
	if err != nil {
		c.logger.Error().Err(err).Msg("restore: reading session failed")
		c.setState(Unauthenticated)
		return Unauthenticated
	}
	if !ok {
		c.clearPersisted()
		c.setState(Unauthenticated)
		return Unauthenticated
	}

	session, err := sessions.Unmarshal(raw)
	if err != nil {
		c.logger.Warn().Err(err).Msg("restore: discarding unreadable session")
		c.clearPersisted()
		c.setState(Unauthenticated)
		return Unauthenticated
	}
	user := c.loadUser()

	if !session.IsExpired(c.nowTime()) {
		c.setSession(session, user)
		c.logger.Info().Time("expires_at", session.ExpiresAt).Msg("session restored")
		return Authenticated
	}

	c.logger.Info().Msg("restore: session expired, refreshing")
	c.mu.Lock()
	c.session, c.user = session, user
	c.mu.Unlock()

	if res := c.refreshLocked(); !res.IsSuccess() {
		return Unauthenticated
	}
	return Authenticated
}

func (c *Controller) loadUser() *users.User {
	raw, ok, err := c.store.Get(storage.KeyUser)
	if err != nil || !ok {
		if err != nil {
			c.logger.Warn().Err(err).Msg("restore: reading user failed")
		}
		return nil
	}
	user, err := users.Parse([]byte(raw))
	if err != nil {
		c.logger.Warn().Err(err).Msg("restore: discarding unreadable user")
		return nil
	}
	return user
}

// SignOut forgets the session and removes every persisted auth key. It never
// fails; storage errors are logged.
func (c *Controller) SignOut(ctx context.Context) {
	// Acquire cannot fail on a context that is never cancelled.
	_ = c.ops.Acquire(context.WithoutCancel(ctx), 1)
	defer c.ops.Release(1)

	c.signOutLocked()
}

func (c *Controller) signOutLocked() {
	c.mu.Lock()
	c.session = nil
	c.user = nil
	c.bumpGenerationLocked()
	c.mu.Unlock()

	c.clearPersisted()
	c.setState(Unauthenticated)
	c.logger.Info().Msg("signed out")
}

func (c *Controller) fail(op string, ae *autherrors.AuthError) Result {
	c.logger.Warn().Str("op", op).Str("kind", ae.Kind.String()).Str("detail", ae.Detail).Msg("authentication failed")

	c.mu.Lock()
	c.setStateLocked(Error)
	if c.session != nil {
		c.setStateLocked(Authenticated)
	} else {
		c.setStateLocked(Unauthenticated)
	}
	c.mu.Unlock()
	return Failure(ae)
}

func (c *Controller) persist(session *sessions.Session, user *users.User) {
	data, err := session.Marshal()
	if err != nil {
		c.logger.Error().Err(err).Msg("persist: encoding session failed")
		return
	}
	if err := c.store.Set(storage.KeyToken, data); err != nil {
		c.logger.Error().Err(err).Msg("persist: writing session failed")
		return
	}
	if user != nil {
		data, err := user.Marshal()
		if err == nil {
			err = c.store.Set(storage.KeyUser, data)
		}
		if err != nil {
			c.logger.Error().Err(err).Msg("persist: writing user failed")
		}
	}
	if err := c.store.Set(storage.KeyLoggedIn, "true"); err != nil {
		c.logger.Error().Err(err).Msg("persist: writing logged in flag failed")
	}
}

func (c *Controller) clearPersisted() {
	for _, key := range storage.AuthKeys() {
		if err := c.store.Remove(key); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("removing persisted key failed")
		}
	}
}

func (c *Controller) setSession(session *sessions.Session, user *users.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = session
	c.user = user
	c.bumpGenerationLocked()
	c.setStateLocked(Authenticated)
}

// bumpGenerationLocked marks a session change and wakes anything waiting on
// it. Callers hold mu.
func (c *Controller) bumpGenerationLocked() {
	c.generation++
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStateLocked(s)
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug().Str("from", c.state.String()).Str("to", s.String()).Msg("state change")
	c.state = s
	c.publishLocked(s)
}

func cancelled(err error) *autherrors.AuthError {
	ae := autherrors.New(autherrors.Unknown, "Request cancelled")
	ae.Detail = err.Error()
	return ae
}

func malformedResponse(err error) *autherrors.AuthError {
	ae := autherrors.New(autherrors.ServerError, autherrors.ServerErrorMsg)
	ae.Detail = err.Error()
	return ae
}
