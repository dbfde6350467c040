package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/lostfound-auth-client/auth"
	"github.com/jrsteele09/lostfound-auth-client/authmodel"
	"github.com/jrsteele09/lostfound-auth-client/internal/config"
	"github.com/jrsteele09/lostfound-auth-client/sessions"
	"github.com/jrsteele09/lostfound-auth-client/storage"
	"github.com/jrsteele09/lostfound-auth-client/storage/storefake"
	"github.com/jrsteele09/lostfound-auth-client/transport"
)

const (
	testEmail    = "jane.doe@example.com"
	testPassword = "Password1!"
	testFullName = "Jane Doe"
	testPhone    = "+15551234567"

	testLifetime  = 15 * time.Minute
	testThreshold = 5 * time.Minute
)

var testStart = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu    sync.Mutex
	now   time.Time
	reads chan struct{}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reads != nil {
		select {
		case c.reads <- struct{}{}:
		default:
		}
	}
	return c.now
}

// notifyReads signals on the returned channel each time the clock is read,
// up to n unreceived reads. RefreshIfExpiringSoon reads the clock right after
// it has taken its snapshot of the session.
func (c *testClock) notifyReads(n int) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = make(chan struct{}, n)
	return c.reads
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeAPI records every call and answers with the handler registered for the
// path. Unregistered paths fail with a 404 style error.
type fakeAPI struct {
	mu       sync.Mutex
	handlers map[string]transport.Func
	calls    map[string]int
	requests []transport.Request
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		handlers: make(map[string]transport.Func),
		calls:    make(map[string]int),
	}
}

func (f *fakeAPI) handle(path string, h transport.Func) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = h
}

func (f *fakeAPI) Post(ctx context.Context, req transport.Request) ([]byte, error) {
	f.mu.Lock()
	f.calls[req.Path]++
	f.requests = append(f.requests, req)
	h := f.handlers[req.Path]
	f.mu.Unlock()

	if h == nil {
		return nil, errors.New("404 Not Found")
	}
	return h(ctx, req)
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAPI) lastRequest(path string) transport.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Path == path {
			return f.requests[i]
		}
	}
	return transport.Request{}
}

func respond(body []byte) transport.Func {
	return func(context.Context, transport.Request) ([]byte, error) {
		return body, nil
	}
}

func failWith(msg string) transport.Func {
	return func(context.Context, transport.Request) ([]byte, error) {
		return nil, errors.New(msg)
	}
}

type tokenBody struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int            `json:"expires_in,omitempty"`
	User         map[string]any `json:"user,omitempty"`
}

func tokenJSON(t *testing.T, body tokenBody) []byte {
	t.Helper()
	if body.TokenType == "" {
		body.TokenType = "bearer"
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return data
}

func testUserJSON() map[string]any {
	return map[string]any{
		"id":        17,
		"email":     testEmail,
		"full_name": testFullName,
		"phone":     testPhone,
	}
}

type fixture struct {
	api        *fakeAPI
	store      *storefake.FakeStore
	clock      *testClock
	controller *auth.Controller
}

func setupFixture(t *testing.T, options ...auth.ControllerOption) *fixture {
	t.Helper()

	f := &fixture{
		api:   newFakeAPI(),
		store: storefake.NewFakeStore(),
		clock: &testClock{now: testStart},
	}
	f.api.handle(authmodel.LoginPath, respond(tokenJSON(t, tokenBody{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         testUserJSON(),
	})))
	f.api.handle(authmodel.RegisterPath, respond(tokenJSON(t, tokenBody{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         testUserJSON(),
	})))
	f.api.handle(authmodel.RefreshPath, respond(tokenJSON(t, tokenBody{
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
	})))

	cfg := config.Static{TokenLifetime: testLifetime, RefreshThreshold: testThreshold}
	opts := append([]auth.ControllerOption{
		auth.WithNowTime(f.clock.Now),
		auth.WithLogger(zerolog.Nop()),
	}, options...)

	c, err := auth.NewController(f.api, f.store, cfg, opts...)
	require.NoError(t, err)
	f.controller = c
	return f
}

// blockLogin makes the next sign-in wait inside the transport until release
// is closed, answering with access-3. entered is closed once it is waiting.
func (f *fixture) blockLogin(t *testing.T) (entered, release chan struct{}) {
	t.Helper()
	entered = make(chan struct{})
	release = make(chan struct{})
	body := tokenJSON(t, tokenBody{AccessToken: "access-3", RefreshToken: "refresh-3", User: testUserJSON()})
	f.api.handle(authmodel.LoginPath, func(context.Context, transport.Request) ([]byte, error) {
		close(entered)
		<-release
		return body, nil
	})
	return entered, release
}

func (f *fixture) signIn(t *testing.T) auth.Result {
	t.Helper()
	res := f.controller.SignIn(context.Background(), testEmail, testPassword)
	require.True(t, res.IsSuccess(), "sign in failed: %v", res.Err())
	return res
}

// persistSession writes a session issued at issuedAt straight into the store.
func (f *fixture) persistSession(t *testing.T, issuedAt time.Time, refreshToken string) {
	t.Helper()
	s, err := sessions.FromIssuedTokens("stored-access", refreshToken, "bearer", issuedAt, testLifetime)
	require.NoError(t, err)
	data, err := s.Marshal()
	require.NoError(t, err)
	require.NoError(t, f.store.Set(storage.KeyToken, data))
	require.NoError(t, f.store.Set(storage.KeyUser, `{"id":17,"email":"jane.doe@example.com"}`))
	require.NoError(t, f.store.Set(storage.KeyLoggedIn, "true"))
}

func (f *fixture) storedSession(t *testing.T) *sessions.Session {
	t.Helper()
	raw, ok, err := f.store.Get(storage.KeyToken)
	require.NoError(t, err)
	require.True(t, ok, "no session persisted")
	s, err := sessions.Unmarshal(raw)
	require.NoError(t, err)
	return s
}

// collectStates reads n states from ch, failing the test if they do not
// arrive promptly.
func collectStates(t *testing.T, ch <-chan auth.State, n int) []auth.State {
	t.Helper()
	states := make([]auth.State, 0, n)
	for len(states) < n {
		select {
		case s := <-ch:
			states = append(states, s)
		case <-time.After(time.Second):
			require.FailNow(t, "timed out waiting for states", "got %v", states)
		}
	}
	return states
}

// waitFor receives one value from ch, failing the test if none arrives
// promptly.
func waitFor[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting on channel")
	}
	var zero T
	return zero
}
