package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/feed"
	api "github.com/tazhibayda/posts-service/internal/http"
	"github.com/tazhibayda/posts-service/internal/posts"
	"github.com/tazhibayda/posts-service/internal/repo/memory"
)

// recordingPub captures published events so tests can follow the password
// reset token without a real broker.
type recordingPub struct {
	mu     sync.Mutex
	keys   []string
	events []any
}

func (p *recordingPub) Publish(_ context.Context, _, key string, event any, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPub) Close() error { return nil }

func (p *recordingPub) lastByKey(key string) any {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.keys) - 1; i >= 0; i-- {
		if p.keys[i] == key {
			return p.events[i]
		}
	}
	return nil
}

type testEnv struct {
	Store  *memory.Store
	Events *recordingPub
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	events := &recordingPub{}
	h := api.NewHandler(
		store,
		posts.NewService(store, events),
		feed.NewAssembler(store, 10),
		events,
		"test_secret",
		24*time.Hour,
		api.NewMemoryLimiter(1000, time.Minute),
	)
	return &testEnv{Store: store, Events: events, Router: api.NewRouter(h)}
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// signup registers a user through the real handler and returns the session.
func (e *testEnv) signup(t *testing.T, username, email, password string) *http.Cookie {
	t.Helper()
	w := e.postForm("/auth/signup/", url.Values{
		"username":  {username},
		"email":     {email},
		"password":  {password},
		"password2": {password},
	})
	require.Equal(t, http.StatusFound, w.Code, "signup: %s", w.Body.String())
	return sessionCookie(t, w)
}

func (e *testEnv) seedGroup(t *testing.T, slug, title string) domain.Group {
	t.Helper()
	g := domain.Group{Slug: slug, Title: title}
	require.NoError(t, e.Store.CreateGroup(context.Background(), &g))
	return g
}
