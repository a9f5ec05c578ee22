package http_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazhibayda/posts-service/internal/queue"
)

func TestSignUp_LogsInAndRedirectsHome(t *testing.T) {
	e := newTestEnv(t)
	session := e.signup(t, "alice", "alice@example.com", "s3cret-pass")

	// nav shows the logged-in user
	w := e.get("/", session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/profile/alice/")
	assert.Contains(t, w.Body.String(), "/auth/logout/")
}

func TestSignUp_PublishesUserRegistered(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice", "alice@example.com", "s3cret-pass")

	ev, ok := e.Events.lastByKey(queue.KeyUserRegistered).(queue.UserRegistered)
	require.True(t, ok, "user.registered event not published")
	assert.Equal(t, "alice", ev.Username)
	assert.Equal(t, "alice@example.com", ev.Email)
}

func TestSignUp_RejectsBadInput(t *testing.T) {
	e := newTestEnv(t)
	cases := map[string]url.Values{
		"missing username": {
			"username": {""}, "email": {"a@example.com"},
			"password": {"s3cret-pass"}, "password2": {"s3cret-pass"},
		},
		"bad email": {
			"username": {"alice"}, "email": {"not-an-email"},
			"password": {"s3cret-pass"}, "password2": {"s3cret-pass"},
		},
		"short password": {
			"username": {"alice"}, "email": {"a@example.com"},
			"password": {"short"}, "password2": {"short"},
		},
		"mismatched passwords": {
			"username": {"alice"}, "email": {"a@example.com"},
			"password": {"s3cret-pass"}, "password2": {"different-pass"},
		},
	}
	for name, form := range cases {
		w := e.postForm("/auth/signup/", form)
		assert.Equal(t, http.StatusOK, w.Code, name)
		assert.Empty(t, w.Result().Cookies(), name)
	}
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice", "alice@example.com", "s3cret-pass")

	w := e.postForm("/auth/signup/", url.Values{
		"username":  {"alice"},
		"email":     {"other@example.com"},
		"password":  {"s3cret-pass"},
		"password2": {"s3cret-pass"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already taken")
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice", "alice@example.com", "s3cret-pass")

	w := e.postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"wrong-pass"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "invalid username or password")
}

func TestLogin_HonorsNextParam(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice", "alice@example.com", "s3cret-pass")

	w := e.postForm("/auth/login/?next=%2Fcreate%2F", url.Values{
		"username": {"alice"},
		"password": {"s3cret-pass"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/create/", w.Header().Get("Location"))
}

func TestLogin_IgnoresExternalNext(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice", "alice@example.com", "s3cret-pass")

	w := e.postForm("/auth/login/?next=https%3A%2F%2Fevil.example", url.Values{
		"username": {"alice"},
		"password": {"s3cret-pass"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogout_DropsSession(t *testing.T) {
	e := newTestEnv(t)
	session := e.signup(t, "alice", "alice@example.com", "s3cret-pass")

	w := e.get("/auth/logout/", session)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie must be expired")
}

func TestPasswordReset_FullFlow(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice", "alice@example.com", "old-password1")

	w := e.postForm("/auth/password-reset/", url.Values{"email": {"alice@example.com"}})
	require.Equal(t, http.StatusOK, w.Code)

	ev, ok := e.Events.lastByKey(queue.KeyPasswordReset).(queue.PasswordResetRequested)
	require.True(t, ok, "password reset event not published")
	require.NotEmpty(t, ev.Token)

	w = e.postForm("/auth/reset/"+ev.Token+"/", url.Values{
		"password":  {"new-password1"},
		"password2": {"new-password1"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/", w.Header().Get("Location"))

	// old password no longer works, new one does
	w = e.postForm("/auth/login/", url.Values{
		"username": {"alice"}, "password": {"old-password1"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "invalid username or password")

	w = e.postForm("/auth/login/", url.Values{
		"username": {"alice"}, "password": {"new-password1"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestPasswordReset_UnknownEmailDoesNotLeak(t *testing.T) {
	e := newTestEnv(t)

	w := e.postForm("/auth/password-reset/", url.Values{"email": {"ghost@example.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, e.Events.lastByKey(queue.KeyPasswordReset))
}

func TestPasswordResetConfirm_BadToken(t *testing.T) {
	e := newTestEnv(t)

	w := e.postForm("/auth/reset/bogus-token/", url.Values{
		"password":  {"new-password1"},
		"password2": {"new-password1"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or has expired")
}

func TestPasswordResetConfirm_TokenIsSingleUse(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice", "alice@example.com", "old-password1")

	e.postForm("/auth/password-reset/", url.Values{"email": {"alice@example.com"}})
	ev := e.Events.lastByKey(queue.KeyPasswordReset).(queue.PasswordResetRequested)

	form := url.Values{"password": {"new-password1"}, "password2": {"new-password1"}}
	w := e.postForm("/auth/reset/"+ev.Token+"/", form)
	require.Equal(t, http.StatusFound, w.Code)

	w = e.postForm("/auth/reset/"+ev.Token+"/", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
