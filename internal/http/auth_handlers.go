package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/queue"
	"github.com/tazhibayda/posts-service/internal/repo"
	"github.com/tazhibayda/posts-service/internal/security"
)

const resetTokenTTL = 24 * time.Hour

func (h *Handler) setSessionCookie(c *gin.Context, u *domain.User) error {
	tok, err := security.MakeSession(h.SessionSecret, u.ID.Hex(), u.Username, h.SessionTTL)
	if err != nil {
		return err
	}
	c.SetCookie(sessionCookie, tok, int(h.SessionTTL.Seconds()), "/", "", false, true)
	return nil
}

// GET /auth/signup/
func (h *Handler) SignUpForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", authFormCtx(c, nil, nil))
}

// POST /auth/signup/
func (h *Handler) SignUp(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")
	confirm := c.PostForm("password2")

	values := map[string]string{"username": username, "email": email}
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "username is required"
	}
	if !strings.Contains(email, "@") {
		fields["email"] = "invalid email"
	}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if password != confirm {
		fields["password2"] = "passwords do not match"
	}
	if len(fields) > 0 {
		c.HTML(http.StatusOK, "signup.html", authFormCtx(c, values, fields))
		return
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		h.serverError(c, err)
		return
	}
	u := &domain.User{Username: username, Email: email, PasswordHash: hash}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			fields["username"] = "username or email already taken"
			c.HTML(http.StatusOK, "signup.html", authFormCtx(c, values, fields))
			return
		}
		h.serverError(c, err)
		return
	}

	_ = h.Events.Publish(c.Request.Context(), queue.Exchange, queue.KeyUserRegistered,
		queue.UserRegistered{UserID: u.ID, Username: u.Username, Email: u.Email},
		c.GetString(requestIDKey))

	if err := h.setSessionCookie(c, u); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// GET /auth/login/
func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", authFormCtx(c, nil, nil))
}

// POST /auth/login/
func (h *Handler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	values := map[string]string{"username": username}

	u, err := h.Store.FindUserByUsername(c.Request.Context(), username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		h.serverError(c, err)
		return
	}
	if u == nil || !security.CheckPassword(u.PasswordHash, password) {
		c.HTML(http.StatusOK, "login.html", authFormCtx(c, values,
			map[string]string{"password": "invalid username or password"}))
		return
	}

	if err := h.setSessionCookie(c, u); err != nil {
		h.serverError(c, err)
		return
	}
	next := c.Query("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

// GET /auth/logout/
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// GET /auth/password-reset/
func (h *Handler) PasswordResetForm(c *gin.Context) {
	c.HTML(http.StatusOK, "password_reset.html", authFormCtx(c, nil, nil))
}

// POST /auth/password-reset/
// Always renders the "sent" page, whether or not the email is registered, so
// the form does not leak which addresses exist.
func (h *Handler) PasswordReset(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))

	u, err := h.Store.FindUserByEmail(c.Request.Context(), email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		h.serverError(c, err)
		return
	}
	if u != nil {
		token, err := security.NewResetToken()
		if err != nil {
			h.serverError(c, err)
			return
		}
		err = h.Store.CreateEmailToken(c.Request.Context(), repo.EmailToken{
			UserID:    u.ID,
			Token:     token,
			Purpose:   repo.PurposePasswordReset,
			ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
		})
		if err != nil {
			h.serverError(c, err)
			return
		}
		_ = h.Events.Publish(c.Request.Context(), queue.Exchange, queue.KeyPasswordReset,
			queue.PasswordResetRequested{UserID: u.ID, Email: u.Email, Token: token},
			c.GetString(requestIDKey))
	}
	c.HTML(http.StatusOK, "password_reset_sent.html", baseCtx(c))
}

// GET /auth/reset/:token/
func (h *Handler) PasswordResetConfirmForm(c *gin.Context) {
	c.HTML(http.StatusOK, "password_reset_confirm.html",
		merge(authFormCtx(c, nil, nil), gin.H{"token": c.Param("token")}))
}

// POST /auth/reset/:token/
func (h *Handler) PasswordResetConfirm(c *gin.Context) {
	token := c.Param("token")
	password := c.PostForm("password")
	confirm := c.PostForm("password2")

	fields := map[string]string{}
	if len(password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if password != confirm {
		fields["password2"] = "passwords do not match"
	}
	if len(fields) > 0 {
		c.HTML(http.StatusOK, "password_reset_confirm.html",
			merge(authFormCtx(c, nil, fields), gin.H{"token": token}))
		return
	}

	et, err := h.Store.UseEmailToken(c.Request.Context(), token, repo.PurposePasswordReset)
	if errors.Is(err, repo.ErrNotFound) {
		c.HTML(http.StatusBadRequest, "password_reset_confirm.html",
			merge(authFormCtx(c, nil, map[string]string{
				"token": "this reset link is invalid or has expired",
			}), gin.H{"token": token}))
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if err := h.Store.UpdateUserPassword(c.Request.Context(), et.UserID, hash); err != nil {
		h.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/auth/login/")
}
