package http

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tazhibayda/posts-service/web"
)

var templateFuncs = template.FuncMap{
	// rune-safe preview for listing cards
	"truncatechars": func(n int, s string) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n]) + "…"
	},
}

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger())
	r.Use(Metrics())
	r.Use(CurrentActor(h.SessionSecret))

	tmpl := template.Must(template.New("").Funcs(templateFuncs).
		ParseFS(web.Templates, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:id/", h.PostDetail)
	r.GET("/about/author/", h.AboutAuthor)
	r.GET("/about/tech/", h.AboutTech)

	authed := r.Group("/", LoginRequired())
	{
		authed.GET("/create/", h.PostCreateForm)
		authed.POST("/create/", h.PostCreate)
		authed.GET("/posts/:id/edit/", h.PostEditForm)
		authed.POST("/posts/:id/edit/", h.PostEdit)
	}

	limited := func() gin.HandlerFunc {
		if h.Limiter != nil {
			return RateLimit(h.Limiter)
		}
		return func(c *gin.Context) { c.Next() }
	}()

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", h.SignUpForm)
		auth.POST("/signup/", h.SignUp)
		auth.GET("/login/", h.LoginForm)
		auth.POST("/login/", limited, h.Login)
		auth.GET("/logout/", h.Logout)
		auth.GET("/password-reset/", h.PasswordResetForm)
		auth.POST("/password-reset/", limited, h.PasswordReset)
		auth.GET("/reset/:token/", h.PasswordResetConfirmForm)
		auth.POST("/reset/:token/", h.PasswordResetConfirm)
	}

	return r
}
