package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/posts-service/internal/feed"
	"github.com/tazhibayda/posts-service/internal/log"
	"github.com/tazhibayda/posts-service/internal/metrics"
	"github.com/tazhibayda/posts-service/internal/posts"
	"github.com/tazhibayda/posts-service/internal/queue"
	"github.com/tazhibayda/posts-service/internal/repo"
)

type Handler struct {
	Store         repo.Store
	Posts         *posts.Service
	Feed          *feed.Assembler
	Events        queue.Publisher
	Limiter       Limiter
	SessionSecret string
	SessionTTL    time.Duration
}

func NewHandler(store repo.Store, svc *posts.Service, asm *feed.Assembler,
	events queue.Publisher, secret string, ttl time.Duration, rl Limiter) *Handler {
	return &Handler{
		Store:         store,
		Posts:         svc,
		Feed:          asm,
		Events:        events,
		Limiter:       rl,
		SessionSecret: secret,
		SessionTTL:    ttl,
	}
}

// pageParam reads ?page=; anything unparsable means the first page.
func pageParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return n
}

func (h *Handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", baseCtx(c))
}

func (h *Handler) serverError(c *gin.Context, err error) {
	log.L.Error("handler error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)))
	c.HTML(http.StatusInternalServerError, "500.html", baseCtx(c))
}

// GET /
func (h *Handler) Index(c *gin.Context) {
	page, err := h.Feed.ListAll(c.Request.Context(), pageParam(c))
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", listingCtx(c, "Latest updates", page))
}

// GET /group/:slug/
func (h *Handler) GroupPosts(c *gin.Context) {
	page, group, err := h.Feed.ListByGroup(c.Request.Context(), c.Param("slug"), pageParam(c))
	if errors.Is(err, repo.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "group_list.html", groupCtx(c, group, page))
}

// GET /profile/:username/
func (h *Handler) Profile(c *gin.Context) {
	page, author, err := h.Feed.ListByAuthor(c.Request.Context(), c.Param("username"), pageParam(c))
	if errors.Is(err, repo.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "profile.html", profileCtx(c, author, page))
}

// GET /posts/:id/
func (h *Handler) PostDetail(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}
	post, err := h.Posts.Get(c.Request.Context(), id)
	if errors.Is(err, posts.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	count, err := h.Store.CountPostsByAuthor(c.Request.Context(), post.AuthorID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "post_detail.html", detailCtx(c, post, count))
}

// GET /create/
func (h *Handler) PostCreateForm(c *gin.Context) {
	groups, err := h.Store.ListGroups(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "post_form.html",
		postFormCtx(c, posts.Draft{}, groups, nil, false, ""))
}

// POST /create/
func (h *Handler) PostCreate(c *gin.Context) {
	draft := posts.Draft{
		Text:    c.PostForm("text"),
		GroupID: c.PostForm("group"),
	}
	post, err := h.Posts.Create(c.Request.Context(), actorFrom(c), draft)
	if err != nil {
		var verr *posts.ValidationError
		switch {
		case errors.Is(err, posts.ErrUnauthenticated):
			redirectToLogin(c)
		case errors.As(err, &verr):
			groups, gerr := h.Store.ListGroups(c.Request.Context())
			if gerr != nil {
				h.serverError(c, gerr)
				return
			}
			c.HTML(http.StatusOK, "post_form.html",
				postFormCtx(c, draft, groups, verr.Fields, false, ""))
		default:
			h.serverError(c, err)
		}
		return
	}
	metrics.PostsCreated.Inc()
	c.Redirect(http.StatusFound, "/profile/"+post.AuthorName+"/")
}

// GET /posts/:id/edit/
func (h *Handler) PostEditForm(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}
	post, err := h.Posts.Get(c.Request.Context(), id)
	if errors.Is(err, posts.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	// soft deny: non-authors view the post instead of the form
	if post.AuthorID != actorFrom(c).ID {
		c.Redirect(http.StatusFound, "/posts/"+post.ID.Hex()+"/")
		return
	}
	groups, err := h.Store.ListGroups(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	draft := posts.Draft{Text: post.Text}
	if post.GroupID != nil {
		draft.GroupID = post.GroupID.Hex()
	}
	c.HTML(http.StatusOK, "post_form.html",
		postFormCtx(c, draft, groups, nil, true, post.ID.Hex()))
}

// POST /posts/:id/edit/
func (h *Handler) PostEdit(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.notFound(c)
		return
	}
	draft := posts.Draft{
		Text:    c.PostForm("text"),
		GroupID: c.PostForm("group"),
	}
	post, err := h.Posts.Edit(c.Request.Context(), actorFrom(c), id, draft)
	if err != nil {
		var verr *posts.ValidationError
		switch {
		case errors.Is(err, posts.ErrNotFound):
			h.notFound(c)
		case errors.Is(err, posts.ErrUnauthenticated):
			redirectToLogin(c)
		case errors.Is(err, posts.ErrNotOwner):
			c.Redirect(http.StatusFound, "/posts/"+id.Hex()+"/")
		case errors.As(err, &verr):
			groups, gerr := h.Store.ListGroups(c.Request.Context())
			if gerr != nil {
				h.serverError(c, gerr)
				return
			}
			c.HTML(http.StatusOK, "post_form.html",
				postFormCtx(c, draft, groups, verr.Fields, true, id.Hex()))
		default:
			h.serverError(c, err)
		}
		return
	}
	c.Redirect(http.StatusFound, "/posts/"+post.ID.Hex()+"/")
}

// GET /about/author/ and /about/tech/
func (h *Handler) AboutAuthor(c *gin.Context) {
	c.HTML(http.StatusOK, "about_author.html", baseCtx(c))
}

func (h *Handler) AboutTech(c *gin.Context) {
	c.HTML(http.StatusOK, "about_tech.html", baseCtx(c))
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
