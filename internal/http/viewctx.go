package http

import (
	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/feed"
	"github.com/tazhibayda/posts-service/internal/posts"
)

// View context assembly: the seam between handlers and the template layer,
// kept free of business logic.

func baseCtx(c *gin.Context) gin.H {
	return gin.H{"actor": actorFrom(c)}
}

func merge(base gin.H, extra gin.H) gin.H {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

func listingCtx(c *gin.Context, title string, page feed.Page) gin.H {
	return merge(baseCtx(c), gin.H{
		"title":    title,
		"page_obj": page,
	})
}

func groupCtx(c *gin.Context, group *domain.Group, page feed.Page) gin.H {
	return merge(listingCtx(c, group.Title, page), gin.H{
		"group": group,
	})
}

func profileCtx(c *gin.Context, author *domain.User, page feed.Page) gin.H {
	return merge(listingCtx(c, "Profile: "+author.Username, page), gin.H{
		"author": author,
	})
}

func detailCtx(c *gin.Context, post *domain.Post, authorPostCount int64) gin.H {
	return merge(baseCtx(c), gin.H{
		"post":              post,
		"author_post_count": authorPostCount,
	})
}

func postFormCtx(c *gin.Context, draft posts.Draft, groups []domain.Group,
	fieldErrors map[string]string, isEdit bool, postID string) gin.H {
	return merge(baseCtx(c), gin.H{
		"draft":   draft,
		"groups":  groups,
		"errors":  fieldErrors,
		"is_edit": isEdit,
		"post_id": postID,
	})
}

func authFormCtx(c *gin.Context, values map[string]string, fieldErrors map[string]string) gin.H {
	return merge(baseCtx(c), gin.H{
		"values": values,
		"errors": fieldErrors,
	})
}
