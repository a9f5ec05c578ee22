package queue

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exchange is the topic exchange all service events go through.
const Exchange = "posts.events"

// Routing keys.
const (
	KeyUserRegistered = "user.registered"
	KeyPasswordReset  = "user.password_reset_requested"
	KeyPostCreated    = "post.created"
	KeyPostUpdated    = "post.updated"
)

type UserRegistered struct {
	UserID   primitive.ObjectID `json:"user_id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}

type PasswordResetRequested struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Token  string             `json:"token"`
}

type PostCreated struct {
	PostID   primitive.ObjectID `json:"post_id"`
	AuthorID primitive.ObjectID `json:"author_id"`
	Group    string             `json:"group,omitempty"`
}

type PostUpdated struct {
	PostID   primitive.ObjectID `json:"post_id"`
	AuthorID primitive.ObjectID `json:"author_id"`
}

type ctxKey struct{}

// WithRequestID stashes the request id so publishers deep in the call chain
// can stamp it onto event headers.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
