package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/posts-service/internal/domain"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrSlugExists = errors.New("slug already exists")
	ErrUserExists = errors.New("username or email already taken")
)

// EmailToken is a one-shot token mailed to a user (password reset). Consumed
// at most once; expired documents are reaped by the store's TTL machinery.
type EmailToken struct {
	ID        interface{}        `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Token     string             `bson:"token"`
	Purpose   string             `bson:"purpose"`
	ExpiresAt time.Time          `bson:"expires_at"`
	UsedAt    *time.Time         `bson:"used_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

const PurposePasswordReset = "password_reset"

// Store is the persistence boundary. All post listings come back newest
// first: created_at descending, _id descending on ties. Find* methods return
// ErrNotFound on a miss, Create* return ErrSlugExists/ErrUserExists on
// uniqueness violations.
type Store interface {
	CreatePost(ctx context.Context, p *domain.Post) error
	GetPost(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	UpdatePost(ctx context.Context, p *domain.Post) error
	ListPosts(ctx context.Context) ([]domain.Post, error)
	ListPostsByGroup(ctx context.Context, groupID primitive.ObjectID) ([]domain.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]domain.Post, error)
	CountPostsByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error)

	CreateGroup(ctx context.Context, g *domain.Group) error
	FindGroupBySlug(ctx context.Context, slug string) (*domain.Group, error)
	FindGroupByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)

	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id primitive.ObjectID, hash string) error

	CreateEmailToken(ctx context.Context, t EmailToken) error
	UseEmailToken(ctx context.Context, token, purpose string) (*EmailToken, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
