// Package posts guards every mutation of post records: who may create, who
// may edit, and what a valid draft looks like.
package posts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/queue"
	"github.com/tazhibayda/posts-service/internal/repo"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("post not found")

	// ErrNotOwner is the soft deny: an authenticated non-author gets sent to
	// the read-only detail view instead of an error page. Kept distinct from
	// ErrUnauthenticated on purpose.
	ErrNotOwner = errors.New("actor is not the post author")
)

// ValidationError carries field-level messages back into the form. Nothing
// is mutated when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid draft: %s", strings.Join(keys, ", "))
}

// Draft is the user-submitted content of a post. GroupID is the hex id of an
// existing group, or empty for no group.
type Draft struct {
	Text    string
	GroupID string
}

type Service struct {
	store  repo.Store
	events queue.Publisher
}

func NewService(store repo.Store, events queue.Publisher) *Service {
	return &Service{store: store, events: events}
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// Create inserts a new post owned by actor. Anonymous actors are rejected
// before anything touches the store.
func (s *Service) Create(ctx context.Context, actor domain.Actor, d Draft) (*domain.Post, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	group, verr, err := s.validate(ctx, d)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}

	p := &domain.Post{
		Text:       strings.TrimSpace(d.Text),
		AuthorID:   actor.ID,
		AuthorName: actor.Username,
	}
	applyGroup(p, group)
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, err
	}

	_ = s.events.Publish(ctx, queue.Exchange, queue.KeyPostCreated,
		queue.PostCreated{PostID: p.ID, AuthorID: p.AuthorID, Group: p.GroupSlug},
		queue.RequestIDFrom(ctx))
	return p, nil
}

// Edit applies changes to an existing post. Outcomes, in order of checks:
// ErrNotFound, ErrUnauthenticated, ErrNotOwner (soft deny), ValidationError.
// Author and creation timestamp never change; concurrent edits by the author
// race and the last write wins.
func (s *Service) Edit(ctx context.Context, actor domain.Actor, id primitive.ObjectID, d Draft) (*domain.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if p.AuthorID != actor.ID {
		return nil, ErrNotOwner
	}

	group, verr, err := s.validate(ctx, d)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}

	p.Text = strings.TrimSpace(d.Text)
	applyGroup(p, group)
	if err := s.store.UpdatePost(ctx, p); err != nil {
		return nil, err
	}

	_ = s.events.Publish(ctx, queue.Exchange, queue.KeyPostUpdated,
		queue.PostUpdated{PostID: p.ID, AuthorID: p.AuthorID},
		queue.RequestIDFrom(ctx))
	return p, nil
}

// validate checks the draft and resolves its group reference. A malformed or
// unknown group id is a field error, not a 404: it arrives from a form
// select, so the form gets it back.
func (s *Service) validate(ctx context.Context, d Draft) (*domain.Group, *ValidationError, error) {
	fields := map[string]string{}
	if strings.TrimSpace(d.Text) == "" {
		fields["text"] = "text must not be empty"
	}

	var group *domain.Group
	if d.GroupID != "" {
		gid, err := primitive.ObjectIDFromHex(d.GroupID)
		if err != nil {
			fields["group"] = "unknown group"
		} else {
			group, err = s.store.FindGroupByID(ctx, gid)
			if errors.Is(err, repo.ErrNotFound) {
				fields["group"] = "unknown group"
			} else if err != nil {
				return nil, nil, err
			}
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}, nil
	}
	return group, nil, nil
}

func applyGroup(p *domain.Post, g *domain.Group) {
	if g == nil {
		p.GroupID = nil
		p.GroupSlug = ""
		p.GroupTitle = ""
		return
	}
	gid := g.ID
	p.GroupID = &gid
	p.GroupSlug = g.Slug
	p.GroupTitle = g.Title
}
