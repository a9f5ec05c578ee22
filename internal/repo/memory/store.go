// Package memory holds a mutex-guarded map implementation of repo.Store.
// It backs the handler and service tests and the dev mode of the server, and
// mirrors the ordering and uniqueness rules of the mongodb store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/repo"
)

type Store struct {
	mu     sync.RWMutex
	posts  map[primitive.ObjectID]*domain.Post
	groups map[primitive.ObjectID]*domain.Group
	users  map[primitive.ObjectID]*domain.User
	tokens map[string]*repo.EmailToken
}

func NewStore() *Store {
	return &Store{
		posts:  map[primitive.ObjectID]*domain.Post{},
		groups: map[primitive.ObjectID]*domain.Group{},
		users:  map[primitive.ObjectID]*domain.User{},
		tokens: map[string]*repo.EmailToken{},
	}
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

// newer first: created_at desc, _id desc on ties
func olderThan(a, b *domain.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.Hex() < b.ID.Hex()
}

func (s *Store) CreatePost(_ context.Context, p *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

func (s *Store) GetPost(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) UpdatePost(_ context.Context, p *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.posts[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Text = p.Text
	cur.GroupID = p.GroupID
	cur.GroupSlug = p.GroupSlug
	cur.GroupTitle = p.GroupTitle
	return nil
}

func (s *Store) ListPosts(_ context.Context) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(*domain.Post) bool { return true }), nil
}

func (s *Store) ListPostsByGroup(_ context.Context, groupID primitive.ObjectID) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p *domain.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}), nil
}

func (s *Store) ListPostsByAuthor(_ context.Context, authorID primitive.ObjectID) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (s *Store) CountPostsByAuthor(_ context.Context, authorID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (s *Store) collect(keep func(*domain.Post) bool) []domain.Post {
	var out []domain.Post
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return olderThan(&out[j], &out[i]) })
	return out
}

func (s *Store) CreateGroup(_ context.Context, g *domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.Slug = strings.ToLower(strings.TrimSpace(g.Slug))
	for _, other := range s.groups {
		if other.Slug == g.Slug {
			return repo.ErrSlugExists
		}
	}
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	cp := *g
	s.groups[g.ID] = &cp
	return nil
}

func (s *Store) FindGroupBySlug(_ context.Context, slug string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, g := range s.groups {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Store) FindGroupByID(_ context.Context, id primitive.ObjectID) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *Store) ListGroups(_ context.Context) ([]domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Group
	for _, g := range s.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range s.users {
		if other.Username == u.Username || other.Email == u.Email {
			return repo.ErrUserExists
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username = strings.TrimSpace(username)
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Store) FindUserByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *Store) CreateEmailToken(_ context.Context, t repo.EmailToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.CreatedAt = time.Now().UTC()
	s.tokens[t.Token] = &t
	return nil
}

func (s *Store) UseEmailToken(_ context.Context, token, purpose string) (*repo.EmailToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok || t.Purpose != purpose || t.UsedAt != nil || !t.ExpiresAt.After(time.Now().UTC()) {
		return nil, repo.ErrNotFound
	}
	now := time.Now().UTC()
	t.UsedAt = &now
	cp := *t
	return &cp, nil
}
