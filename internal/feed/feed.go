// Package feed assembles paginated post listings: the site-wide feed, one
// group's posts, one author's posts.
package feed

import (
	"context"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/repo"
)

type Assembler struct {
	store    repo.Store
	pageSize int
}

func NewAssembler(store repo.Store, pageSize int) *Assembler {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Assembler{store: store, pageSize: pageSize}
}

// ListAll returns the requested page of the site-wide feed, newest first.
func (a *Assembler) ListAll(ctx context.Context, page int) (Page, error) {
	posts, err := a.store.ListPosts(ctx)
	if err != nil {
		return Page{}, err
	}
	return Paginate(posts, a.pageSize, page), nil
}

// ListByGroup resolves the slug first; an unknown slug is repo.ErrNotFound,
// not an empty feed.
func (a *Assembler) ListByGroup(ctx context.Context, slug string, page int) (Page, *domain.Group, error) {
	group, err := a.store.FindGroupBySlug(ctx, slug)
	if err != nil {
		return Page{}, nil, err
	}
	posts, err := a.store.ListPostsByGroup(ctx, group.ID)
	if err != nil {
		return Page{}, nil, err
	}
	return Paginate(posts, a.pageSize, page), group, nil
}

// ListByAuthor resolves the username first, same contract as ListByGroup.
// The author's total post count rides along for the profile header.
func (a *Assembler) ListByAuthor(ctx context.Context, username string, page int) (Page, *domain.User, error) {
	author, err := a.store.FindUserByUsername(ctx, username)
	if err != nil {
		return Page{}, nil, err
	}
	posts, err := a.store.ListPostsByAuthor(ctx, author.ID)
	if err != nil {
		return Page{}, nil, err
	}
	return Paginate(posts, a.pageSize, page), author, nil
}
