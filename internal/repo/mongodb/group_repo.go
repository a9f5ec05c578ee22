package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/repo"
)

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Store) CreateGroup(ctx context.Context, g *domain.Group) error {
	g.Slug = normalizeSlug(g.Slug)
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	res, err := s.colGroups.InsertOne(ctx, g)
	if IsDup(err) {
		return repo.ErrSlugExists
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		g.ID = oid
	}
	return nil
}

func (s *Store) FindGroupBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	var g domain.Group
	err := s.colGroups.FindOne(ctx, bson.M{"slug": normalizeSlug(slug)}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) FindGroupByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
	var g domain.Group
	err := s.colGroups.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]domain.Group, error) {
	cur, err := s.colGroups.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Group
	for cur.Next(ctx) {
		var g domain.Group
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, cur.Err()
}
