package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/repo"
)

// Listings are ordered newest first; _id breaks created_at ties so page
// boundaries stay deterministic.
var sortCreatedDesc = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (s *Store) CreatePost(ctx context.Context, p *domain.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	res, err := s.colPosts.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (s *Store) GetPost(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var p domain.Post
	err := s.colPosts.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost rewrites the mutable fields only. Author and created_at never
// change after creation. Last write wins.
func (s *Store) UpdatePost(ctx context.Context, p *domain.Post) error {
	set := bson.M{"text": p.Text}
	unset := bson.M{}
	if p.GroupID != nil {
		set["group_id"] = *p.GroupID
		set["group_slug"] = p.GroupSlug
		set["group_title"] = p.GroupTitle
	} else {
		unset["group_id"] = ""
		unset["group_slug"] = ""
		unset["group_title"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := s.colPosts.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.findPosts(ctx, bson.M{})
}

func (s *Store) ListPostsByGroup(ctx context.Context, groupID primitive.ObjectID) ([]domain.Post, error) {
	return s.findPosts(ctx, bson.M{"group_id": groupID})
}

func (s *Store) ListPostsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]domain.Post, error) {
	return s.findPosts(ctx, bson.M{"author_id": authorID})
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return s.colPosts.CountDocuments(ctx, bson.M{"author_id": authorID})
}

func (s *Store) findPosts(ctx context.Context, filter bson.M) ([]domain.Post, error) {
	cur, err := s.colPosts.Find(ctx, filter, options.Find().SetSort(sortCreatedDesc))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Post
	for cur.Next(ctx) {
		var p domain.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, cur.Err()
}
