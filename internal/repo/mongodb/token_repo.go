package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tazhibayda/posts-service/internal/repo"
)

func (s *Store) CreateEmailToken(ctx context.Context, t repo.EmailToken) error {
	t.CreatedAt = time.Now().UTC()
	_, err := s.colTokens.InsertOne(ctx, t)
	return err
}

// UseEmailToken atomically marks the token used and returns it; a second call
// with the same token misses the filter and reports ErrNotFound.
func (s *Store) UseEmailToken(ctx context.Context, token, purpose string) (*repo.EmailToken, error) {
	now := time.Now().UTC()
	res := s.colTokens.FindOneAndUpdate(ctx,
		bson.M{
			"token":      token,
			"purpose":    purpose,
			"used_at":    bson.M{"$exists": false},
			"expires_at": bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{"used_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var t repo.EmailToken
	if err := res.Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
