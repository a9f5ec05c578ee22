package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a single blog entry. Author fields are set once at creation and
// never change; only Text and the group reference are mutable, and only by
// the author. Group fields are denormalized from the Group record so listing
// pages render without a second lookup.
type Post struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Text       string              `bson:"text" json:"text"`
	AuthorID   primitive.ObjectID  `bson:"author_id" json:"author_id"`
	AuthorName string              `bson:"author_name" json:"author_name"`
	GroupID    *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	GroupSlug  string              `bson:"group_slug,omitempty" json:"group_slug,omitempty"`
	GroupTitle string              `bson:"group_title,omitempty" json:"group_title,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
}

func (p *Post) HasGroup() bool { return p.GroupID != nil }
