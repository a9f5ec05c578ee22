package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Actor is the identity behind a request. The zero value is the anonymous
// actor. It is resolved once per request by the session middleware and passed
// explicitly into every operation that cares about identity.
type Actor struct {
	ID       primitive.ObjectID
	Username string
}

// Anonymous is the actor for requests without a valid session.
var Anonymous = Actor{}

func (a Actor) IsAuthenticated() bool { return !a.ID.IsZero() }
