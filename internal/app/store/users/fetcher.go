// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/timeouts"
	"github.com/dalemusser/gardenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher implements auth.ClientFetcher: it resolves a session's
// account ID to a fresh account+profile pair on every request, so
// disabled accounts and username changes take effect immediately.
type Fetcher struct {
	users    *mongo.Collection
	profiles *mongo.Collection
}

// NewFetcher creates a ClientFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		users:    db.Collection("users"),
		profiles: db.Collection("profiles"),
	}
}

// FetchClient returns nil when the account is missing, disabled, or has
// no profile; the session is then treated as signed out.
func (f *Fetcher) FetchClient(ctx context.Context, accountID string) *auth.Client {
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return nil
	}
	if u.Status == "disabled" {
		return nil
	}

	var p models.Profile
	if err := f.profiles.FindOne(ctx, bson.M{"user_id": oid}).Decode(&p); err != nil {
		return nil
	}

	return &auth.Client{
		AccountID: u.ID,
		ProfileID: p.ID,
		Username:  p.Username,
		Email:     u.Email,
	}
}
