// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateUsername = errors.New("a profile with this username already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Create inserts a profile for a user account.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, username string) (models.Profile, error) {
	now := time.Now().UTC()
	p := models.Profile{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Username:   username,
		UsernameCI: text.Fold(username),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateUsername
		}
		return models.Profile{}, err
	}
	return p, nil
}

// GetByUserID loads the profile owned by an account.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// GetByIDs loads profiles for the given profile IDs.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []models.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// UsernameTaken reports whether the case-insensitive username exists.
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"username_ci": text.Fold(username)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ResolveNewMemberIDs maps usernames to profile IDs, dropping any
// profile that already holds a role in the given garden. A nil garden
// skips the membership filter (used at garden creation, when no garden
// exists yet). Empty input yields an empty result, not an error; the
// output is an unordered set.
func (s *Store) ResolveNewMemberIDs(ctx context.Context, usernames []string, garden *models.Garden) ([]primitive.ObjectID, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	folded := make([]string, 0, len(usernames))
	for _, u := range usernames {
		folded = append(folded, text.Fold(u))
	}

	cur, err := s.c.Find(ctx, bson.M{"username_ci": bson.M{"$in": folded}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			continue
		}
		if garden != nil && authz.IsMember(garden, p.ID) {
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)
	}
	return ids, cur.Err()
}
