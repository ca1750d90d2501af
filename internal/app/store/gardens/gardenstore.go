// internal/app/store/gardens/gardenstore.go
package gardenstore

import (
	"context"
	"errors"
	"fmt"
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

var ErrDuplicateKey = errors.New("a garden with this key already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("gardens")}
}

// GetByID loads a garden by its key. Returns mongo.ErrNoDocuments when
// the key does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (models.Garden, error) {
	var g models.Garden
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Garden{}, err
	}
	return g, nil
}

// Exists reports whether a garden with the given key exists.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert persists a new garden. The caller owns the role-set contents;
// Insert only stamps derived and bookkeeping fields. Intended to run
// inside the create transaction.
func (s *Store) Insert(ctx context.Context, g models.Garden) (models.Garden, error) {
	now := time.Now().UTC()
	g.NameCI = text.Fold(g.Name)
	if g.Visibility == "" {
		g.Visibility = models.VisibilityHidden
	}
	if g.AdminIDs == nil {
		g.AdminIDs = []primitive.ObjectID{}
	}
	if g.EditorIDs == nil {
		g.EditorIDs = []primitive.ObjectID{}
	}
	if g.ViewerIDs == nil {
		g.ViewerIDs = []primitive.ObjectID{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Garden{}, ErrDuplicateKey
		}
		return models.Garden{}, err
	}
	return g, nil
}

// ListByProfile returns gardens in which the profile holds any role.
func (s *Store) ListByProfile(ctx context.Context, profileID primitive.ObjectID) ([]models.Garden, error) {
	cur, err := s.c.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"admin_ids": profileID},
		bson.M{"editor_ids": profileID},
		bson.M{"viewer_ids": profileID},
	}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var gardens []models.Garden
	if err := cur.All(ctx, &gardens); err != nil {
		return nil, err
	}
	return gardens, nil
}

// roleField maps a role to its denormalized set field on the garden.
func roleField(role authz.Role) (string, error) {
	switch role {
	case authz.RoleAdmin:
		return "admin_ids", nil
	case authz.RoleEditor:
		return "editor_ids", nil
	case authz.RoleViewer:
		return "viewer_ids", nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

// AddToRoleSet adds profile IDs to one role set. $addToSet keeps the
// write idempotent under retries.
func (s *Store) AddToRoleSet(ctx context.Context, gardenID string, role authz.Role, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	field, err := roleField(role)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateByID(ctx, gardenID, bson.M{
		"$addToSet": bson.M{field: bson.M{"$each": ids}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// PullFromRoleSets removes a profile ID from all three role sets.
// Pulling from every set rather than the known one keeps the write
// idempotent and safe against a stale read of the member's role.
func (s *Store) PullFromRoleSets(ctx context.Context, gardenID string, profileID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, gardenID, bson.M{
		"$pull": bson.M{
			"admin_ids":  profileID,
			"editor_ids": profileID,
			"viewer_ids": profileID,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// MoveRole removes the profile from its current set and adds it to the
// set for the new role. Two updates, intended to run inside one
// transaction.
func (s *Store) MoveRole(ctx context.Context, gardenID string, profileID primitive.ObjectID, to authz.Role) error {
	if err := s.PullFromRoleSets(ctx, gardenID, profileID); err != nil {
		return err
	}
	return s.AddToRoleSet(ctx, gardenID, to, []primitive.ObjectID{profileID})
}

// ReplaceRoleSets overwrites all three role sets. Used by the reconcile
// worker when re-deriving the projection from membership documents.
func (s *Store) ReplaceRoleSets(ctx context.Context, gardenID string, adminIDs, editorIDs, viewerIDs []primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, gardenID, bson.M{
		"$set": bson.M{
			"admin_ids":  adminIDs,
			"editor_ids": editorIDs,
			"viewer_ids": viewerIDs,
			"updated_at": time.Now().UTC(),
		},
	})
	return err
}

// ListIDs returns every garden key. Used by the reconcile worker.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}
