// internal/app/store/memberships/membershipstore.go
package membershipstore

// Terminology: User Identifiers
//   - UserID / user_id on a membership is the profile ObjectID, the
//     same identifier the garden role sets hold. Account IDs never
//     appear here.

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateMembership = errors.New("a membership for this garden and profile already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("garden_memberships")}
}

// Get loads the membership for (gardenID, profileID). Returns
// mongo.ErrNoDocuments when the pair has no membership.
func (s *Store) Get(ctx context.Context, gardenID string, profileID primitive.ObjectID) (models.GardenMembership, error) {
	var m models.GardenMembership
	err := s.c.FindOne(ctx, bson.M{"garden_id": gardenID, "user_id": profileID}).Decode(&m)
	if err != nil {
		return models.GardenMembership{}, err
	}
	return m, nil
}

// ListByGarden returns all memberships for a garden.
func (s *Store) ListByGarden(ctx context.Context, gardenID string) ([]models.GardenMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"garden_id": gardenID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.GardenMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// InsertAccepted creates the garden creator's own membership: accepted
// immediately, with no inviter.
func (s *Store) InsertAccepted(ctx context.Context, gardenID string, profileID primitive.ObjectID, role authz.Role) error {
	now := time.Now().UTC()
	m := models.GardenMembership{
		ID:         primitive.NewObjectID(),
		GardenID:   gardenID,
		UserID:     profileID,
		Role:       string(role),
		Status:     models.MembershipAccepted,
		AcceptedAt: &now,
		CreatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// InsertInvites creates one unaccepted membership per profile ID, all
// attributed to the inviter. Runs inside the caller's transaction.
func (s *Store) InsertInvites(ctx context.Context, gardenID string, inviterID primitive.ObjectID, role authz.Role, profileIDs []primitive.ObjectID) error {
	if len(profileIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(profileIDs))
	for _, id := range profileIDs {
		inviter := inviterID
		docs = append(docs, models.GardenMembership{
			ID:        primitive.NewObjectID(),
			GardenID:  gardenID,
			UserID:    id,
			Role:      string(role),
			Status:    models.MembershipCreated,
			InviterID: &inviter,
			CreatedAt: now,
		})
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Accept marks a membership accepted and stamps the acceptance time.
func (s *Store) Accept(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":      models.MembershipAccepted,
		"accepted_at": at.UTC(),
	}})
	return err
}

// UpdateRole rewrites the membership's role. The caller is responsible
// for moving the profile between the garden's role sets in the same
// transaction.
func (s *Store) UpdateRole(ctx context.Context, id primitive.ObjectID, role authz.Role) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"role": string(role)}})
	return err
}

// Delete removes a membership document. Deletion is the only removal
// path; there is no tombstone status.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
