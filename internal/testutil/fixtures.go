package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/gardenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAccount creates an active user account with a profile for the
// given username. Returns both documents.
func (f *Fixtures) CreateAccount(ctx context.Context, username, email string) (models.User, models.Profile) {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		EmailCI:   text.Fold(email),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}

	profile := models.Profile{
		ID:         primitive.NewObjectID(),
		UserID:     user.ID,
		Username:   username,
		UsernameCI: text.Fold(username),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("profiles").InsertOne(ctx, profile); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}

	return user, profile
}

// CreateGarden creates a garden whose creator holds an accepted admin
// membership, mirroring what the create command persists.
func (f *Fixtures) CreateGarden(ctx context.Context, key, name string, creator models.Profile) models.Garden {
	f.t.Helper()

	now := time.Now().UTC()
	garden := models.Garden{
		ID:         key,
		Name:       name,
		NameCI:     text.Fold(name),
		Visibility: models.VisibilityHidden,
		CreatorID:  creator.ID,
		AdminIDs:   []primitive.ObjectID{creator.ID},
		EditorIDs:  []primitive.ObjectID{},
		ViewerIDs:  []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("gardens").InsertOne(ctx, garden); err != nil {
		f.t.Fatalf("failed to create test garden: %v", err)
	}

	accepted := now
	membership := models.GardenMembership{
		ID:         primitive.NewObjectID(),
		GardenID:   key,
		UserID:     creator.ID,
		Role:       "admin",
		Status:     models.MembershipAccepted,
		AcceptedAt: &accepted,
		CreatedAt:  now,
	}
	if _, err := f.db.Collection("garden_memberships").InsertOne(ctx, membership); err != nil {
		f.t.Fatalf("failed to create creator membership: %v", err)
	}

	return garden
}

// AddMember places a profile in the garden's role set and creates the
// matching membership document.
func (f *Fixtures) AddMember(ctx context.Context, gardenID string, profile models.Profile, role, status string, inviter *primitive.ObjectID) models.GardenMembership {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.GardenMembership{
		ID:        primitive.NewObjectID(),
		GardenID:  gardenID,
		UserID:    profile.ID,
		Role:      role,
		Status:    status,
		InviterID: inviter,
		CreatedAt: now,
	}
	if status == models.MembershipAccepted {
		m.AcceptedAt = &now
	}
	if _, err := f.db.Collection("garden_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}

	field := map[string]string{
		"admin":  "admin_ids",
		"editor": "editor_ids",
		"viewer": "viewer_ids",
	}[role]
	if field == "" {
		f.t.Fatalf("unknown role %q", role)
	}
	if _, err := f.db.Collection("gardens").UpdateByID(ctx, gardenID,
		map[string]interface{}{"$addToSet": map[string]interface{}{field: profile.ID}}); err != nil {
		f.t.Fatalf("failed to add profile to role set: %v", err)
	}

	return m
}
