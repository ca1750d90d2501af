// internal/domain/models/garden.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Garden visibility values.
const (
	VisibilityPublic = "public"
	VisibilityHidden = "hidden"
)

// Garden is the aggregate root for a shared planning space.
//
// The three role-ID slices are a denormalized projection of the
// garden_memberships collection. Invariants:
//   - a profile ID appears in at most one of AdminIDs/EditorIDs/ViewerIDs;
//   - CreatorID is always present in AdminIDs;
//   - every ID in a role set has exactly one membership document whose
//     role names that set.
//
// All writes that touch both representations go through a single
// transaction (see system/txn); the reconcile worker re-derives the
// projection as a repair sweep.
type Garden struct {
	ID          string `bson:"_id" json:"id"` // human-facing key, immutable
	Name        string `bson:"name" json:"name"`
	NameCI      string `bson:"name_ci" json:"-"`
	Visibility  string `bson:"visibility" json:"visibility"`
	Description string `bson:"description" json:"description"`

	CreatorID primitive.ObjectID   `bson:"creator_id" json:"creator_id"`
	AdminIDs  []primitive.ObjectID `bson:"admin_ids" json:"admin_ids"`
	EditorIDs []primitive.ObjectID `bson:"editor_ids" json:"editor_ids"`
	ViewerIDs []primitive.ObjectID `bson:"viewer_ids" json:"viewer_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
