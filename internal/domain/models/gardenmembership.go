// internal/domain/models/gardenmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership status values. There is no tombstone state: leaving or
// being revoked deletes the document.
const (
	MembershipCreated  = "created" // invited, not yet accepted
	MembershipAccepted = "accepted"
)

// GardenMembership is the authoritative join between profiles and gardens.
// Exactly one document per (garden_id, user_id); Role must mirror the
// garden role set the user ID appears in.
type GardenMembership struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GardenID  string              `bson:"garden_id" json:"garden_id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"` // profile ID
	Role      string              `bson:"role" json:"role"`       // admin | editor | viewer
	Status    string              `bson:"status" json:"status"`   // created | accepted
	InviterID *primitive.ObjectID `bson:"inviter_id,omitempty" json:"inviter_id,omitempty"`

	AcceptedAt *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
}
