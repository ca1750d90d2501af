// internal/app/system/authz/authz.go
package authz

import (
	"fmt"

	"github.com/dalemusser/gardenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleOf returns the role whose garden set contains profileID. The
// role-set disjointness invariant guarantees at most one match; the scan
// is linear because gardens hold tens of members, not thousands.
func RoleOf(g *models.Garden, profileID primitive.ObjectID) (Role, bool) {
	for _, id := range g.AdminIDs {
		if id == profileID {
			return RoleAdmin, true
		}
	}
	for _, id := range g.EditorIDs {
		if id == profileID {
			return RoleEditor, true
		}
	}
	for _, id := range g.ViewerIDs {
		if id == profileID {
			return RoleViewer, true
		}
	}
	return "", false
}

// IsMember reports whether profileID holds any role in the garden.
func IsMember(g *models.Garden, profileID primitive.ObjectID) bool {
	_, ok := RoleOf(g, profileID)
	return ok
}

// IsAuthorized reports whether profileID holds a role at least as
// privileged as required.
func IsAuthorized(g *models.Garden, profileID primitive.ObjectID, required Role) bool {
	held, ok := RoleOf(g, profileID)
	return ok && held.Satisfies(required)
}

// CheckGarden verifies the cross-entity invariants between a garden and
// its membership documents:
//
//   - a profile ID appears in at most one role set;
//   - the creator is in the admin set;
//   - every role-set ID has exactly one membership whose role names that
//     set, and every membership's ID appears in its role's set.
//
// Used by tests and the reconcile worker; mutations are expected to
// establish these before committing.
func CheckGarden(g *models.Garden, memberships []models.GardenMembership) error {
	seen := make(map[primitive.ObjectID]Role)
	for role, set := range map[Role][]primitive.ObjectID{
		RoleAdmin:  g.AdminIDs,
		RoleEditor: g.EditorIDs,
		RoleViewer: g.ViewerIDs,
	} {
		for _, id := range set {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("garden %s: profile %s in both %s and %s sets", g.ID, id.Hex(), prev, role)
			}
			seen[id] = role
		}
	}

	if _, ok := seen[g.CreatorID]; !ok || seen[g.CreatorID] != RoleAdmin {
		return fmt.Errorf("garden %s: creator %s not in admin set", g.ID, g.CreatorID.Hex())
	}

	byUser := make(map[primitive.ObjectID]models.GardenMembership, len(memberships))
	for _, m := range memberships {
		if _, dup := byUser[m.UserID]; dup {
			return fmt.Errorf("garden %s: duplicate membership for profile %s", g.ID, m.UserID.Hex())
		}
		byUser[m.UserID] = m

		set, ok := seen[m.UserID]
		if !ok {
			return fmt.Errorf("garden %s: membership for profile %s has no role-set entry", g.ID, m.UserID.Hex())
		}
		if set != Role(m.Role) {
			return fmt.Errorf("garden %s: membership role %s does not mirror set %s for profile %s", g.ID, m.Role, set, m.UserID.Hex())
		}
	}

	for id := range seen {
		if _, ok := byUser[id]; !ok {
			return fmt.Errorf("garden %s: role-set profile %s has no membership document", g.ID, id.Hex())
		}
	}
	return nil
}
