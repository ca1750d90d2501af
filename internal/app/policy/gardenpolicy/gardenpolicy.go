// internal/app/policy/gardenpolicy/gardenpolicy.go
package gardenpolicy

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	"github.com/dalemusser/gardenhub/internal/app/system/apperror"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

// RequireRole loads the garden and checks that the given profile holds at
// least the required role according to the garden's role-ID sets.
// Returns a not-found fault when the garden does not exist and an
// authorization fault when the profile's role is insufficient.
func RequireRole(ctx context.Context, db *mongo.Database, profileID primitive.ObjectID, gardenID string, required authz.Role) (*models.Garden, error) {
	g, err := gardenstore.New(db).GetByID(ctx, gardenID)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Garden not found.")
	}
	if err != nil {
		return nil, apperror.Persistence("Could not load garden.")
	}
	if !authz.IsAuthorized(&g, profileID, required) {
		return nil, apperror.Authorization("You do not have permission to do that.")
	}
	return &g, nil
}

// RequireMember is like RequireRole but accepts any role in the garden.
func RequireMember(ctx context.Context, db *mongo.Database, profileID primitive.ObjectID, gardenID string) (*models.Garden, error) {
	return RequireRole(ctx, db, profileID, gardenID, authz.RoleViewer)
}
