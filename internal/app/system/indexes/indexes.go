// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.

The unique (garden_id, user_id) index on garden_memberships is what makes
"at most one membership per pair" a storage guarantee rather than a
convention; duplicate invites surface as duplicate-key errors.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensureGardens(ctx, db); err != nil {
		problems = append(problems, "gardens: "+err.Error())
	}
	if err := ensureGardenMemberships(ctx, db); err != nil {
		problems = append(problems, "garden_memberships: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetName("uniq_email_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetName("google_id").SetSparse(true),
		},
	})
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("profiles"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetName("uniq_username_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id"),
		},
	})
}

func ensureGardens(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("gardens"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("name_ci"),
		},
		// Member-of queries scan the three role sets; multikey indexes
		// cover each.
		{
			Keys:    bson.D{{Key: "admin_ids", Value: 1}},
			Options: options.Index().SetName("admin_ids"),
		},
		{
			Keys:    bson.D{{Key: "editor_ids", Value: 1}},
			Options: options.Index().SetName("editor_ids"),
		},
		{
			Keys:    bson.D{{Key: "viewer_ids", Value: 1}},
			Options: options.Index().SetName("viewer_ids"),
		},
	})
}

func ensureGardenMemberships(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("garden_memberships"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "garden_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_garden_user").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id"),
		},
	})
}

/* ----------------------------- helpers ----------------------------- */

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// Mongo/DocDB returns IndexOptionsConflict when an index with the same
// keys already exists under a different name or options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

// ensureIndexSet creates each desired index, reusing any existing index
// with the same key pattern. Option mismatches are dropped and
// recreated so unique constraints actually take effect.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	existing := map[string]string{} // key signature -> index name
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		for cur.Next(ctx) {
			var idx struct {
				Name string `bson:"name"`
				Key  bson.D `bson:"key"`
			}
			if err := cur.Decode(&idx); err != nil {
				zap.L().Warn("failed to decode existing index",
					zap.String("collection", coll.Name()), zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx.Name
		}
		cur.Close(ctx)
	}

	var errs []string
	for _, m := range desired {
		sig := keySig(m.Keys.(bson.D))
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}

		if _, ok := existing[sig]; ok {
			continue
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				// Same keys under different options: drop the old one
				// and retry so the declared options win.
				if old, ok := existing[sig]; ok {
					if _, dropErr := coll.Indexes().DropOne(ctx, old); dropErr == nil {
						if _, err2 := coll.Indexes().CreateOne(ctx, m); err2 == nil {
							continue
						}
					}
				}
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
