package gardenstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/domain/models"
	"github.com/dalemusser/gardenhub/internal/testutil"
)

func TestStore_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := gardenstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	created, err := store.Insert(ctx, models.Garden{
		ID:        "herb-patch",
		Name:      "Herb Patch",
		CreatorID: creator,
		AdminIDs:  []primitive.ObjectID{creator},
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.Visibility != models.VisibilityHidden {
		t.Errorf("expected default visibility hidden, got %q", created.Visibility)
	}
	if created.EditorIDs == nil || created.ViewerIDs == nil {
		t.Error("expected empty role sets, not nil")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Insert_DuplicateKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := gardenstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := models.Garden{ID: "herb-patch", Name: "Herb Patch", CreatorID: primitive.NewObjectID()}
	if _, err := store.Insert(ctx, g); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, g); !errors.Is(err, gardenstore.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := gardenstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "nope"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListByProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := gardenstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	_, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")

	g1 := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.CreateGarden(ctx, "rose-bed", "Rose Bed", bob)
	g3 := fixtures.CreateGarden(ctx, "tomatoes", "Tomatoes", bob)
	fixtures.AddMember(ctx, g3.ID, alice, "viewer", models.MembershipAccepted, &bob.ID)

	list, err := store.ListByProfile(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByProfile failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 gardens, got %d", len(list))
	}
	got := map[string]bool{}
	for _, g := range list {
		got[g.ID] = true
	}
	if !got[g1.ID] || !got[g3.ID] {
		t.Errorf("unexpected garden set: %v", got)
	}
}

func TestStore_RoleSetWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := gardenstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)

	member := primitive.NewObjectID()
	if err := store.AddToRoleSet(ctx, g.ID, authz.RoleEditor, []primitive.ObjectID{member}); err != nil {
		t.Fatalf("AddToRoleSet failed: %v", err)
	}
	// idempotent under retry
	if err := store.AddToRoleSet(ctx, g.ID, authz.RoleEditor, []primitive.ObjectID{member}); err != nil {
		t.Fatalf("second AddToRoleSet failed: %v", err)
	}

	loaded, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(loaded.EditorIDs) != 1 || loaded.EditorIDs[0] != member {
		t.Fatalf("expected exactly one editor entry, got %v", loaded.EditorIDs)
	}

	if err := store.MoveRole(ctx, g.ID, member, authz.RoleViewer); err != nil {
		t.Fatalf("MoveRole failed: %v", err)
	}
	loaded, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID after MoveRole failed: %v", err)
	}
	if len(loaded.EditorIDs) != 0 {
		t.Errorf("expected editor set emptied, got %v", loaded.EditorIDs)
	}
	if len(loaded.ViewerIDs) != 1 || loaded.ViewerIDs[0] != member {
		t.Errorf("expected member moved to viewer set, got %v", loaded.ViewerIDs)
	}

	if err := store.PullFromRoleSets(ctx, g.ID, member); err != nil {
		t.Fatalf("PullFromRoleSets failed: %v", err)
	}
	loaded, err = store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID after PullFromRoleSets failed: %v", err)
	}
	if len(loaded.ViewerIDs) != 0 {
		t.Errorf("expected member pulled from all sets, got %v", loaded.ViewerIDs)
	}
	// the creator's admin entry is untouched
	if len(loaded.AdminIDs) != 1 || loaded.AdminIDs[0] != alice.ID {
		t.Errorf("expected creator to remain admin, got %v", loaded.AdminIDs)
	}
}

func TestStore_ReplaceRoleSets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := gardenstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)

	editor := primitive.NewObjectID()
	if err := store.ReplaceRoleSets(ctx, g.ID, []primitive.ObjectID{alice.ID}, []primitive.ObjectID{editor}, nil); err != nil {
		t.Fatalf("ReplaceRoleSets failed: %v", err)
	}

	loaded, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(loaded.AdminIDs) != 1 || loaded.AdminIDs[0] != alice.ID {
		t.Errorf("admin set = %v", loaded.AdminIDs)
	}
	if len(loaded.EditorIDs) != 1 || loaded.EditorIDs[0] != editor {
		t.Errorf("editor set = %v", loaded.EditorIDs)
	}
	if len(loaded.ViewerIDs) != 0 {
		t.Errorf("viewer set = %v", loaded.ViewerIDs)
	}
}

func TestStore_ListIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := gardenstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.CreateGarden(ctx, "rose-bed", "Rose Bed", alice)

	ids, err := store.ListIDs(ctx)
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 ids, got %v", ids)
	}
}
