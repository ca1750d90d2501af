package memberships_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/gardenhub/internal/app/features/memberships"
	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	membershipstore "github.com/dalemusser/gardenhub/internal/app/store/memberships"
	"github.com/dalemusser/gardenhub/internal/app/system/auth"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/domain/models"
	"github.com/dalemusser/gardenhub/internal/testutil"
)

type errorBody struct {
	Error       string              `json:"error"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func gardenRequest(t *testing.T, method, gardenID, action string, body interface{}, c *auth.Client) *http.Request {
	t.Helper()
	target := "/gardens/" + gardenID + "/memberships"
	if action != "" {
		target += "/" + action
	}
	req := testutil.NewAuthedJSONRequest(t, method, target, body, c)
	return testutil.WithChiURLParam(req, "id", gardenID)
}

// checkConsistent reloads the garden and asserts the role sets still
// mirror the membership documents.
func checkConsistent(t *testing.T, db *mongo.Database, gardenID string) models.Garden {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := gardenstore.New(db).GetByID(ctx, gardenID)
	if err != nil {
		t.Fatalf("reload garden: %v", err)
	}
	list, err := membershipstore.New(db).ListByGarden(ctx, gardenID)
	if err != nil {
		t.Fatalf("reload memberships: %v", err)
	}
	if err := authz.CheckGarden(&g, list); err != nil {
		t.Fatalf("garden inconsistent: %v", err)
	}
	return g
}

func TestHandleInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	_, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	_, carol := fixtures.CreateAccount(ctx, "carol", "carol@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "viewer", models.MembershipAccepted, &alice.ID)

	// Bob already holds a role, so only carol is invited; carol named
	// in two lists lands in the more privileged one.
	req := gardenRequest(t, http.MethodPost, g.ID, "", map[string]interface{}{
		"editorInvites": []string{"bob", "carol"},
		"viewerInvites": []string{"carol"},
	}, testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleInvite(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]int
	testutil.DecodeJSON(t, rec, &resp)
	if resp["invited"] != 1 {
		t.Errorf("invited = %d, want 1", resp["invited"])
	}

	loaded := checkConsistent(t, db, g.ID)
	if role, _ := authz.RoleOf(&loaded, carol.ID); role != authz.RoleEditor {
		t.Errorf("carol's role = %q, want editor", role)
	}
	if role, _ := authz.RoleOf(&loaded, bob.ID); role != authz.RoleViewer {
		t.Errorf("bob's role = %q, want viewer (existing members are not re-invited)", role)
	}

	m, err := membershipstore.New(db).Get(ctx, g.ID, carol.ID)
	if err != nil {
		t.Fatalf("carol's membership missing: %v", err)
	}
	if m.Status != models.MembershipCreated {
		t.Errorf("carol's status = %q, want created", m.Status)
	}
	if m.InviterID == nil || *m.InviterID != alice.ID {
		t.Errorf("carol's inviter = %v, want %v", m.InviterID, alice.ID)
	}
}

func TestHandleInvite_RequiresAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	fixtures.CreateAccount(ctx, "carol", "carol@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "editor", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "", map[string]interface{}{
		"viewerInvites": []string{"carol"},
	}, testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleInvite(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleInvite_EmptyLists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)

	// No usernames is a no-op, not an error.
	req := gardenRequest(t, http.MethodPost, g.ID, "", map[string]interface{}{},
		testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleInvite(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]int
	testutil.DecodeJSON(t, rec, &resp)
	if resp["invited"] != 0 {
		t.Errorf("invited = %d, want 0", resp["invited"])
	}
	checkConsistent(t, db, g.ID)
}

func TestHandleAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "viewer", models.MembershipCreated, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "accept", nil, testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleAccept(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	m, err := membershipstore.New(db).Get(ctx, g.ID, bob.ID)
	if err != nil {
		t.Fatalf("membership missing: %v", err)
	}
	if m.Status != models.MembershipAccepted {
		t.Errorf("status = %q, want accepted", m.Status)
	}
	if m.AcceptedAt == nil {
		t.Error("AcceptedAt not set")
	}
	checkConsistent(t, db, g.ID)
}

func TestHandleAccept_MissingInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)

	req := gardenRequest(t, http.MethodPost, g.ID, "accept", nil, testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleAccept(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Error != "The invite to this garden does not exist." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleAccept_AlreadyAccepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "viewer", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "accept", nil, testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleAccept(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Error != "The invite to this garden is already accepted." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "editor", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "leave", nil, testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleLeave(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if _, err := membershipstore.New(db).Get(ctx, g.ID, bob.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected membership gone, got %v", err)
	}
	loaded := checkConsistent(t, db, g.ID)
	if authz.IsMember(&loaded, bob.ID) {
		t.Error("bob still in a role set after leaving")
	}
}

func TestHandleLeave_NotAMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)

	req := gardenRequest(t, http.MethodPost, g.ID, "leave", nil, testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleLeave(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Error != "The membership in this garden does not exist." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleLeave_Creator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)

	req := gardenRequest(t, http.MethodPost, g.ID, "leave", nil, testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleLeave(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Error != "The garden's creator cannot leave the garden." {
		t.Errorf("error = %q", body.Error)
	}

	// The creator keeps an accepted admin membership.
	m, err := membershipstore.New(db).Get(ctx, g.ID, alice.ID)
	if err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	if m.Role != "admin" || m.Status != models.MembershipAccepted {
		t.Errorf("creator membership = %s/%s, want admin/accepted", m.Role, m.Status)
	}
	loaded := checkConsistent(t, db, g.ID)
	if !authz.IsAuthorized(&loaded, alice.ID, authz.RoleAdmin) {
		t.Error("creator lost admin authorization")
	}
}

func TestHandleRevoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	_, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "viewer", models.MembershipCreated, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "revoke",
		map[string]string{"profileId": bob.ID.Hex()}, testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleRevoke(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if _, err := membershipstore.New(db).Get(ctx, g.ID, bob.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected membership gone, got %v", err)
	}
	loaded := checkConsistent(t, db, g.ID)
	if authz.IsMember(&loaded, bob.ID) {
		t.Error("bob still in a role set after revocation")
	}
}

func TestHandleRevoke_OwnMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)

	req := gardenRequest(t, http.MethodPost, g.ID, "revoke",
		map[string]string{"profileId": alice.ID.Hex()}, testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleRevoke(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Error != "Cannot revoke own membership - leave instead." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleRevoke_Creator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "admin", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "revoke",
		map[string]string{"profileId": alice.ID.Hex()}, testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleRevoke(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Error != "You cannot revoke the membership of the garden's creator." {
		t.Errorf("error = %q", body.Error)
	}

	if _, err := membershipstore.New(db).Get(ctx, g.ID, alice.ID); err != nil {
		t.Fatalf("creator membership missing: %v", err)
	}
	checkConsistent(t, db, g.ID)
}

func TestHandleRevoke_RequiresAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "editor", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "revoke",
		map[string]string{"profileId": alice.ID.Hex()}, testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleRevoke(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandleRoleChange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	_, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "viewer", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "role",
		map[string]string{"profileId": bob.ID.Hex(), "newRole": "editor"},
		testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleRoleChange(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	loaded := checkConsistent(t, db, g.ID)
	if role, _ := authz.RoleOf(&loaded, bob.ID); role != authz.RoleEditor {
		t.Errorf("bob's role = %q, want editor", role)
	}
	m, err := membershipstore.New(db).Get(ctx, g.ID, bob.ID)
	if err != nil {
		t.Fatalf("membership missing: %v", err)
	}
	if m.Role != "editor" {
		t.Errorf("membership role = %q, want editor", m.Role)
	}
}

func TestHandleRoleChange_SameRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	_, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "viewer", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "role",
		map[string]string{"profileId": bob.ID.Hex(), "newRole": "viewer"},
		testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleRoleChange(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if got := body.FieldErrors["newRole"]; len(got) != 1 || got[0] != "The user already has this role." {
		t.Errorf("fieldErrors[newRole] = %v", got)
	}
}

func TestHandleRoleChange_CreatorProtected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	bobUser, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "admin", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "role",
		map[string]string{"profileId": alice.ID.Hex(), "newRole": "viewer"},
		testutil.ClientFor(bobUser, bob))
	rec := httptest.NewRecorder()
	h.HandleRoleChange(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Error != "You cannot change the role of the garden's creator." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleRoleChange_OwnRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)

	req := gardenRequest(t, http.MethodPost, g.ID, "role",
		map[string]string{"profileId": alice.ID.Hex(), "newRole": "viewer"},
		testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleRoleChange(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Error != "You cannot change the role of your own membership." {
		t.Errorf("error = %q", body.Error)
	}
}

func TestHandleRoleChange_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := memberships.NewHandler(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	aliceUser, alice := fixtures.CreateAccount(ctx, "alice", "alice@example.com")
	_, bob := fixtures.CreateAccount(ctx, "bob", "bob@example.com")
	g := fixtures.CreateGarden(ctx, "herb-patch", "Herb Patch", alice)
	fixtures.AddMember(ctx, g.ID, bob, "viewer", models.MembershipAccepted, &alice.ID)

	req := gardenRequest(t, http.MethodPost, g.ID, "role",
		map[string]string{"profileId": bob.ID.Hex(), "newRole": "owner"},
		testutil.ClientFor(aliceUser, alice))
	rec := httptest.NewRecorder()
	h.HandleRoleChange(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body errorBody
	testutil.DecodeJSON(t, rec, &body)
	if len(body.FieldErrors["newRole"]) == 0 {
		t.Errorf("expected newRole field error, got %v", body.FieldErrors)
	}
}
