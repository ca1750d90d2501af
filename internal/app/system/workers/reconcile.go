// internal/app/system/workers/reconcile.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	gardenstore "github.com/dalemusser/gardenhub/internal/app/store/gardens"
	membershipstore "github.com/dalemusser/gardenhub/internal/app/store/memberships"
	"github.com/dalemusser/gardenhub/internal/app/system/authz"
	"github.com/dalemusser/gardenhub/internal/app/system/txn"
	"github.com/dalemusser/gardenhub/internal/domain/models"
)

// Reconcile is a background worker that re-derives every garden's
// role-ID sets from its membership documents. Mutations keep the two
// representations in step inside one transaction, so a sweep that
// finds a divergence means a partial write slipped through; the
// membership documents win and the projection is rebuilt from them.
// The one exception is the creator's admin membership, which is
// restored if an outside write removed or demoted it.
type Reconcile struct {
	db       *mongo.Database
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewReconcile creates a new reconcile worker.
func NewReconcile(db *mongo.Database, logger *zap.Logger, interval time.Duration) *Reconcile {
	return &Reconcile{
		db:       db,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background reconcile loop.
func (w *Reconcile) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("reconcile worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *Reconcile) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("reconcile worker stopped")
}

func (w *Reconcile) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep(context.Background())
		}
	}
}

// Sweep reconciles every garden once. Exported so operators and tests
// can trigger a pass directly.
func (w *Reconcile) Sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	ids, err := gardenstore.New(w.db).ListIDs(ctx)
	if err != nil {
		w.log.Error("reconcile: list gardens", zap.Error(err))
		return
	}

	repaired := 0
	for _, id := range ids {
		fixed, err := w.reconcileGarden(ctx, id)
		if err != nil {
			w.log.Error("reconcile: garden", zap.Error(err), zap.String("garden_id", id))
			continue
		}
		if fixed {
			repaired++
		}
	}
	if repaired > 0 {
		w.log.Warn("reconcile: repaired gardens", zap.Int("count", repaired))
	}
}

// reconcileGarden rebuilds one garden's role sets when they disagree
// with the membership documents. Returns true if a repair was written.
func (w *Reconcile) reconcileGarden(ctx context.Context, gardenID string) (bool, error) {
	gardens := gardenstore.New(w.db)
	memberships := membershipstore.New(w.db)

	fixed := false
	err := txn.Run(ctx, w.db.Client(), w.log, func(ctx context.Context) error {
		fixed = false
		g, err := gardens.GetByID(ctx, gardenID)
		if err == mongo.ErrNoDocuments {
			return nil // deleted between listing and now
		}
		if err != nil {
			return err
		}
		list, err := memberships.ListByGarden(ctx, gardenID)
		if err != nil {
			return err
		}
		if authz.CheckGarden(&g, list) == nil {
			return nil
		}

		adminIDs, editorIDs, viewerIDs := deriveRoleSets(list)

		// The creator holds an admin membership for the garden's whole
		// lifetime; leave, revoke and role change all refuse to touch
		// it. A missing or demoted creator membership can only come
		// from outside writes, so restore the document as well as the
		// set entry, otherwise the garden would fail the check on
		// every sweep.
		creatorM, hasCreator := membershipFor(list, g.CreatorID)
		switch {
		case !hasCreator:
			if err := memberships.InsertAccepted(ctx, gardenID, g.CreatorID, authz.RoleAdmin); err != nil {
				return err
			}
			adminIDs = append(adminIDs, g.CreatorID)
		case creatorM.Role != string(authz.RoleAdmin):
			if err := memberships.UpdateRole(ctx, creatorM.ID, authz.RoleAdmin); err != nil {
				return err
			}
			editorIDs = withoutID(editorIDs, g.CreatorID)
			viewerIDs = withoutID(viewerIDs, g.CreatorID)
			if !containsID(adminIDs, g.CreatorID) {
				adminIDs = append(adminIDs, g.CreatorID)
			}
		}

		if err := gardens.ReplaceRoleSets(ctx, gardenID, adminIDs, editorIDs, viewerIDs); err != nil {
			return err
		}
		fixed = true
		w.log.Warn("reconcile: role sets rebuilt",
			zap.String("garden_id", gardenID),
			zap.Int("admins", len(adminIDs)),
			zap.Int("editors", len(editorIDs)),
			zap.Int("viewers", len(viewerIDs)))
		return nil
	})
	return fixed, err
}

// deriveRoleSets projects membership documents into the three role-ID
// sets, dropping duplicates.
func deriveRoleSets(list []models.GardenMembership) (adminIDs, editorIDs, viewerIDs []primitive.ObjectID) {
	seen := make(map[primitive.ObjectID]bool, len(list))
	for _, m := range list {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		switch m.Role {
		case string(authz.RoleAdmin):
			adminIDs = append(adminIDs, m.UserID)
		case string(authz.RoleEditor):
			editorIDs = append(editorIDs, m.UserID)
		case string(authz.RoleViewer):
			viewerIDs = append(viewerIDs, m.UserID)
		}
	}
	return adminIDs, editorIDs, viewerIDs
}

func membershipFor(list []models.GardenMembership, profileID primitive.ObjectID) (models.GardenMembership, bool) {
	for _, m := range list {
		if m.UserID == profileID {
			return m, true
		}
	}
	return models.GardenMembership{}, false
}

func withoutID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
