package client

import (
	"math"
	"testing"

	"NeonArena/internal/game"
)

func newTestReconciler() *Reconciler {
	r := NewReconciler(game.DefaultTuning())
	r.ApplySession(game.SessionPayload{
		Token:  "self",
		Avatar: game.Avatar{Token: "self", X: 1000, Y: 1000, Direction: 1},
	})
	return r
}

func TestRemoteSnapsOnFirstSightThenLerps(t *testing.T) {
	r := newTestReconciler()
	r.ApplyAvatarTable(map[string]game.Avatar{
		"other": {Token: "other", X: 100, Y: 100},
	})
	remote := r.Remotes["other"]
	if remote == nil || remote.X != 100 || remote.Y != 100 {
		t.Fatalf("first snapshot did not snap the displayed position")
	}

	r.ApplyAvatarTable(map[string]game.Avatar{
		"other": {Token: "other", X: 200, Y: 100},
	})
	if remote.X != 100 {
		t.Fatalf("snapshot moved the displayed position before Advance")
	}

	r.Advance()
	if math.Abs(remote.X-115) > 1e-9 {
		t.Fatalf("displayed X after one frame = %v, want 115", remote.X)
	}
	r.Advance()
	if math.Abs(remote.X-(115+(200-115)*0.15)) > 1e-9 {
		t.Fatalf("displayed X after two frames = %v", remote.X)
	}
}

func TestAvatarTableDropsAbsentRemotes(t *testing.T) {
	r := newTestReconciler()
	r.ApplyAvatarTable(map[string]game.Avatar{
		"other": {Token: "other", X: 100, Y: 100},
	})
	r.ApplyAvatarTable(map[string]game.Avatar{})
	if _, ok := r.Remotes["other"]; ok {
		t.Fatalf("remote survived a snapshot that no longer lists it")
	}
}

func TestAvatarTableSkipsSelf(t *testing.T) {
	r := newTestReconciler()
	r.ApplyAvatarTable(map[string]game.Avatar{
		"self": {Token: "self", X: 5, Y: 5},
	})
	if _, ok := r.Remotes["self"]; ok {
		t.Fatalf("local avatar entered the remote table")
	}
	if r.Local.Avatar.X != 1000 {
		t.Fatalf("snapshot overwrote the predicted local position")
	}
}

func TestApplyInputMovesImmediately(t *testing.T) {
	r := newTestReconciler()
	r.ApplyInput(1, 0, 0)
	if got := r.Local.Avatar.X; got != 1000+r.Tuning.AvatarSpeed {
		t.Fatalf("predicted X = %v, want %v", got, 1000+r.Tuning.AvatarSpeed)
	}
	if r.Local.Avatar.Direction != 1 {
		t.Fatalf("direction = %d, want 1", r.Local.Avatar.Direction)
	}
	r.ApplyInput(-1, 0, 0)
	if r.Local.Avatar.Direction != -1 {
		t.Fatalf("direction after left input = %d, want -1", r.Local.Avatar.Direction)
	}
}

func TestApplyInputDiagonalNormalized(t *testing.T) {
	r := newTestReconciler()
	r.ApplyInput(1, 1, 0)
	step := r.Tuning.AvatarSpeed / math.Sqrt2
	if math.Abs(r.Local.Avatar.X-(1000+step)) > 1e-9 {
		t.Fatalf("diagonal X step = %v, want %v", r.Local.Avatar.X-1000, step)
	}
	if math.Abs(r.Local.Avatar.Y-(1000+step)) > 1e-9 {
		t.Fatalf("diagonal Y step = %v, want %v", r.Local.Avatar.Y-1000, step)
	}
}

func TestApplyInputStunnedTurnsButHolds(t *testing.T) {
	r := newTestReconciler()
	r.ApplyStun(game.StunnedPayload{Token: "self", Until: 10, ImmuneUntil: 15})

	r.ApplyInput(-1, 0, 5)
	if r.Local.Avatar.X != 1000 {
		t.Fatalf("stunned prediction moved to %v", r.Local.Avatar.X)
	}
	if r.Local.Avatar.Direction != -1 {
		t.Fatalf("stunned avatar should still turn")
	}

	r.ApplyInput(-1, 0, 11) // stun over, immunity does not block movement
	if r.Local.Avatar.X != 1000-r.Tuning.AvatarSpeed {
		t.Fatalf("movement blocked after stun expiry: X = %v", r.Local.Avatar.X)
	}
}

func TestApplyInputClampsAtBounds(t *testing.T) {
	r := newTestReconciler()
	r.Local.Avatar.X = 3
	r.Local.Avatar.Y = 3
	r.ApplyInput(-1, -1, 0)
	if r.Local.Avatar.X != 0 || r.Local.Avatar.Y != 0 {
		t.Fatalf("prediction escaped the arena: (%v, %v)", r.Local.Avatar.X, r.Local.Avatar.Y)
	}
}

func TestOptimisticClaimSettledByConfirmation(t *testing.T) {
	r := newTestReconciler()
	r.ApplyCollectibleSpawned(game.Collectible{ID: "col-a", X: 1010, Y: 1010})

	if !r.ClaimLocally("col-a") {
		t.Fatalf("claim of a visible collectible failed")
	}
	if _, ok := r.Collectibles["col-a"]; ok {
		t.Fatalf("optimistic claim left the collectible in view")
	}
	if r.PendingClaims() != 1 {
		t.Fatalf("pending claims = %d, want 1", r.PendingClaims())
	}

	r.ApplyCollectibleClaimed(game.CollectibleClaimedPayload{ID: "col-a", Token: "self", Score: 1})
	if r.PendingClaims() != 0 {
		t.Fatalf("confirmation did not settle the claim")
	}
	if r.Local.Score != 1 {
		t.Fatalf("local score = %d, want 1", r.Local.Score)
	}
}

func TestOptimisticClaimRevertedByResync(t *testing.T) {
	r := newTestReconciler()
	r.ApplyCollectibleSpawned(game.Collectible{ID: "col-a", X: 1010, Y: 1010})
	r.ClaimLocally("col-a")

	// The server rejected the claim: the resync still lists the collectible.
	r.ApplyCollectibleTable([]game.Collectible{{ID: "col-a", X: 1010, Y: 1010}})
	if _, ok := r.Collectibles["col-a"]; !ok {
		t.Fatalf("rejected claim not reverted by resync")
	}
	if r.PendingClaims() != 0 {
		t.Fatalf("reverted claim still pending")
	}
}

func TestOptimisticClaimSettledByResyncAbsence(t *testing.T) {
	r := newTestReconciler()
	r.ApplyCollectibleSpawned(game.Collectible{ID: "col-a", X: 1010, Y: 1010})
	r.ClaimLocally("col-a")

	r.ApplyCollectibleTable([]game.Collectible{})
	if r.PendingClaims() != 0 {
		t.Fatalf("settled claim still pending after resync")
	}
	if _, ok := r.Collectibles["col-a"]; ok {
		t.Fatalf("claimed collectible reappeared")
	}
}

func TestNearestCollectibleWithinRadius(t *testing.T) {
	r := newTestReconciler()
	r.ApplyCollectibleSpawned(game.Collectible{ID: "near", X: 1030, Y: 1000})
	r.ApplyCollectibleSpawned(game.Collectible{ID: "nearer", X: 1010, Y: 1000})
	r.ApplyCollectibleSpawned(game.Collectible{ID: "far", X: 2000, Y: 2000})

	got, ok := r.NearestCollectible()
	if !ok || got.ID != "nearer" {
		t.Fatalf("NearestCollectible = %v (%v), want nearer", got.ID, ok)
	}

	r.ApplyCollectibleTable(nil)
	if _, ok := r.NearestCollectible(); ok {
		t.Fatalf("pickup detected with nothing in view")
	}
}

func TestScoreTableUpdatesLocalScore(t *testing.T) {
	r := newTestReconciler()
	r.ApplyScoreTable(map[string]int{"self": 7, "other": 2})
	if r.Local.Score != 7 {
		t.Fatalf("local score = %d, want 7", r.Local.Score)
	}
	if r.Scores["other"] != 2 {
		t.Fatalf("remote score missing from table")
	}
}

func TestProjectileLifecycle(t *testing.T) {
	r := newTestReconciler()
	r.ApplyProjectileCreated(game.Projectile{ID: "proj-a", X: 1, Y: 2})
	if _, ok := r.Projectiles["proj-a"]; !ok {
		t.Fatalf("created projectile missing")
	}
	r.ApplyProjectileRemoved("proj-a")
	if _, ok := r.Projectiles["proj-a"]; ok {
		t.Fatalf("removed projectile still in view")
	}
	r.ApplyProjectileTable([]game.Projectile{{ID: "proj-b"}})
	if len(r.Projectiles) != 1 {
		t.Fatalf("projectile table not authoritative")
	}
}
