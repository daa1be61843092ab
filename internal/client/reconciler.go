// Package client holds the per-client simulation counterpart to the
// authoritative server: local input prediction, remote avatar interpolation,
// and optimistic collectible pickups pending server confirmation.
package client

import (
	"NeonArena/internal/game"
)

// RemoteAvatar tracks one remote player's displayed and target positions. A
// newly seen avatar starts at its reported position; later snapshots only move
// the target, and Advance eases the displayed position toward it.
type RemoteAvatar struct {
	Avatar game.Avatar
	X, Y   float64 // displayed position
}

// Reconciler maintains the local render view of the world from server
// messages. It is not goroutine-safe; drive it from one loop.
type Reconciler struct {
	Tuning game.Tuning

	// LerpFactor is the fraction of the remaining distance a remote avatar
	// covers per Advance call.
	LerpFactor float64

	Token        string
	Local        LocalAvatar
	Remotes      map[string]*RemoteAvatar
	Projectiles  map[string]game.Projectile
	Collectibles map[string]game.Collectible
	Scores       map[string]int
	Stuns        map[string]game.StunWindow

	// pendingClaims holds optimistically removed collectibles so a resync
	// that still contains them can put them back.
	pendingClaims map[string]game.Collectible
}

// LocalAvatar is the predicted self. Input applies immediately; the server
// may still reject the resulting position updates while stunned, and that
// divergence is accepted rather than reconciled.
type LocalAvatar struct {
	Avatar game.Avatar
	Score  int
}

func NewReconciler(tuning game.Tuning) *Reconciler {
	return &Reconciler{
		Tuning:        tuning,
		LerpFactor:    0.15,
		Remotes:       map[string]*RemoteAvatar{},
		Projectiles:   map[string]game.Projectile{},
		Collectibles:  map[string]game.Collectible{},
		Scores:        map[string]int{},
		Stuns:         map[string]game.StunWindow{},
		pendingClaims: map[string]game.Collectible{},
	}
}

// ApplySession installs the authoritative identity on (re)connect.
func (r *Reconciler) ApplySession(s game.SessionPayload) {
	r.Token = s.Token
	r.Local.Avatar = s.Avatar
	r.Local.Score = s.Score
}

// ApplyInput integrates one frame of movement input immediately
// (client-side prediction). Movement is ignored while the locally known stun
// window is active; direction still updates so the sprite can turn.
func (r *Reconciler) ApplyInput(dx, dy float64, now float64) {
	if dx < 0 {
		r.Local.Avatar.Direction = -1
	} else if dx > 0 {
		r.Local.Avatar.Direction = 1
	}
	if r.Stuns[r.Token].Stunned(now) {
		return
	}
	dir, ok := (game.Vec2{X: dx, Y: dy}).Normalize()
	if !ok {
		return
	}
	step := dir.Scale(r.Tuning.AvatarSpeed)
	r.Local.Avatar.X = game.Clamp(r.Local.Avatar.X+step.X, 0, r.Tuning.WorldSize)
	r.Local.Avatar.Y = game.Clamp(r.Local.Avatar.Y+step.Y, 0, r.Tuning.WorldSize)
}

// ApplyAvatarTable merges a full avatar snapshot. The local avatar is skipped:
// its predicted position wins.
func (r *Reconciler) ApplyAvatarTable(table map[string]game.Avatar) {
	seen := make(map[string]bool, len(table))
	for token, a := range table {
		seen[token] = true
		if token == r.Token {
			continue
		}
		remote, ok := r.Remotes[token]
		if !ok {
			r.Remotes[token] = &RemoteAvatar{Avatar: a, X: a.X, Y: a.Y}
			continue
		}
		remote.Avatar = a // position fields become the interpolation target
	}
	for token := range r.Remotes {
		if !seen[token] {
			delete(r.Remotes, token)
		}
	}
}

func (r *Reconciler) RemoveAvatar(token string) {
	delete(r.Remotes, token)
	delete(r.Scores, token)
	delete(r.Stuns, token)
}

// Advance runs one render frame of interpolation: each remote avatar moves a
// fixed fraction of its remaining distance toward the last reported position.
func (r *Reconciler) Advance() {
	for _, remote := range r.Remotes {
		remote.X += (remote.Avatar.X - remote.X) * r.LerpFactor
		remote.Y += (remote.Avatar.Y - remote.Y) * r.LerpFactor
	}
}

func (r *Reconciler) ApplyStun(s game.StunnedPayload) {
	r.Stuns[s.Token] = game.StunWindow{Until: s.Until, ImmuneUntil: s.ImmuneUntil}
}

func (r *Reconciler) ApplyProjectileCreated(p game.Projectile) {
	r.Projectiles[p.ID] = p
}

func (r *Reconciler) ApplyProjectileRemoved(id string) {
	delete(r.Projectiles, id)
}

func (r *Reconciler) ApplyProjectileTable(table []game.Projectile) {
	r.Projectiles = make(map[string]game.Projectile, len(table))
	for _, p := range table {
		r.Projectiles[p.ID] = p
	}
}

func (r *Reconciler) ApplyCollectibleSpawned(c game.Collectible) {
	r.Collectibles[c.ID] = c
}

// ApplyCollectibleTable replaces the collectible view from a resync. A
// collectible still present on the server cancels any optimistic local
// removal; one absent from the table settles the pending claim.
func (r *Reconciler) ApplyCollectibleTable(table []game.Collectible) {
	r.Collectibles = make(map[string]game.Collectible, len(table))
	for _, c := range table {
		r.Collectibles[c.ID] = c
		delete(r.pendingClaims, c.ID)
	}
	for id := range r.pendingClaims {
		if _, ok := r.Collectibles[id]; !ok {
			delete(r.pendingClaims, id)
		}
	}
}

// ClaimLocally removes a collectible from the local view before the server
// confirms (optimistic pickup). Returns false if it is not in view.
func (r *Reconciler) ClaimLocally(id string) bool {
	c, ok := r.Collectibles[id]
	if !ok {
		return false
	}
	delete(r.Collectibles, id)
	r.pendingClaims[id] = c
	return true
}

// ApplyCollectibleClaimed settles a claim: ours confirms the optimistic
// removal and updates the score; someone else's removes the collectible from
// view if we had not claimed it ourselves.
func (r *Reconciler) ApplyCollectibleClaimed(p game.CollectibleClaimedPayload) {
	delete(r.Collectibles, p.ID)
	delete(r.pendingClaims, p.ID)
	if p.Token == r.Token {
		r.Local.Score = p.Score
	}
	r.Scores[p.Token] = p.Score
}

func (r *Reconciler) ApplyScoreTable(table map[string]int) {
	r.Scores = table
	if score, ok := table[r.Token]; ok {
		r.Local.Score = score
	}
}

// PendingClaims reports how many optimistic pickups await settlement.
func (r *Reconciler) PendingClaims() int { return len(r.pendingClaims) }

// NearestCollectible returns the closest collectible within the collection
// radius of the predicted local position, for client-side pickup detection.
func (r *Reconciler) NearestCollectible() (game.Collectible, bool) {
	var best game.Collectible
	bestDist := r.Tuning.CollectRadius
	found := false
	pos := game.Vec2{X: r.Local.Avatar.X, Y: r.Local.Avatar.Y}
	for _, c := range r.Collectibles {
		d := (game.Vec2{X: c.X, Y: c.Y}).Sub(pos).Len()
		if d < bestDist {
			best = c
			bestDist = d
			found = true
		}
	}
	return best, found
}
