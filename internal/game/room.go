package game

import (
	"math/rand"
	"sync"
	"time"
)

// Room owns one arena world. All mutation happens with Mu held: websocket
// handlers, the tick loop, the spawner and the session sweep all serialize on
// it, which is what makes first-hit-wins and first-claim-wins exact.
type Room struct {
	ID       string
	Now      float64
	Tuning   Tuning
	World    *World
	Sessions map[string]*Session
	Mu       sync.Mutex

	avatarsDirty bool
	scoresDirty  bool
	lastResync   float64

	startOnce sync.Once
	stopOnce  sync.Once
	quit      chan struct{}
}

func newRoom(id string, tuning Tuning) *Room {
	return &Room{
		ID:       id,
		Tuning:   tuning,
		World:    NewWorld(),
		Sessions: map[string]*Session{},
		quit:     make(chan struct{}),
	}
}

// Start launches the room's two periodic tasks: the tick simulator and the
// collectible spawner. They run on independent periods but serialize all
// mutation on the room lock.
func (r *Room) Start() {
	r.startOnce.Do(func() {
		go r.runSim()
		go r.runSpawner()
	})
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

func (r *Room) runSim() {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / r.Tuning.TickRate))
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

func (r *Room) runSpawner() {
	ticker := time.NewTicker(time.Duration(r.Tuning.SpawnInterval * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.SpawnCollectible()
		}
	}
}

type Hub struct {
	Rooms  map[string]*Room
	Tuning Tuning
	Mu     sync.Mutex
}

func NewHub(tuning Tuning) *Hub {
	return &Hub{Rooms: map[string]*Room{}, Tuning: tuning}
}

func (h *Hub) GetRoom(id string) *Room {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	r, ok := h.Rooms[id]
	if !ok {
		r = newRoom(id, h.Tuning)
		h.Rooms[id] = r
		r.Start()
	}
	return r
}

// CleanupEmptyRooms drops rooms whose sessions have all expired.
func (h *Hub) CleanupEmptyRooms() {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	for id, r := range h.Rooms {
		r.Mu.Lock()
		empty := len(r.Sessions) == 0
		r.Mu.Unlock()
		if empty {
			r.Stop()
			delete(h.Rooms, id)
		}
	}
}

// Connect resolves a session for a new connection. A known token restores the
// existing identity with its last known avatar and score unmodified; anything
// else mints a fresh identity at a random spawn point.
func (r *Room) Connect(token string) SessionPayload {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	// A token already owned by a live connection is treated as unknown: one
	// token has at most one connection at a time.
	if sess, ok := r.Sessions[token]; ok && !sess.connected {
		sess.connected = true
		sess.pending = nil
		sess.needResync = true
		if _, ok := r.World.Avatars[token]; !ok {
			// Session known but avatar already swept; respawn in place.
			r.World.AddAvatar(r.newAvatarLocked(sess))
			r.avatarsDirty = true
		}
		return SessionPayload{
			Token:     sess.Token,
			Avatar:    *r.World.Avatars[token],
			Score:     r.World.Scores[token],
			Returning: true,
			Now:       r.Now,
		}
	}

	sess := newSession(r.Now)
	sess.connected = true
	sess.needResync = true
	r.Sessions[sess.Token] = sess
	r.World.AddAvatar(r.newAvatarLocked(sess))
	r.avatarsDirty = true
	return SessionPayload{
		Token:  sess.Token,
		Avatar: *r.World.Avatars[sess.Token],
		Now:    r.Now,
	}
}

func (r *Room) newAvatarLocked(sess *Session) *Avatar {
	return &Avatar{
		Token:     sess.Token,
		X:         rand.Float64() * r.Tuning.WorldSize,
		Y:         rand.Float64() * r.Tuning.WorldSize,
		Direction: 1,
		Name:      sess.Name,
		Color:     sess.Color,
		Skin:      sess.Skin,
	}
}

// Disconnect marks the session idle. Its avatar and score stay in the world
// until the retention sweep expires them.
func (r *Room) Disconnect(token string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	sess, ok := r.Sessions[token]
	if !ok {
		return
	}
	sess.connected = false
	sess.LastSeen = r.Now
	sess.pending = nil
}

// ApplyAvatarPatch merges a validated client update. Stunned identities keep
// their position but still accept cosmetic fields.
func (r *Room) ApplyAvatarPatch(token string, patch AvatarPatch) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	a, ok := r.World.Avatars[token]
	if !ok {
		return
	}
	stunned := r.World.Stuns[token].Stunned(r.Now)
	patch.apply(a, stunned, r.Tuning.WorldSize)
	sess := r.Sessions[token]
	if sess != nil {
		sess.Name = a.Name
		sess.Color = a.Color
		sess.Skin = a.Skin
	}
	r.avatarsDirty = true
}

// Fire validates a fire request and creates a projectile at the avatar's
// position. Requests inside the cooldown window, while stunned, or with a
// zero-magnitude aim vector are silently ignored.
func (r *Room) Fire(token string, aim Vec2) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	a, ok := r.World.Avatars[token]
	if !ok {
		return
	}
	sess, ok := r.Sessions[token]
	if !ok {
		return
	}
	if r.World.Stuns[token].Stunned(r.Now) {
		return
	}
	if sess.CooldownUntil > r.Now {
		return
	}
	dir, ok := aim.Normalize()
	if !ok {
		return
	}
	vel := dir.Scale(r.Tuning.ProjectileSpeed)
	p := &Projectile{
		ID:        RandId("proj"),
		X:         a.X,
		Y:         a.Y,
		VX:        vel.X,
		VY:        vel.Y,
		Owner:     token,
		CreatedAt: r.Now,
	}
	r.World.AddProjectile(p)
	sess.CooldownUntil = r.Now + r.Tuning.FireCooldown
	r.broadcastLocked(MsgProjectileCreated, *p)
}

// Claim honors a client-detected collectible pickup after re-checking the
// distance. The existence check and delete happen under the room lock, so the
// first claim wins and a second claim for the same id is a no-op.
func (r *Room) Claim(token, id string, claimed Vec2) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if _, ok := r.World.Avatars[token]; !ok {
		return
	}
	c, ok := r.World.Collectibles[id]
	if !ok {
		return
	}
	if (Vec2{c.X, c.Y}).Sub(claimed).Len() >= r.Tuning.CollectRadius {
		return
	}
	score := r.World.AddScore(token, 1)
	r.World.RemoveCollectible(id)
	r.scoresDirty = true
	r.broadcastLocked(MsgCollectibleClaimed, CollectibleClaimedPayload{ID: id, Token: token, Score: score})
}

// DrainOutbound hands the session's queued events to its writer goroutine.
// A session flagged for resync gets the full tables first.
func (r *Room) DrainOutbound(token string) []OutboundMessage {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	sess, ok := r.Sessions[token]
	if !ok || !sess.connected {
		return nil
	}
	var out []OutboundMessage
	if sess.needResync {
		sess.needResync = false
		out = append(out, r.resyncMessagesLocked()...)
	}
	return append(out, sess.ConsumePendingMessages()...)
}

func (r *Room) resyncMessagesLocked() []OutboundMessage {
	return []OutboundMessage{
		{Type: MsgAvatarTable, Payload: r.avatarTableLocked()},
		{Type: MsgProjectileTable, Payload: r.projectileTableLocked()},
		{Type: MsgCollectibleTable, Payload: r.collectibleTableLocked()},
		{Type: MsgScoreTable, Payload: r.scoreTableLocked()},
	}
}

func (r *Room) broadcastLocked(msgType string, payload interface{}) {
	for _, sess := range r.Sessions {
		sess.SendMessage(msgType, payload)
	}
}

// Table snapshots are value copies so they can be marshaled after the lock is
// released.

func (r *Room) avatarTableLocked() map[string]Avatar {
	table := make(map[string]Avatar, len(r.World.Avatars))
	for token, a := range r.World.Avatars {
		table[token] = *a
	}
	return table
}

func (r *Room) projectileTableLocked() []Projectile {
	table := make([]Projectile, 0, len(r.World.Projectiles))
	for _, id := range r.World.ProjectileIDs() {
		table = append(table, *r.World.Projectiles[id])
	}
	return table
}

func (r *Room) collectibleTableLocked() []Collectible {
	table := make([]Collectible, 0, len(r.World.Collectibles))
	for _, id := range r.World.CollectibleIDs() {
		table = append(table, *r.World.Collectibles[id])
	}
	return table
}

func (r *Room) scoreTableLocked() map[string]int {
	table := make(map[string]int, len(r.World.Scores))
	for token, score := range r.World.Scores {
		table[token] = score
	}
	return table
}
