package game

// Avatar is the authoritative state for one identity's presence in the arena.
type Avatar struct {
	Token     string  `json:"token"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction int     `json:"direction"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Skin      int     `json:"skin"`
}

func (a *Avatar) Pos() Vec2 { return Vec2{a.X, a.Y} }

type Projectile struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Owner     string  `json:"owner"`
	CreatedAt float64 `json:"createdAt"`
}

type Collectible struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	SpawnedAt float64 `json:"spawnedAt"`
}

// StunPhase is the shared stun vocabulary for server validation and client
// rendering. Transitions are driven purely by timestamp comparison.
type StunPhase int

const (
	PhaseActive StunPhase = iota
	PhaseStunned
	PhaseImmune
)

// StunWindow is a timed status effect. The zero value means no effect.
type StunWindow struct {
	Until       float64 `json:"until"`
	ImmuneUntil float64 `json:"immuneUntil"`
}

func (s StunWindow) Stunned(now float64) bool { return s.Until > now }
func (s StunWindow) Immune(now float64) bool  { return s.ImmuneUntil > now }

func (s StunWindow) Phase(now float64) StunPhase {
	switch {
	case s.Until > now:
		return PhaseStunned
	case s.ImmuneUntil > now:
		return PhaseImmune
	default:
		return PhaseActive
	}
}

// World owns every authoritative entity table. Maps are paired with insertion
// order slices so collision and claim scans are deterministic: first hit and
// first claim win by insertion order, not map iteration order.
type World struct {
	Avatars      map[string]*Avatar
	Projectiles  map[string]*Projectile
	Collectibles map[string]*Collectible
	Stuns        map[string]StunWindow
	Scores       map[string]int

	avatarOrder      []string
	projectileOrder  []string
	collectibleOrder []string
}

func NewWorld() *World {
	return &World{
		Avatars:      map[string]*Avatar{},
		Projectiles:  map[string]*Projectile{},
		Collectibles: map[string]*Collectible{},
		Stuns:        map[string]StunWindow{},
		Scores:       map[string]int{},
	}
}

func (w *World) AddAvatar(a *Avatar) {
	if _, ok := w.Avatars[a.Token]; !ok {
		w.avatarOrder = append(w.avatarOrder, a.Token)
	}
	w.Avatars[a.Token] = a
}

func (w *World) RemoveAvatar(token string) {
	if _, ok := w.Avatars[token]; !ok {
		return
	}
	delete(w.Avatars, token)
	delete(w.Stuns, token)
	delete(w.Scores, token)
	w.avatarOrder = removeKey(w.avatarOrder, token)
}

func (w *World) AddProjectile(p *Projectile) {
	if _, ok := w.Projectiles[p.ID]; !ok {
		w.projectileOrder = append(w.projectileOrder, p.ID)
	}
	w.Projectiles[p.ID] = p
}

func (w *World) RemoveProjectile(id string) {
	if _, ok := w.Projectiles[id]; !ok {
		return
	}
	delete(w.Projectiles, id)
	w.projectileOrder = removeKey(w.projectileOrder, id)
}

func (w *World) AddCollectible(c *Collectible) {
	if _, ok := w.Collectibles[c.ID]; !ok {
		w.collectibleOrder = append(w.collectibleOrder, c.ID)
	}
	w.Collectibles[c.ID] = c
}

func (w *World) RemoveCollectible(id string) {
	if _, ok := w.Collectibles[id]; !ok {
		return
	}
	delete(w.Collectibles, id)
	w.collectibleOrder = removeKey(w.collectibleOrder, id)
}

// EachAvatar visits avatars in insertion order. The visitor may not mutate the
// avatar table; use the snapshot helpers for that.
func (w *World) EachAvatar(fn func(*Avatar) bool) {
	for _, token := range w.avatarOrder {
		if a, ok := w.Avatars[token]; ok {
			if !fn(a) {
				return
			}
		}
	}
}

// ProjectileIDs returns the live projectile ids in insertion order. The caller
// may delete projectiles while iterating the returned slice.
func (w *World) ProjectileIDs() []string {
	ids := make([]string, len(w.projectileOrder))
	copy(ids, w.projectileOrder)
	return ids
}

func (w *World) CollectibleIDs() []string {
	ids := make([]string, len(w.collectibleOrder))
	copy(ids, w.collectibleOrder)
	return ids
}

// AddScore adjusts a score by delta, flooring at zero.
func (w *World) AddScore(token string, delta int) int {
	next := w.Scores[token] + delta
	if next < 0 {
		next = 0
	}
	w.Scores[token] = next
	return next
}

func removeKey(order []string, key string) []string {
	for i, k := range order {
		if k == key {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
