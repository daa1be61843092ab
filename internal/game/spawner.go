package game

import "math/rand"

// SpawnCollectible runs one firing of the spawner: below capacity, one new
// collectible appears at a uniform random in-bounds position. The spawner runs
// on its own period, independent of the tick loop, but serializes on the same
// lock.
func (r *Room) SpawnCollectible() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if len(r.World.Collectibles) >= r.Tuning.CollectibleCap {
		return
	}
	c := &Collectible{
		ID:        RandId("col"),
		X:         rand.Float64() * r.Tuning.WorldSize,
		Y:         rand.Float64() * r.Tuning.WorldSize,
		SpawnedAt: r.Now,
	}
	r.World.AddCollectible(c)
	r.broadcastLocked(MsgCollectibleSpawned, *c)
}
