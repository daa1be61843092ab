package game

// Tick advances the simulation by one fixed step: projectile motion, culling,
// hit resolution, the session retention sweep, and the dirty-flag broadcast.
func (r *Room) Tick() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.Now += r.Tuning.Dt()

	stepProjectiles(r)
	sweepSessions(r)
	publishDirty(r)
}

func stepProjectiles(r *Room) {
	size := r.Tuning.WorldSize
	for _, id := range r.World.ProjectileIDs() {
		p, ok := r.World.Projectiles[id]
		if !ok {
			continue
		}
		p.X += p.VX
		p.Y += p.VY

		if p.X < 0 || p.X > size || p.Y < 0 || p.Y > size ||
			r.Now-p.CreatedAt > r.Tuning.ProjectileLifetime {
			r.World.RemoveProjectile(id)
			r.broadcastLocked(MsgProjectileRemoved, ProjectileRemovedPayload{ID: id})
			continue
		}

		var hit *Avatar
		r.World.EachAvatar(func(a *Avatar) bool {
			if a.Token == p.Owner {
				return true
			}
			if r.World.Stuns[a.Token].Immune(r.Now) {
				return true
			}
			if (Vec2{p.X, p.Y}).Sub(a.Pos()).Len() < r.Tuning.HitRadius {
				hit = a
				return false
			}
			return true
		})
		if hit != nil {
			applyHit(r, p, hit)
		}
	}
}

func applyHit(r *Room, p *Projectile, victim *Avatar) {
	window := StunWindow{
		Until:       r.Now + r.Tuning.StunDuration,
		ImmuneUntil: r.Now + r.Tuning.StunDuration + r.Tuning.ImmunityDuration,
	}
	r.World.Stuns[victim.Token] = window
	if r.Tuning.ScorePenaltyOnHit {
		r.World.AddScore(victim.Token, -1)
		r.scoresDirty = true
	}
	r.broadcastLocked(MsgAvatarStunned, StunnedPayload{
		Token:       victim.Token,
		Until:       window.Until,
		ImmuneUntil: window.ImmuneUntil,
	})
	r.World.RemoveProjectile(p.ID)
	r.broadcastLocked(MsgProjectileRemoved, ProjectileRemovedPayload{ID: p.ID})
}

// sweepSessions expires identities that have been disconnected longer than
// SessionTTL, releasing their avatar, score and stun window.
func sweepSessions(r *Room) {
	for token, sess := range r.Sessions {
		if sess.connected {
			continue
		}
		if r.Now-sess.LastSeen <= r.Tuning.SessionTTL {
			continue
		}
		delete(r.Sessions, token)
		r.World.RemoveAvatar(token)
		r.scoresDirty = true
		r.broadcastLocked(MsgAvatarRemoved, AvatarRemovedPayload{Token: token})
	}
}

// publishDirty queues whichever tables changed this tick, plus a periodic
// full resync that corrects any delta a client missed.
func publishDirty(r *Room) {
	if r.avatarsDirty {
		r.broadcastLocked(MsgAvatarTable, r.avatarTableLocked())
		r.avatarsDirty = false
	}
	if r.scoresDirty {
		r.broadcastLocked(MsgScoreTable, r.scoreTableLocked())
		r.scoresDirty = false
	}
	if r.Now-r.lastResync >= r.Tuning.ResyncInterval {
		r.lastResync = r.Now
		for _, msg := range r.resyncMessagesLocked() {
			r.broadcastLocked(msg.Type, msg.Payload)
		}
	}
}
