package server

import "NeonArena/internal/game"

// Wire payloads are defined next to the world state they mirror; the server
// aliases them so handler signatures stay in this package's vocabulary.

type SessionDTO = game.SessionPayload
type AvatarDTO = game.Avatar
type ProjectileDTO = game.Projectile
type CollectibleDTO = game.Collectible
type StunnedDTO = game.StunnedPayload
type CollectibleClaimedDTO = game.CollectibleClaimedPayload

// joinDTO is the client's session request. An empty token mints a fresh
// identity; a previously issued token restores it.
type joinDTO struct {
	Token string `json:"token,omitempty"`
}

// updateDTO carries a partial avatar update. Pointer fields distinguish
// "not sent" from zero values so the patch semantics stay exact.
type updateDTO struct {
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Direction *int     `json:"direction,omitempty"`
	Name      *string  `json:"name,omitempty"`
	Color     *string  `json:"color,omitempty"`
	Skin      *int     `json:"skin,omitempty"`
}

func (u updateDTO) patch() game.AvatarPatch {
	return game.AvatarPatch{
		X:         u.X,
		Y:         u.Y,
		Direction: u.Direction,
		Name:      u.Name,
		Color:     u.Color,
		Skin:      u.Skin,
	}
}

type fireDTO struct {
	DirX float64 `json:"dirX"`
	DirY float64 `json:"dirY"`
}

type claimDTO struct {
	ID       string  `json:"id"`
	ClaimedX float64 `json:"claimedX"`
	ClaimedY float64 `json:"claimedY"`
}
