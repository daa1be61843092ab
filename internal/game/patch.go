package game

// AvatarPatch names exactly the fields a client update may change. Nil fields
// are left untouched. Partial-update semantics live in one place: while the
// identity is stunned only the cosmetic fields apply, and positions are always
// clamped to world bounds.
type AvatarPatch struct {
	X         *float64
	Y         *float64
	Direction *int
	Name      *string
	Color     *string
	Skin      *int
}

func (p AvatarPatch) apply(a *Avatar, stunned bool, worldSize float64) {
	if !stunned {
		if p.X != nil {
			a.X = Clamp(*p.X, 0, worldSize)
		}
		if p.Y != nil {
			a.Y = Clamp(*p.Y, 0, worldSize)
		}
	}
	if p.Direction != nil {
		a.Direction = *p.Direction
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
	if p.Skin != nil {
		a.Skin = *p.Skin
	}
}
