package game

// Tuning holds every constant that defines observable simulation behavior.
// Values travel as one unit so a room, a test or a bot can run with its own set.
type Tuning struct {
	WorldSize          float64 `mapstructure:"world_size"`
	TickRate           float64 `mapstructure:"tick_rate"`           // simulation steps per second
	ProjectileSpeed    float64 `mapstructure:"projectile_speed"`    // world units per tick
	ProjectileLifetime float64 `mapstructure:"projectile_lifetime"` // seconds
	FireCooldown       float64 `mapstructure:"fire_cooldown"`       // seconds
	StunDuration       float64 `mapstructure:"stun_duration"`       // seconds
	ImmunityDuration   float64 `mapstructure:"immunity_duration"`   // seconds
	HitRadius          float64 `mapstructure:"hit_radius"`
	CollectRadius      float64 `mapstructure:"collect_radius"`
	SpawnInterval      float64 `mapstructure:"spawn_interval"` // seconds
	CollectibleCap     int     `mapstructure:"collectible_cap"`
	AvatarSpeed        float64 `mapstructure:"avatar_speed"` // units per client frame
	ResyncInterval     float64 `mapstructure:"resync_interval"` // seconds between full table resyncs
	SessionTTL         float64 `mapstructure:"session_ttl"`     // seconds a disconnected session is retained
	ScorePenaltyOnHit  bool    `mapstructure:"score_penalty_on_hit"`
}

func DefaultTuning() Tuning {
	return Tuning{
		WorldSize:          50000,
		TickRate:           50,
		ProjectileSpeed:    25,
		ProjectileLifetime: 2.0,
		FireCooldown:       0.5,
		StunDuration:       3.0,
		ImmunityDuration:   5.0,
		HitRadius:          30,
		CollectRadius:      50,
		SpawnInterval:      1.0,
		CollectibleCap:     250,
		AvatarSpeed:        15,
		ResyncInterval:     5.0,
		SessionTTL:         300,
		ScorePenaltyOnHit:  true,
	}
}

// SanitizeTuning clamps nonsensical values back to usable ones so a bad config
// file can degrade behavior but never wedge the simulation.
func SanitizeTuning(t Tuning) Tuning {
	def := DefaultTuning()
	if t.WorldSize <= 0 {
		t.WorldSize = def.WorldSize
	}
	if t.TickRate <= 0 {
		t.TickRate = def.TickRate
	}
	if t.ProjectileSpeed <= 0 {
		t.ProjectileSpeed = def.ProjectileSpeed
	}
	if t.ProjectileLifetime <= 0 {
		t.ProjectileLifetime = def.ProjectileLifetime
	}
	if t.FireCooldown < 0 {
		t.FireCooldown = 0
	}
	if t.StunDuration < 0 {
		t.StunDuration = 0
	}
	if t.ImmunityDuration < 0 {
		t.ImmunityDuration = 0
	}
	if t.HitRadius <= 0 {
		t.HitRadius = def.HitRadius
	}
	if t.CollectRadius <= 0 {
		t.CollectRadius = def.CollectRadius
	}
	if t.SpawnInterval <= 0 {
		t.SpawnInterval = def.SpawnInterval
	}
	if t.CollectibleCap < 0 {
		t.CollectibleCap = 0
	}
	if t.AvatarSpeed <= 0 {
		t.AvatarSpeed = def.AvatarSpeed
	}
	if t.ResyncInterval <= 0 {
		t.ResyncInterval = def.ResyncInterval
	}
	if t.SessionTTL <= 0 {
		t.SessionTTL = def.SessionTTL
	}
	return t
}

// Dt is the simulation step length in seconds.
func (t Tuning) Dt() float64 { return 1.0 / t.TickRate }
