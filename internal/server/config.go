package server

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"NeonArena/internal/game"
)

// TuningOverrides represents optional command-line overrides applied on top
// of whatever the config file provides.
type TuningOverrides struct {
	WorldSize          *float64
	TickRate           *float64
	ProjectileSpeed    *float64
	ProjectileLifetime *float64
	FireCooldown       *float64
	StunDuration       *float64
	ImmunityDuration   *float64
	HitRadius          *float64
	CollectRadius      *float64
	SpawnInterval      *float64
	CollectibleCap     *int
	AvatarSpeed        *float64
	ResyncInterval     *float64
	SessionTTL         *float64
	ScorePenaltyOnHit  *bool
}

func (o TuningOverrides) apply(base game.Tuning) game.Tuning {
	if o.WorldSize != nil {
		base.WorldSize = *o.WorldSize
	}
	if o.TickRate != nil {
		base.TickRate = *o.TickRate
	}
	if o.ProjectileSpeed != nil {
		base.ProjectileSpeed = *o.ProjectileSpeed
	}
	if o.ProjectileLifetime != nil {
		base.ProjectileLifetime = *o.ProjectileLifetime
	}
	if o.FireCooldown != nil {
		base.FireCooldown = *o.FireCooldown
	}
	if o.StunDuration != nil {
		base.StunDuration = *o.StunDuration
	}
	if o.ImmunityDuration != nil {
		base.ImmunityDuration = *o.ImmunityDuration
	}
	if o.HitRadius != nil {
		base.HitRadius = *o.HitRadius
	}
	if o.CollectRadius != nil {
		base.CollectRadius = *o.CollectRadius
	}
	if o.SpawnInterval != nil {
		base.SpawnInterval = *o.SpawnInterval
	}
	if o.CollectibleCap != nil {
		base.CollectibleCap = *o.CollectibleCap
	}
	if o.AvatarSpeed != nil {
		base.AvatarSpeed = *o.AvatarSpeed
	}
	if o.ResyncInterval != nil {
		base.ResyncInterval = *o.ResyncInterval
	}
	if o.SessionTTL != nil {
		base.SessionTTL = *o.SessionTTL
	}
	if o.ScorePenaltyOnHit != nil {
		base.ScorePenaltyOnHit = *o.ScorePenaltyOnHit
	}
	return game.SanitizeTuning(base)
}

// loadTuningFromFile reads a yaml tuning file with viper, using base for any
// key the file does not set. A missing file is not an error.
func loadTuningFromFile(path string, base game.Tuning) (game.Tuning, error) {
	if path == "" {
		return game.SanitizeTuning(base), nil
	}
	cleanPath := filepath.Clean(path)
	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return game.SanitizeTuning(base), nil
	}

	v := viper.New()
	v.SetConfigFile(cleanPath)
	v.SetDefault("world_size", base.WorldSize)
	v.SetDefault("tick_rate", base.TickRate)
	v.SetDefault("projectile_speed", base.ProjectileSpeed)
	v.SetDefault("projectile_lifetime", base.ProjectileLifetime)
	v.SetDefault("fire_cooldown", base.FireCooldown)
	v.SetDefault("stun_duration", base.StunDuration)
	v.SetDefault("immunity_duration", base.ImmunityDuration)
	v.SetDefault("hit_radius", base.HitRadius)
	v.SetDefault("collect_radius", base.CollectRadius)
	v.SetDefault("spawn_interval", base.SpawnInterval)
	v.SetDefault("collectible_cap", base.CollectibleCap)
	v.SetDefault("avatar_speed", base.AvatarSpeed)
	v.SetDefault("resync_interval", base.ResyncInterval)
	v.SetDefault("session_ttl", base.SessionTTL)
	v.SetDefault("score_penalty_on_hit", base.ScorePenaltyOnHit)

	if err := v.ReadInConfig(); err != nil {
		return game.SanitizeTuning(base), fmt.Errorf("read tuning config %q: %w", cleanPath, err)
	}
	var tuning game.Tuning
	if err := v.Unmarshal(&tuning); err != nil {
		return game.SanitizeTuning(base), fmt.Errorf("parse tuning config %q: %w", cleanPath, err)
	}
	return game.SanitizeTuning(tuning), nil
}
