package main

import (
	"flag"
	"math"

	"NeonArena/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	tuningPath := flag.String("config", "configs/world.yaml", "path to world tuning YAML")
	worldSize := flag.Float64("world-size", math.NaN(), "override world extent")
	tickRate := flag.Float64("tick-rate", math.NaN(), "override simulation tick rate (Hz)")
	projSpeed := flag.Float64("projectile-speed", math.NaN(), "override projectile speed (units/tick)")
	projLifetime := flag.Float64("projectile-lifetime", math.NaN(), "override projectile lifetime (seconds)")
	fireCooldown := flag.Float64("fire-cooldown", math.NaN(), "override fire cooldown (seconds)")
	stun := flag.Float64("stun", math.NaN(), "override stun duration (seconds)")
	immunity := flag.Float64("immunity", math.NaN(), "override post-stun immunity (seconds)")
	hitRadius := flag.Float64("hit-radius", math.NaN(), "override projectile hit radius")
	collectRadius := flag.Float64("collect-radius", math.NaN(), "override collectible pickup radius")
	spawnInterval := flag.Float64("spawn-interval", math.NaN(), "override collectible spawn interval (seconds)")
	collectibleCap := flag.Int("collectible-cap", -1, "override collectible capacity")
	sessionTTL := flag.Float64("session-ttl", math.NaN(), "override idle session retention (seconds)")
	resyncInterval := flag.Float64("resync-interval", math.NaN(), "override full resync interval (seconds)")
	scorePenalty := flag.Bool("score-penalty", true, "decrement score when an avatar is hit")
	flag.Parse()

	cfg := server.DefaultAppConfig()
	cfg.TuningPath = *tuningPath

	var overrides server.TuningOverrides

	if !math.IsNaN(*worldSize) {
		val := *worldSize
		overrides.WorldSize = &val
	}
	if !math.IsNaN(*tickRate) {
		val := *tickRate
		overrides.TickRate = &val
	}
	if !math.IsNaN(*projSpeed) {
		val := *projSpeed
		overrides.ProjectileSpeed = &val
	}
	if !math.IsNaN(*projLifetime) {
		val := *projLifetime
		overrides.ProjectileLifetime = &val
	}
	if !math.IsNaN(*fireCooldown) {
		val := *fireCooldown
		overrides.FireCooldown = &val
	}
	if !math.IsNaN(*stun) {
		val := *stun
		overrides.StunDuration = &val
	}
	if !math.IsNaN(*immunity) {
		val := *immunity
		overrides.ImmunityDuration = &val
	}
	if !math.IsNaN(*hitRadius) {
		val := *hitRadius
		overrides.HitRadius = &val
	}
	if !math.IsNaN(*collectRadius) {
		val := *collectRadius
		overrides.CollectRadius = &val
	}
	if !math.IsNaN(*spawnInterval) {
		val := *spawnInterval
		overrides.SpawnInterval = &val
	}
	if *collectibleCap >= 0 {
		val := *collectibleCap
		overrides.CollectibleCap = &val
	}
	if !math.IsNaN(*sessionTTL) {
		val := *sessionTTL
		overrides.SessionTTL = &val
	}
	if !math.IsNaN(*resyncInterval) {
		val := *resyncInterval
		overrides.ResyncInterval = &val
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "score-penalty" {
			val := *scorePenalty
			overrides.ScorePenaltyOnHit = &val
		}
	})

	cfg.Overrides = overrides

	server.StartApp(*addr, cfg)
}
