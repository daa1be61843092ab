package server

import (
	"log"
	"time"

	"NeonArena/internal/game"
)

type AppConfig struct {
	TuningPath string
	Overrides  TuningOverrides
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		TuningPath: "configs/world.yaml",
	}
}

func resolveTuning(cfg AppConfig) game.Tuning {
	tuning := game.DefaultTuning()
	loaded, err := loadTuningFromFile(cfg.TuningPath, tuning)
	if err != nil {
		log.Printf("tuning config: %v (using defaults)", err)
	} else {
		tuning = loaded
	}
	return cfg.Overrides.apply(tuning)
}

func StartApp(addr string, cfg AppConfig) {
	tuning := resolveTuning(cfg)
	hub := game.NewHub(tuning)

	// Periodic cleanup of rooms whose sessions have all expired.
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			hub.CleanupEmptyRooms()
		}
	}()

	log.Printf("starting arena server on %s (world %.0f, tick %.0f Hz, cap %d collectibles)",
		addr, tuning.WorldSize, tuning.TickRate, tuning.CollectibleCap)
	startServer(hub, addr)
}
