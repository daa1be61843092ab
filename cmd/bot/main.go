// Command bot connects headless clients to an arena server. Each bot wanders,
// fires at random, and claims collectibles it walks over. Useful for load
// testing and for watching reconciliation behave under real network timing.
package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"NeonArena/internal/client"
	"NeonArena/internal/game"
)

func main() {
	url := flag.String("url", "ws://127.0.0.1:8080/ws", "server websocket URL")
	count := flag.Int("n", 4, "number of bots")
	frameMs := flag.Int("frame", 50, "bot frame interval in milliseconds")
	flag.Parse()

	tuning := game.DefaultTuning()
	for i := 0; i < *count; i++ {
		go runBot(*url, tuning, time.Duration(*frameMs)*time.Millisecond)
		time.Sleep(100 * time.Millisecond)
	}
	select {}
}

func runBot(url string, tuning game.Tuning, frame time.Duration) {
	for {
		c := client.New(url, tuning)
		c.OnSession = func(s game.SessionPayload) {
			log.Printf("bot joined as %s (%s)", s.Avatar.Name, s.Token)
		}
		if err := c.Dial(); err != nil {
			log.Printf("bot dial: %v (retrying)", err)
			time.Sleep(2 * time.Second)
			continue
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := c.Run(); err != nil {
				log.Printf("bot read: %v", err)
			}
		}()

		drive(c, frame, done)
		c.Close()
		time.Sleep(time.Second)
	}
}

func drive(c *client.Client, frame time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	dx, dy := randDir()
	now := c.ServerNow
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			now += frame.Seconds()
			if rand.Float64() < 0.02 {
				dx, dy = randDir()
			}
			if err := c.Move(dx, dy, now); err != nil {
				return
			}
			if rand.Float64() < 0.05 {
				fx, fy := randDir()
				if err := c.Fire(fx, fy); err != nil {
					return
				}
			}
			if err := c.ClaimNearby(); err != nil {
				return
			}
			c.Do(func(r *client.Reconciler) { r.Advance() })
		}
	}
}

func randDir() (float64, float64) {
	for {
		dx := rand.Float64()*2 - 1
		dy := rand.Float64()*2 - 1
		if dx != 0 || dy != 0 {
			return dx, dy
		}
	}
}
