package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// maxPendingMessages caps a connection's outbound queue. When a client cannot
// drain fast enough the queue is dropped and the next drain starts with a full
// resync, so a slow client falls back to snapshots instead of stale deltas.
const maxPendingMessages = 256

// Session is the durable identity behind a token. It outlives any single
// websocket connection; the avatar, score and stun window it owns stay in the
// world until the session expires.
type Session struct {
	Token     string
	Name      string
	Color     string
	Skin      int
	CreatedAt float64

	// LastSeen is room time of the most recent disconnect, used by the
	// retention sweep. Meaningless while connected.
	LastSeen      float64
	CooldownUntil float64

	connected  bool
	needResync bool
	pending    []OutboundMessage
}

func (s *Session) Connected() bool { return s.connected }

// SendMessage queues an event for this session's connection.
func (s *Session) SendMessage(msgType string, payload interface{}) {
	if !s.connected {
		return
	}
	if len(s.pending) >= maxPendingMessages {
		s.pending = nil
		s.needResync = true
		return
	}
	s.pending = append(s.pending, OutboundMessage{Type: msgType, Payload: payload})
}

// ConsumePendingMessages returns and clears the queued events.
func (s *Session) ConsumePendingMessages() []OutboundMessage {
	out := s.pending
	s.pending = nil
	return out
}

var avatarNames = []string{
	"Meow-tron",
	"Cyber-Whiskers",
	"Pixel-Paw",
	"Bit-Kitten",
	"Neon-Tabby",
	"Glitch-Cat",
	"Data-Pounce",
	"Synth-Claw",
	"Logic-Tail",
	"Laser-Mew",
	"Matrix-Mog",
	"Aero-Fluff",
}

var avatarColors = []string{"#ff0055", "#00ff99", "#00ccff", "#cc00ff", "#ffcc00"}

const avatarSkinCount = 3

// newSession mints a fresh identity with a random cosmetic profile. Tokens are
// UUIDs: globally unique, not a security boundary.
func newSession(now float64) *Session {
	return &Session{
		Token:     uuid.NewString(),
		Name:      randomAvatarName(),
		Color:     avatarColors[rand.Intn(len(avatarColors))],
		Skin:      rand.Intn(avatarSkinCount),
		CreatedAt: now,
	}
}

func randomAvatarName() string {
	return fmt.Sprintf("%s-%d", avatarNames[rand.Intn(len(avatarNames))], rand.Intn(100))
}
