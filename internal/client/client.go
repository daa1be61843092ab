package client

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"NeonArena/internal/game"
)

// Client dials the arena server, performs the join handshake, and keeps a
// Reconciler in sync with incoming messages. Outgoing intent (movement,
// fire, claims) is sent immediately; the reconciler applies the local
// prediction at the same time.
type Client struct {
	URL   string
	Token string // previously issued session token, optional

	mu    sync.Mutex
	conn  *websocket.Conn
	recon *Reconciler

	// ServerNow tracks the room clock from the session handshake so stun
	// phases can be judged against server time.
	ServerNow float64

	OnSession func(game.SessionPayload)
	OnStun    func(game.StunnedPayload)
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func New(url string, tuning game.Tuning) *Client {
	return &Client{
		URL:   url,
		recon: NewReconciler(tuning),
	}
}

// Reconciler exposes the local view. Callers must hold no assumptions about
// concurrent mutation; use Do for anything beyond a quick read.
func (c *Client) Do(fn func(*Reconciler)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.recon)
}

// Dial connects and joins, restoring c.Token's identity when the server still
// knows it. Blocks until the session message arrives.
func (c *Client) Dial() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.URL, err)
	}
	c.conn = conn

	join := map[string]interface{}{"token": c.Token}
	if err := c.send(game.MsgJoin, join); err != nil {
		conn.Close()
		return err
	}

	// The session message is the first server reply; other events may be
	// interleaved ahead of it only after a reconnect race, so scan for it.
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			conn.Close()
			return fmt.Errorf("awaiting session: %w", err)
		}
		if f.Type != game.MsgSession {
			c.handle(f)
			continue
		}
		var session game.SessionPayload
		if err := json.Unmarshal(f.Payload, &session); err != nil {
			conn.Close()
			return fmt.Errorf("bad session payload: %w", err)
		}
		c.mu.Lock()
		c.Token = session.Token
		c.ServerNow = session.Now
		c.recon.ApplySession(session)
		c.mu.Unlock()
		if c.OnSession != nil {
			c.OnSession(session)
		}
		return nil
	}
}

// Run reads server messages until the connection drops.
func (c *Client) Run() error {
	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			return err
		}
		c.handle(f)
	}
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) handle(f frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch f.Type {
	case game.MsgAvatarTable:
		var table map[string]game.Avatar
		if json.Unmarshal(f.Payload, &table) == nil {
			c.recon.ApplyAvatarTable(table)
		}
	case game.MsgAvatarRemoved:
		var p game.AvatarRemovedPayload
		if json.Unmarshal(f.Payload, &p) == nil {
			c.recon.RemoveAvatar(p.Token)
		}
	case game.MsgProjectileCreated:
		var p game.Projectile
		if json.Unmarshal(f.Payload, &p) == nil {
			c.recon.ApplyProjectileCreated(p)
		}
	case game.MsgProjectileRemoved:
		var p game.ProjectileRemovedPayload
		if json.Unmarshal(f.Payload, &p) == nil {
			c.recon.ApplyProjectileRemoved(p.ID)
		}
	case game.MsgProjectileTable:
		var table []game.Projectile
		if json.Unmarshal(f.Payload, &table) == nil {
			c.recon.ApplyProjectileTable(table)
		}
	case game.MsgCollectibleSpawned:
		var p game.Collectible
		if json.Unmarshal(f.Payload, &p) == nil {
			c.recon.ApplyCollectibleSpawned(p)
		}
	case game.MsgCollectibleClaimed:
		var p game.CollectibleClaimedPayload
		if json.Unmarshal(f.Payload, &p) == nil {
			c.recon.ApplyCollectibleClaimed(p)
		}
	case game.MsgCollectibleTable:
		var table []game.Collectible
		if json.Unmarshal(f.Payload, &table) == nil {
			c.recon.ApplyCollectibleTable(table)
		}
	case game.MsgScoreTable:
		var table map[string]int
		if json.Unmarshal(f.Payload, &table) == nil {
			c.recon.ApplyScoreTable(table)
		}
	case game.MsgAvatarStunned:
		var p game.StunnedPayload
		if json.Unmarshal(f.Payload, &p) == nil {
			c.recon.ApplyStun(p)
			if c.OnStun != nil {
				c.OnStun(p)
			}
		}
	}
}

func (c *Client) send(msgType string, payload interface{}) error {
	return c.conn.WriteJSON(game.OutboundMessage{Type: msgType, Payload: payload})
}

// Move applies one frame of input locally and pushes the predicted state to
// the server.
func (c *Client) Move(dx, dy, now float64) error {
	c.mu.Lock()
	c.recon.ApplyInput(dx, dy, now)
	a := c.recon.Local.Avatar
	c.mu.Unlock()
	return c.send(game.MsgUpdate, map[string]interface{}{
		"x": a.X, "y": a.Y, "direction": a.Direction,
	})
}

func (c *Client) Fire(dirX, dirY float64) error {
	return c.send(game.MsgFire, map[string]interface{}{"dirX": dirX, "dirY": dirY})
}

// ClaimNearby runs client-side pickup detection and, when something is in
// range, removes it optimistically and sends the claim for validation.
func (c *Client) ClaimNearby() error {
	c.mu.Lock()
	col, ok := c.recon.NearestCollectible()
	if ok {
		c.recon.ClaimLocally(col.ID)
	}
	x := c.recon.Local.Avatar.X
	y := c.recon.Local.Avatar.Y
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.send(game.MsgClaim, map[string]interface{}{
		"id": col.ID, "claimedX": x, "claimedY": y,
	})
}
