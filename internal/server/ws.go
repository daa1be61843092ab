package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"NeonArena/internal/game"
)

// updateRateHz is how often each connection's queued events are flushed.
const updateRateHz = 20.0

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type liveConn struct {
	conn     *websocket.Conn
	sendTick *time.Ticker
}

func serveWS(h *game.Hub, w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = "default"
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	lc := &liveConn{
		conn:     conn,
		sendTick: time.NewTicker(time.Duration(1000.0/updateRateHz) * time.Millisecond),
	}

	room := h.GetRoom(roomID)

	// Handshake: the first accepted message must be a join. Anything else is
	// dropped, matching the silent-discard rule for malformed input.
	session, ok := awaitJoin(room, conn)
	if !ok {
		lc.sendTick.Stop()
		conn.Close()
		return
	}
	token := session.Token
	if err := conn.WriteJSON(game.OutboundMessage{Type: game.MsgSession, Payload: session}); err != nil {
		lc.sendTick.Stop()
		conn.Close()
		room.Disconnect(token)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var inbound inboundMessage
			if err := json.Unmarshal(data, &inbound); err != nil {
				log.Printf("invalid JSON message: %v", err)
				continue
			}
			dispatch(room, token, inbound)
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-lc.sendTick.C:
				for _, event := range room.DrainOutbound(token) {
					if err := conn.WriteJSON(event); err != nil {
						cancel()
						return
					}
				}
			}
		}
	}()

	<-ctx.Done()
	lc.sendTick.Stop()
	conn.Close()
	room.Disconnect(token)
}

func awaitJoin(room *game.Room, conn *websocket.Conn) (SessionDTO, bool) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return SessionDTO{}, false
		}
		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			continue
		}
		if inbound.Type != game.MsgJoin {
			continue
		}
		var join joinDTO
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &join); err != nil {
				continue
			}
		}
		return room.Connect(join.Token), true
	}
}

// dispatch validates a client message at the boundary and hands it to the
// room. Unknown types and malformed payloads are dropped, never faulted.
func dispatch(room *game.Room, token string, inbound inboundMessage) {
	switch inbound.Type {
	case game.MsgUpdate:
		var update updateDTO
		if err := json.Unmarshal(inbound.Payload, &update); err != nil {
			return
		}
		room.ApplyAvatarPatch(token, update.patch())
	case game.MsgFire:
		var fire fireDTO
		if err := json.Unmarshal(inbound.Payload, &fire); err != nil {
			return
		}
		room.Fire(token, game.Vec2{X: fire.DirX, Y: fire.DirY})
	case game.MsgClaim:
		var claim claimDTO
		if err := json.Unmarshal(inbound.Payload, &claim); err != nil {
			return
		}
		room.Claim(token, claim.ID, game.Vec2{X: claim.ClaimedX, Y: claim.ClaimedY})
	case game.MsgJoin:
		// Already joined on this connection.
	default:
		log.Printf("unknown message type: %s", inbound.Type)
	}
}
