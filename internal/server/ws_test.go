package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"NeonArena/internal/game"
)

type wsFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func startTestServer(t *testing.T) (*game.Hub, string) {
	t.Helper()
	tuning := game.DefaultTuning()
	tuning.SpawnInterval = 3600 // keep spawner noise out of assertions
	hub := game.NewHub(tuning)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r)
	}))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialAndJoin(t *testing.T, url, token string) (*websocket.Conn, game.SessionPayload) {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	join := game.OutboundMessage{Type: game.MsgJoin, Payload: map[string]string{"token": token}}
	if err := conn.WriteJSON(join); err != nil {
		t.Fatalf("send join: %v", err)
	}

	f := readFrame(t, conn)
	if f.Type != game.MsgSession {
		t.Fatalf("first frame type = %q, want session", f.Type)
	}
	var session game.SessionPayload
	if err := json.Unmarshal(f.Payload, &session); err != nil {
		t.Fatalf("session payload: %v", err)
	}
	return conn, session
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var f wsFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

// awaitFrameType reads frames until one of the wanted type arrives.
func awaitFrameType(t *testing.T, conn *websocket.Conn, wantType string) wsFrame {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		f := readFrame(t, conn)
		if f.Type == wantType {
			return f
		}
	}
	t.Fatalf("no %q frame before deadline", wantType)
	return wsFrame{}
}

func TestJoinHandshakeAndInitialResync(t *testing.T) {
	_, url := startTestServer(t)
	conn, session := dialAndJoin(t, url, "")
	defer conn.Close()

	if session.Token == "" {
		t.Fatalf("session has no token")
	}
	if session.Returning {
		t.Fatalf("fresh join flagged as returning")
	}
	if session.Avatar.Name == "" {
		t.Fatalf("avatar has no generated name")
	}

	// A new connection starts with the full tables.
	seen := map[string]bool{}
	for len(seen) < 4 {
		f := readFrame(t, conn)
		switch f.Type {
		case game.MsgAvatarTable, game.MsgProjectileTable, game.MsgCollectibleTable, game.MsgScoreTable:
			seen[f.Type] = true
		}
	}
}

func TestFireReachesOtherClients(t *testing.T) {
	_, url := startTestServer(t)
	shooter, _ := dialAndJoin(t, url, "")
	defer shooter.Close()
	watcher, _ := dialAndJoin(t, url, "")
	defer watcher.Close()

	fire := game.OutboundMessage{Type: game.MsgFire, Payload: map[string]float64{"dirX": 1, "dirY": 0}}
	if err := shooter.WriteJSON(fire); err != nil {
		t.Fatalf("send fire: %v", err)
	}

	f := awaitFrameType(t, watcher, game.MsgProjectileCreated)
	var p game.Projectile
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		t.Fatalf("projectile payload: %v", err)
	}
	if p.VX != 25 || p.VY != 0 {
		t.Fatalf("projectile velocity (%v, %v), want (25, 0)", p.VX, p.VY)
	}
}

func TestReconnectRestoresIdentity(t *testing.T) {
	_, url := startTestServer(t)
	conn, first := dialAndJoin(t, url, "")
	conn.Close()

	// The server notices the close asynchronously; retry until the token is
	// released for a returning join.
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn2, second := dialAndJoin(t, url, first.Token)
		if second.Returning {
			if second.Token != first.Token {
				t.Fatalf("returning session changed token")
			}
			if second.Avatar.Name != first.Avatar.Name {
				t.Fatalf("returning session changed avatar")
			}
			conn2.Close()
			return
		}
		conn2.Close()
		if time.Now().After(deadline) {
			t.Fatalf("token never restored after reconnect")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestMalformedMessagesIgnored(t *testing.T) {
	hub, url := startTestServer(t)
	conn, session := dialAndJoin(t, url, "")
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("send garbage: %v", err)
	}
	bad := game.OutboundMessage{Type: "no-such-type", Payload: map[string]int{"x": 1}}
	if err := conn.WriteJSON(bad); err != nil {
		t.Fatalf("send unknown type: %v", err)
	}

	// The session must survive both.
	time.Sleep(100 * time.Millisecond)
	room := hub.GetRoom("default")
	room.Mu.Lock()
	_, ok := room.Sessions[session.Token]
	room.Mu.Unlock()
	if !ok {
		t.Fatalf("malformed input killed the session")
	}
}
