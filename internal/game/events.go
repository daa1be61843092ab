package game

// Message type tags shared by the server and the client. Client-origin tags
// are validated in the websocket read loop; server-origin tags are produced
// by the room's broadcast queue.
const (
	// client -> server
	MsgJoin   = "join"
	MsgUpdate = "update"
	MsgFire   = "fire"
	MsgClaim  = "claim"

	// server -> client
	MsgSession            = "session"
	MsgAvatarTable        = "avatar-table"
	MsgAvatarRemoved      = "avatar-removed"
	MsgProjectileCreated  = "projectile-created"
	MsgProjectileRemoved  = "projectile-removed"
	MsgProjectileTable    = "projectile-table"
	MsgCollectibleSpawned = "collectible-spawned"
	MsgCollectibleClaimed = "collectible-claimed"
	MsgCollectibleTable   = "collectible-table"
	MsgScoreTable         = "score-table"
	MsgAvatarStunned      = "avatar-stunned"
)

// OutboundMessage packages queued websocket events. Payloads are value copies
// taken under the room lock so they can be marshaled outside it.
type OutboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type SessionPayload struct {
	Token     string  `json:"token"`
	Avatar    Avatar  `json:"avatar"`
	Score     int     `json:"score"`
	Returning bool    `json:"returning"`
	Now       float64 `json:"now"`
}

type AvatarRemovedPayload struct {
	Token string `json:"token"`
}

type ProjectileRemovedPayload struct {
	ID string `json:"id"`
}

type CollectibleClaimedPayload struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Score int    `json:"score"`
}

type StunnedPayload struct {
	Token       string  `json:"token"`
	Until       float64 `json:"until"`
	ImmuneUntil float64 `json:"immuneUntil"`
}
