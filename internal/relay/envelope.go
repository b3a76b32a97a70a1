package relay

import "encoding/json"

// Inbound message kinds recognized from clients.
const (
	KindGetChannels = "get_channels"
	KindJoin        = "join"
	KindMessage     = "message"
)

// Outbound message kinds.
const (
	KindSystem     = "system"
	KindChannels   = "channels"
	KindJoinResult = "join_result"
	KindBroadcast  = "broadcast"
	KindError      = "error"
)

// Inbound is the envelope decoded from a client frame. The id is kept as raw
// JSON so it can be echoed back byte for byte regardless of its shape.
type Inbound struct {
	Type       string                 `json:"type"`
	ID         json.RawMessage        `json:"id,omitempty"`
	Channel    string                 `json:"channel,omitempty"`
	ClientType string                 `json:"clientType,omitempty"`
	Message    map[string]interface{} `json:"message,omitempty"`
}

// SystemEnvelope carries server-generated notifications (greetings, join and
// leave announcements).
type SystemEnvelope struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	Message string `json:"message"`
}

// ChannelsEnvelope is the response to a get_channels request.
type ChannelsEnvelope struct {
	Type     string          `json:"type"`
	ID       json.RawMessage `json:"id,omitempty"`
	Channels []string        `json:"channels"`
}

// JoinResultEnvelope reports the outcome of a join request to the requester.
type JoinResultEnvelope struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Channel string `json:"channel"`
	Error   string `json:"error,omitempty"`
}

// BroadcastEnvelope is a relayed channel message. Message is the client's
// payload, passed through opaquely apart from the injected channel key.
type BroadcastEnvelope struct {
	Type    string                 `json:"type"`
	Channel string                 `json:"channel"`
	Message map[string]interface{} `json:"message"`
	Sender  string                 `json:"sender"`
}

// ErrorEnvelope reports a processing failure to the originating client.
type ErrorEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewSystemEnvelope(channel, message string) *SystemEnvelope {
	return &SystemEnvelope{Type: KindSystem, Channel: channel, Message: message}
}

func NewChannelsEnvelope(id json.RawMessage, channels []string) *ChannelsEnvelope {
	return &ChannelsEnvelope{Type: KindChannels, ID: id, Channels: channels}
}

func NewJoinSuccessEnvelope(channel string) *JoinResultEnvelope {
	return &JoinResultEnvelope{Type: KindJoinResult, Success: true, Channel: channel}
}

func NewJoinFailureEnvelope(channel, reason string) *JoinResultEnvelope {
	return &JoinResultEnvelope{Type: KindJoinResult, Success: false, Channel: channel, Error: reason}
}

func NewBroadcastEnvelope(channel string, message map[string]interface{}, sender string) *BroadcastEnvelope {
	return &BroadcastEnvelope{Type: KindBroadcast, Channel: channel, Message: message, Sender: sender}
}

func NewErrorEnvelope(message string) *ErrorEnvelope {
	return &ErrorEnvelope{Type: KindError, Message: message}
}
