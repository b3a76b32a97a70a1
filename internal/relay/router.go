package relay

import (
	"encoding/json"
	"log/slog"
)

const (
	greetingText      = "Connected to chat server"
	errProcessingText = "Error processing message"
	errNoChannelText  = "No channel specified"
)

// Router interprets inbound envelopes, validates them against the fixed
// channel set, mutates the registry, and fans notifications out to channel
// members. One Router serves all connections; the transport delivers each
// connection's events from a single goroutine, so per-connection ordering
// holds by construction.
type Router struct {
	registry *Registry
	channels []string
	valid    map[string]struct{}
	logger   *slog.Logger
}

func NewRouter(registry *Registry, channels []string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	valid := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		valid[ch] = struct{}{}
	}
	return &Router{
		registry: registry,
		channels: channels,
		valid:    valid,
		logger:   logger,
	}
}

// Channels returns the fixed channel set in its configured order.
func (r *Router) Channels() []string {
	return r.channels
}

// HandleOpen registers a new connection and greets it.
func (r *Router) HandleOpen(conn Conn) {
	if err := r.registry.Register(conn); err != nil {
		// Should not happen with uuid identities; the first registration
		// stays authoritative.
		r.logger.Error("Failed to register connection", "connID", conn.ID(), "error", err)
		return
	}
	r.logger.Info("New client connected", "connID", conn.ID())
	r.reply(conn, NewSystemEnvelope("", greetingText))
}

// HandleFrame processes one decoded frame from conn. Errors triggered by the
// frame are reported to conn only; they never affect other connections or
// later frames.
func (r *Router) HandleFrame(conn Conn, data []byte) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		r.logger.Error("Failed to decode frame", "connID", conn.ID(), "error", err)
		r.reply(conn, NewErrorEnvelope(errProcessingText))
		return
	}

	switch in.Type {
	case KindGetChannels:
		r.handleGetChannels(conn, &in)
	case KindJoin:
		r.handleJoin(conn, &in)
	case KindMessage:
		r.handleMessage(conn, &in)
	default:
		r.logger.Warn("Unrecognized message type", "connID", conn.ID(), "type", in.Type)
		r.reply(conn, NewErrorEnvelope(errProcessingText))
	}
}

// HandleClose removes the connection and notifies the channel it occupied.
// Safe to call on an already-removed connection; duplicate close signals do
// nothing.
func (r *Router) HandleClose(conn Conn) {
	prior, ok := r.registry.Unregister(conn)
	if !ok {
		return
	}
	r.logger.Info("Client disconnected", "connID", conn.ID(), "clientType", prior.Role)

	if prior.Channel == "" {
		return
	}
	role := prior.Role
	if role == "" {
		role = "user"
	}
	r.broadcast(prior.Channel, NewSystemEnvelope(prior.Channel, "A "+role+" has left the channel"), conn)
}

func (r *Router) handleGetChannels(conn Conn, in *Inbound) {
	_, role, _ := r.registry.Membership(conn)
	r.logger.Info("Client requested channel list", "connID", conn.ID(), "clientType", role)
	r.reply(conn, NewChannelsEnvelope(in.ID, r.channels))
}

func (r *Router) handleJoin(conn Conn, in *Inbound) {
	channel := in.Channel
	role := in.ClientType
	if role == "" {
		role = RoleUnknown
	}

	if _, ok := r.valid[channel]; !ok {
		r.reply(conn, NewJoinFailureEnvelope(channel, "Invalid channel"))
		return
	}

	prior, err := r.registry.SetMembership(conn, channel, role)
	if err != nil {
		r.logger.Error("Join for unregistered connection", "connID", conn.ID(), "error", err)
		r.reply(conn, NewErrorEnvelope(errProcessingText))
		return
	}
	r.logger.Info("Client joined channel", "connID", conn.ID(), "channel", channel, "clientType", role)

	if prior != "" && prior != channel {
		r.broadcast(prior, NewSystemEnvelope(prior, "A "+role+" has left the channel"), conn)
	}
	// A re-join of the same channel deliberately announces again; clients use
	// it to re-declare their role.
	r.broadcast(channel, NewSystemEnvelope(channel, "A "+role+" has joined the channel"), conn)
	r.reply(conn, NewJoinSuccessEnvelope(channel))
}

func (r *Router) handleMessage(conn Conn, in *Inbound) {
	channel := in.Channel
	senderRole := RoleUnknown
	if current, role, ok := r.registry.Membership(conn); ok {
		senderRole = role
		if channel == "" {
			channel = current
		}
	}
	if channel == "" {
		r.reply(conn, NewErrorEnvelope(errNoChannelText))
		return
	}

	payload := in.Message
	if payload != nil {
		if _, ok := payload["channel"]; !ok {
			payload["channel"] = channel
		}
	}

	r.logger.Info("Broadcasting message", "connID", conn.ID(), "channel", channel, "clientType", senderRole)
	r.broadcast(channel, NewBroadcastEnvelope(channel, payload, senderRole), conn)
}

// broadcast serializes env once and sends the same bytes to every open member
// of channel except exclude. Recipients that fail to accept the frame are
// skipped; delivery is best-effort at most once.
func (r *Router) broadcast(channel string, env interface{}, exclude Conn) {
	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Error("Failed to marshal envelope", "channel", channel, "error", err)
		return
	}
	for _, member := range r.registry.MembersOf(channel, exclude) {
		if err := member.Send(data); err != nil {
			r.logger.Debug("Skipping unreachable recipient", "connID", member.ID(), "channel", channel, "error", err)
		}
	}
}

func (r *Router) reply(conn Conn, env interface{}) {
	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Error("Failed to marshal envelope", "connID", conn.ID(), "error", err)
		return
	}
	if err := conn.Send(data); err != nil {
		r.logger.Debug("Failed to reply", "connID", conn.ID(), "error", err)
	}
}
