package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// BroadcastEnvelope is the wire form of a broadcast relayed between
// processes. Data is the already-encoded event payload.
type BroadcastEnvelope struct {
	Origin string          `json:"origin"`
	Room   string          `json:"room"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
}

// RedisBridge fans broadcasts out across processes over a Redis pub/sub
// channel. Without it, presence and room events only reach sockets connected
// to the local process, which is a correctness gap under horizontal scaling.
//
// Every broadcast is delivered locally first, then published; envelopes
// arriving from other processes are replayed into the local socket groups.
type RedisBridge struct {
	Client  *redis.Client
	Channel string
	Local   Broadcaster
	Log     zerolog.Logger

	origin string
}

func NewRedisBridge(client *redis.Client, channel string, local Broadcaster, log zerolog.Logger) *RedisBridge {
	return &RedisBridge{
		Client:  client,
		Channel: channel,
		Local:   local,
		Log:     log,
		origin:  uuid.NewString(),
	}
}

// BroadcastToRoom delivers locally and relays to the other processes
func (b *RedisBridge) BroadcastToRoom(room, event string, args ...interface{}) bool {
	ok := b.Local.BroadcastToRoom(room, event, args...)

	// Only single-payload events are relayed; that is every event the
	// gateway emits
	if b.Client == nil || len(args) != 1 {
		return ok
	}
	data, err := json.Marshal(args[0])
	if err != nil {
		b.Log.Warn().Err(err).Str("event", event).Msg("broadcast payload not relayable")
		return ok
	}
	envelope, err := json.Marshal(BroadcastEnvelope{
		Origin: b.origin,
		Room:   room,
		Event:  event,
		Data:   data,
	})
	if err != nil {
		return ok
	}
	if err := b.Client.Publish(context.Background(), b.Channel, envelope).Err(); err != nil {
		b.Log.Warn().Err(err).Str("event", event).Msg("broadcast relay failed")
	}
	return ok
}

// Run subscribes to the bridge channel and replays remote broadcasts into
// the local socket groups until the context is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.Client.Subscribe(ctx, b.Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.handlePayload([]byte(msg.Payload))
		}
	}
}

func (b *RedisBridge) handlePayload(payload []byte) {
	var envelope BroadcastEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		b.Log.Warn().Err(err).Msg("dropping malformed bridge envelope")
		return
	}

	// Skip envelopes this process published itself
	if envelope.Origin == b.origin {
		return
	}
	b.Local.BroadcastToRoom(envelope.Room, envelope.Event, envelope.Data)
}
