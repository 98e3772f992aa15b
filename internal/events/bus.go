// Package events fans world-log entries out to side channels: a Redis pub/sub
// topic for companion services and a Discord webhook for headline events.
// Both sinks are optional and best-effort; the in-memory world log stays the
// source of truth.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reefgo/server/internal/world"
	"go.uber.org/zap"
)

const redisChannel = "reef:events"

// Headline event types mirrored to Discord.
var headlineTypes = map[string]bool{
	"leviathan_announce": true,
	"leviathan_spawn":    true,
	"leviathan_kill":     true,
	"abyss_open":         true,
	"null_kill":          true,
	"tournament_start":   true,
	"tournament_champion": true,
}

type Bus struct {
	log        *zap.Logger
	rdb        *redis.Client
	webhookURL string
	httpc      *http.Client
}

// NewBus wires the optional sinks. Empty redisURL / webhookURL disable them.
func NewBus(log *zap.Logger, redisURL, webhookURL string) (*Bus, error) {
	b := &Bus{
		log:        log,
		webhookURL: webhookURL,
		httpc:      &http.Client{Timeout: 10 * time.Second},
	}
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, err
		}
		b.rdb = redis.NewClient(opt)
	}
	return b, nil
}

func (b *Bus) Close() {
	if b.rdb != nil {
		b.rdb.Close()
	}
}

// Publish sends the event to every configured sink without blocking the
// engine: both sinks run on a goroutine and failures only log.
func (b *Bus) Publish(ev world.WorldEvent) {
	if b.rdb == nil && (b.webhookURL == "" || !headlineTypes[ev.Type]) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if b.rdb != nil {
			payload, err := json.Marshal(ev)
			if err == nil {
				if err := b.rdb.Publish(ctx, redisChannel, payload).Err(); err != nil {
					b.log.Warn("redis publish failed", zap.String("type", ev.Type), zap.Error(err))
				}
			}
		}
		if b.webhookURL != "" && headlineTypes[ev.Type] {
			b.postDiscord(ctx, ev)
		}
	}()
}

func (b *Bus) postDiscord(ctx context.Context, ev world.WorldEvent) {
	body, err := json.Marshal(map[string]string{"content": ev.Description})
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.webhookURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.httpc.Do(req)
	if err != nil {
		b.log.Warn("discord webhook failed", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	resp.Body.Close()
}
