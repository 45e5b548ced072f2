// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Call is the message published for every called number
type Call struct {
	Number int    `json:"numero"`
	Text   string `json:"testo"`
}

// RedisSpeaker publishes calls on a pub/sub channel for display boards
type RedisSpeaker struct {
	client  *redis.Client
	channel string
}

func NewRedisSpeaker(client *redis.Client, channel string) *RedisSpeaker {
	return &RedisSpeaker{client: client, channel: channel}
}

// Speak publishes the call. Having no subscribers is not an error.
func (r *RedisSpeaker) Speak(ctx context.Context, number int) error {
	payload, err := json.Marshal(Call{Number: number, Text: Text(number)})
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to publish on %s: %w", r.channel, err)
	}
	return nil
}

// ConnectRedis parses a redis:// or rediss:// URL and checks the server answers
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}
