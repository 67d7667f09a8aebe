package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"salao/terminal/internal/session"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps a remember-me session under one key per terminal.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
	Key    string
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, terminalID string) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl, Key: SessionKey(terminalID)}
}

func SessionKey(terminalID string) string {
	return "session:" + terminalID
}

func (s *RedisSessionStore) Save(ctx context.Context, state session.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.Key, payload, s.TTL).Err()
}

func (s *RedisSessionStore) Load(ctx context.Context) (session.State, bool, error) {
	var state session.State
	raw, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return state, false, nil
	}
	if err != nil {
		return state, false, err
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return session.State{}, false, err
	}
	return state, true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context) error {
	return s.Client.Del(ctx, s.Key).Err()
}

var _ session.Store = (*RedisSessionStore)(nil)
