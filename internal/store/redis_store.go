package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"edulearn_backend/internal/model"
	"edulearn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	keyPrefix    = "rtdb:"
	eventChannel = "rtdb:events"
)

// RedisStore keeps each path as a JSON string under "rtdb:<path>" and fans out
// change notifications over a pub/sub channel, so every connected instance
// sees mutations made by any of them.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Read(ctx context.Context, path string) ([]byte, error) {
	raw, err := s.client.Get(ctx, keyPrefix+path).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *RedisStore) Write(ctx context.Context, path string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+path, raw, 0).Err(); err != nil {
		return err
	}
	return s.publish(ctx, path)
}

func (s *RedisStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	merged := make(map[string]json.RawMessage)
	raw, err := s.Read(ctx, path)
	if err != nil {
		return err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &merged); err != nil {
			return err
		}
	}
	for k, v := range fields {
		fr, err := json.Marshal(v)
		if err != nil {
			return err
		}
		merged[k] = fr
	}
	return s.Write(ctx, path, merged)
}

func (s *RedisStore) Remove(ctx context.Context, path string) error {
	removed, err := s.client.Del(ctx, keyPrefix+path).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return nil
	}
	return s.publish(ctx, path)
}

func (s *RedisStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key := model.GenerateUUID()
	if err := s.Write(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (s *RedisStore) List(ctx context.Context, path string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	var cursor uint64
	pattern := keyPrefix + path + "/*"
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			p := strings.TrimPrefix(k, keyPrefix)
			key := childKey(path, p)
			if key == "" {
				continue // nested path, not a direct child
			}
			raw, err := s.client.Get(ctx, k).Bytes()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return nil, err
			}
			out[key] = raw
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

func (s *RedisStore) Subscribe(path string, onChange func(string)) (func(), error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := s.client.Subscribe(ctx, eventChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancelCtx()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			changed := msg.Payload
			if changed == path || strings.HasPrefix(changed, path+"/") {
				onChange(changed)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelCtx()
			if err := pubsub.Close(); err != nil {
				logger.Log.Warn("closing store subscription", zap.Error(err))
			}
		})
	}
	return cancel, nil
}

func (s *RedisStore) publish(ctx context.Context, path string) error {
	return s.client.Publish(ctx, eventChannel, path).Err()
}
