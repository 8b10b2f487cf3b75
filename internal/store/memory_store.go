package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"edulearn_backend/internal/model"
)

// MemoryStore is the in-process KeyedStore used by tests and single-node
// deployments. Subscriber callbacks run synchronously on the mutating
// goroutine, after the store lock is released, so callbacks may read from the
// store again.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string]json.RawMessage
	nextSub int
	subs    map[int]*memorySubscriber
}

type memorySubscriber struct {
	prefix string
	fn     func(path string)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]json.RawMessage),
		subs: make(map[int]*memorySubscriber),
	}
}

func (s *MemoryStore) Read(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[path]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *MemoryStore) Write(_ context.Context, path string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[path] = raw
	watchers := s.watchersLocked(path)
	s.mu.Unlock()
	notify(watchers, path)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, path string, fields map[string]interface{}) error {
	s.mu.Lock()
	merged := make(map[string]json.RawMessage)
	if raw, ok := s.data[path]; ok {
		if err := json.Unmarshal(raw, &merged); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		merged[k] = raw
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.data[path] = raw
	watchers := s.watchersLocked(path)
	s.mu.Unlock()
	notify(watchers, path)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	_, existed := s.data[path]
	delete(s.data, path)
	var watchers []*memorySubscriber
	if existed {
		watchers = s.watchersLocked(path)
	}
	s.mu.Unlock()
	notify(watchers, path)
	return nil
}

func (s *MemoryStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key := model.GenerateUUID()
	if err := s.Write(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MemoryStore) List(_ context.Context, path string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte)
	for p, raw := range s.data {
		if key := childKey(path, p); key != "" {
			cp := make([]byte, len(raw))
			copy(cp, raw)
			out[key] = cp
		}
	}
	return out, nil
}

func (s *MemoryStore) Subscribe(path string, onChange func(string)) (func(), error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &memorySubscriber{prefix: path, fn: onChange}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	return cancel, nil
}

func (s *MemoryStore) watchersLocked(path string) []*memorySubscriber {
	var out []*memorySubscriber
	for _, sub := range s.subs {
		if path == sub.prefix || strings.HasPrefix(path, sub.prefix+"/") {
			out = append(out, sub)
		}
	}
	return out
}

func notify(watchers []*memorySubscriber, path string) {
	for _, w := range watchers {
		w.fn(path)
	}
}
