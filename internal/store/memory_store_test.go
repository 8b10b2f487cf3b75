package store

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMemoryStoreReadWriteRemove(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	raw, err := s.Read(ctx, "a/b")
	if err != nil || raw != nil {
		t.Fatalf("absent path should read (nil, nil), got %v %v", raw, err)
	}

	if err := s.Write(ctx, "a/b", map[string]int{"x": 1}); err != nil {
		t.Fatal(err)
	}
	raw, err = s.Read(ctx, "a/b")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got["x"] != 1 {
		t.Fatalf("read back %v", got)
	}

	if err := s.Remove(ctx, "a/b"); err != nil {
		t.Fatal(err)
	}
	raw, _ = s.Read(ctx, "a/b")
	if raw != nil {
		t.Fatal("value survived removal")
	}

	if err := s.Remove(ctx, "a/b"); err != nil {
		t.Fatalf("removing an absent path must be a no-op, got %v", err)
	}
}

func TestMemoryStoreUpdateMerges(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Write(ctx, "doc", map[string]interface{}{"a": 1, "b": "old"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(ctx, "doc", map[string]interface{}{"b": "new", "c": true}); err != nil {
		t.Fatal(err)
	}

	raw, _ := s.Read(ctx, "doc")
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got["a"] != float64(1) || got["b"] != "new" || got["c"] != true {
		t.Fatalf("merged doc = %v", got)
	}

	// update creates the document when absent
	if err := s.Update(ctx, "fresh", map[string]interface{}{"x": 1}); err != nil {
		t.Fatal(err)
	}
	if raw, _ := s.Read(ctx, "fresh"); raw == nil {
		t.Fatal("update on absent path created nothing")
	}
}

func TestMemoryStorePushAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	k1, err := s.Push(ctx, "subs/c1/l1", map[string]int{"score": 80})
	if err != nil {
		t.Fatal(err)
	}
	k2, err := s.Push(ctx, "subs/c1/l1", map[string]int{"score": 90})
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k2 || k1 == "" {
		t.Fatalf("push keys not unique: %q %q", k1, k2)
	}

	// deeper entries are not direct children
	if err := s.Write(ctx, "subs/c1/l1/"+k1+"/extra", 1); err != nil {
		t.Fatal(err)
	}
	// sibling collections don't leak in
	if err := s.Write(ctx, "subs/c1/l2/other", 1); err != nil {
		t.Fatal(err)
	}

	children, err := s.List(ctx, "subs/c1/l1")
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 2 {
		t.Fatalf("got %d children: %v", len(children), children)
	}
	if _, ok := children[k1]; !ok {
		t.Fatalf("missing child %s", k1)
	}
}

func TestMemoryStoreSubscribe(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var changed []string
	cancel, err := s.Subscribe("subs/c1/l1", func(path string) {
		changed = append(changed, path)
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Write(ctx, "subs/c1/l1/s1", 1)
	s.Write(ctx, "subs/c1/l2/s9", 1) // outside the subscription
	s.Remove(ctx, "subs/c1/l1/s1")
	s.Remove(ctx, "subs/c1/l1/never-existed") // no-op, no event

	if len(changed) != 2 {
		t.Fatalf("events = %v", changed)
	}
	if changed[0] != "subs/c1/l1/s1" || changed[1] != "subs/c1/l1/s1" {
		t.Fatalf("events = %v", changed)
	}

	cancel()
	s.Write(ctx, "subs/c1/l1/s2", 1)
	if len(changed) != 2 {
		t.Fatal("cancelled subscription still notified")
	}
	cancel() // second cancel is safe
}

func TestMemoryStoreCallbackCanReadStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var seen []byte
	_, err := s.Subscribe("x", func(path string) {
		raw, err := s.Read(ctx, path)
		if err != nil {
			t.Errorf("read inside callback: %v", err)
		}
		seen = raw
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Write(ctx, "x/y", 42); err != nil {
		t.Fatal(err)
	}
	if string(seen) != "42" {
		t.Fatalf("callback read %s", seen)
	}
}

func TestJoin(t *testing.T) {
	if got := Join("a", "", "b", "c"); got != "a/b/c" {
		t.Fatalf("Join = %q", got)
	}
	if got := Join(); got != "" {
		t.Fatalf("Join() = %q", got)
	}
}
