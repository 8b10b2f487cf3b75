// Package store abstracts the realtime keyed-tree database that backs quiz
// submissions and analytics. Values are JSON documents addressed by
// slash-separated paths; collections are one level of child keys under a
// parent path. Implementations must notify subscribers on every write or
// removal below the subscribed path.
package store

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("store: path not found")

// KeyedStore is the persistence boundary for realtime quiz data. All methods
// surface backend failures to the caller; there is no retry or local queue.
type KeyedStore interface {
	// Read returns the raw JSON at path, or (nil, nil) when absent.
	Read(ctx context.Context, path string) ([]byte, error)
	// Write replaces the value at path.
	Write(ctx context.Context, path string, value interface{}) error
	// Update merges fields into the JSON object at path, creating it when
	// absent. The merge is read-modify-write; concurrent updates to the same
	// path may lose fields.
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	// Remove deletes the value at path. Removing an absent path is a no-op.
	Remove(ctx context.Context, path string) error
	// Push appends value under a fresh child key of path and returns the key.
	Push(ctx context.Context, path string, value interface{}) (string, error)
	// List returns the direct children of path as key -> raw JSON.
	List(ctx context.Context, path string) (map[string][]byte, error)
	// Subscribe invokes onChange with the changed path for every mutation at
	// or below path, until the returned cancel function is called.
	Subscribe(path string, onChange func(changedPath string)) (cancel func(), err error)
}

// Join builds a store path from segments, skipping empties.
func Join(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// childKey returns the direct child key of parent contained in path, or ""
// when path is not strictly below parent.
func childKey(parent, path string) string {
	if !strings.HasPrefix(path, parent+"/") {
		return ""
	}
	rest := strings.TrimPrefix(path, parent+"/")
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
