// Package kv defines the blob store behind simulation and settings
// persistence, with in-memory and Redis backends.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Entry struct {
	Key   string
	Value []byte
}

// Store is a flat key/value namespace. List returns entries whose key
// starts with prefix, ordered by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Entry, error)
}
