package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Token is one persisted handshake result.
type Token struct {
	Key       string // credential digest, never the credentials themselves
	Value     string
	ExpiresAt time.Time
}

// TokenStore persists bearer tokens so they survive a process restart.
type TokenStore interface {
	Get(ctx context.Context, key string) (Token, error)
	Put(ctx context.Context, token Token) error
	Close() error
}
