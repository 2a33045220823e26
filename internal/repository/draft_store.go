package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDraftNotFound is returned when a key holds no draft, or it expired
	ErrDraftNotFound = errors.New("draft not found")
	// ErrSubmissionInFlight is returned when a submit lock is already held
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// KeyPrefix namespaces every key this service writes
const KeyPrefix = "storefront-admin:"

// DraftStore holds in-progress form state between requests.
//
// Values are JSON encoded. A zero ttl on Save means the store's default.
// AcquireLock guards a single submission per form; the returned release
// func is safe to call more than once.
type DraftStore interface {
	Save(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Load(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	AcquireLock(ctx context.Context, key string) (release func(), err error)
	Ping(ctx context.Context) error
}

func draftKey(key string) string {
	return KeyPrefix + "draft:" + key
}

func lockKey(key string) string {
	return KeyPrefix + "lock:" + key
}
