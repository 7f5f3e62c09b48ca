// Package store provides persistent story state storage. Request handlers
// never touch a concrete database; they go through the StoryStore port so
// tests substitute an in-memory mapping and the Lambda/web entrypoints
// inject the DynamoDB adapter.
//
// A story record is addressed solely by its derived key (story.DeriveKey)
// and expires automatically after StoryTTL — a soft delete, there is no
// explicit teardown path.
package store

import (
	"context"
	"time"

	"github.com/fpang/inkstory/internal/story"
)

// StoryTTL is the retention window for story records. After 7 days without
// a write the story silently expires and the next START generates a fresh
// one.
const StoryTTL = 7 * 24 * time.Hour

// StoryStore is the persistence port for story state. Implementations must
// be safe for concurrent use.
//
// Get returns (nil, nil) when no record exists for the key — absence is a
// first-class outcome, not an error. Put is a full-record upsert that
// refreshes the retention TTL; there is no optimistic concurrency control,
// so concurrent writers race with last-write-wins semantics.
type StoryStore interface {
	Get(ctx context.Context, key string) (*story.State, error)
	Put(ctx context.Context, key string, state *story.State) error
}
