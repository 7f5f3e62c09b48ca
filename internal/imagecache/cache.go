// Package imagecache caches rendered scene art. Image requests are
// read-only and keyed by (story key, scene index), so a cache hit skips the
// image model entirely; misses are filled after generation. Caching is
// best-effort — failures are logged and the request proceeds without it.
package imagecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

// Cache stores rendered scene images by story key and scene index.
//
// Get returns (nil, nil) on a miss. Entries share the story record's fate
// only loosely: a bucket lifecycle rule expires objects on the same 7-day
// horizon as the story TTL.
type Cache interface {
	Get(ctx context.Context, storyKey string, index int) ([]byte, error)
	Put(ctx context.Context, storyKey string, index int, data []byte) error
}

// S3Cache implements Cache on an S3 bucket.
type S3Cache struct {
	client *s3.Client
	bucket string
}

// Compile-time interface check.
var _ Cache = (*S3Cache)(nil)

// NewS3Cache creates an S3-backed image cache.
func NewS3Cache(client *s3.Client, bucket string) *S3Cache {
	return &S3Cache{client: client, bucket: bucket}
}

// objectKey returns the S3 key for a scene image. The derived story key is
// already URL-safe, so it embeds directly.
func objectKey(storyKey string, index int) string {
	return fmt.Sprintf("scenes/%s/%d.png", storyKey, index)
}

func (c *S3Cache) Get(ctx context.Context, storyKey string, index int) ([]byte, error) {
	key := objectKey(storyKey, index)
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("S3 GetObject %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read cached image %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Scene image cache hit")
	return data, nil
}

func (c *S3Cache) Put(ctx context.Context, storyKey string, index int, data []byte) error {
	key := objectKey(storyKey, index)
	contentType := "image/png"
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("S3 PutObject %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Scene image cached")
	return nil
}
