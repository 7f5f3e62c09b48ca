package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/fpang/inkstory/internal/story"
)

// DynamoDB key constants for the single-table design. The derived story key
// already namespaces the schema version, so the PK is PK = STORY#<derived-key>
// and every story is a single META item.
const (
	pkPrefix = "STORY#"
	skMeta   = "META"
)

// DynamoStore implements StoryStore using AWS DynamoDB. Records carry an
// expiresAt attribute that the table's TTL configuration uses to auto-delete
// expired stories.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
	now       func() time.Time
}

// Compile-time interface check.
var _ StoryStore = (*DynamoStore)(nil)

// NewDynamoStore creates a DynamoStore for the given table.
// The client should be initialized from the shared AWS config.
func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		now:       time.Now,
	}
}

// storyPK returns the partition key for a derived story key.
func storyPK(key string) string {
	return pkPrefix + key
}

func (s *DynamoStore) Get(ctx context.Context, key string) (*story.State, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: storyPK(key)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem key=%s: %w", key, err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var state story.State
	if err := attributevalue.UnmarshalMap(result.Item, &state); err != nil {
		return nil, fmt.Errorf("unmarshal story key=%s: %w", key, err)
	}
	return &state, nil
}

func (s *DynamoStore) Put(ctx context.Context, key string, state *story.State) error {
	item, err := attributevalue.MarshalMap(state)
	if err != nil {
		return fmt.Errorf("marshal story key=%s: %w", key, err)
	}

	// Key and TTL attributes overwrite any conflicting keys from the record.
	item["PK"] = &types.AttributeValueMemberS{Value: storyPK(key)}
	item["SK"] = &types.AttributeValueMemberS{Value: skMeta}
	item["expiresAt"] = &types.AttributeValueMemberN{
		Value: strconv.FormatInt(s.now().Add(StoryTTL).Unix(), 10),
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem key=%s: %w", key, err)
	}

	log.Debug().
		Str("key", key).
		Int("scenes", len(state.Scenes)).
		Int("currentIndex", state.CurrentIndex).
		Msg("Story persisted to DynamoDB")
	return nil
}
