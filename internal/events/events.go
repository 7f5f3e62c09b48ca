// Package events emits the opportunistic "a story has started" record.
// The record is advisory: it is published after the response is on its way
// and must complete-or-fail silently, never affecting the request outcome.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	eventtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/rs/zerolog/log"
)

// Recorder records that a story has started for a subject.
type Recorder interface {
	RecordStarted(ctx context.Context, hero, storyKey string, sceneCount int) error
}

// EventBridgeRecorder publishes story-started events to an EventBridge bus.
type EventBridgeRecorder struct {
	client  *eventbridge.Client
	busName string
}

// Compile-time interface check.
var _ Recorder = (*EventBridgeRecorder)(nil)

// NewEventBridgeRecorder creates a Recorder for the given event bus.
func NewEventBridgeRecorder(client *eventbridge.Client, busName string) *EventBridgeRecorder {
	return &EventBridgeRecorder{client: client, busName: busName}
}

// startedDetail is the event payload. The hero name is prompt content the
// user typed; the derived key is what downstream consumers correlate on.
type startedDetail struct {
	Hero       string `json:"hero"`
	StoryKey   string `json:"storyKey"`
	SceneCount int    `json:"sceneCount"`
	StartedAt  string `json:"startedAt"`
}

func (r *EventBridgeRecorder) RecordStarted(ctx context.Context, hero, storyKey string, sceneCount int) error {
	detail, err := json.Marshal(startedDetail{
		Hero:       hero,
		StoryKey:   storyKey,
		SceneCount: sceneCount,
		StartedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal story-started detail: %w", err)
	}

	_, err = r.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []eventtypes.PutEventsRequestEntry{
			{
				EventBusName: &r.busName,
				Source:       aws.String("inkstory"),
				DetailType:   aws.String("story.started"),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("PutEvents story.started: %w", err)
	}

	log.Debug().Str("storyKey", storyKey).Msg("Story-started event published")
	return nil
}
