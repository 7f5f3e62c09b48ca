// Package session orchestrates story lifecycle: creating a story on first
// START, rewinding on repeat START, serving scene views and images, and
// advancing the cursor with wraparound. All state lives behind the injected
// store; the controller itself is stateless and safe for concurrent use.
//
// Start and Advance are read-modify-write without optimistic locking. Two
// concurrent STARTs for an unseen hero may both generate a story and the
// later write wins; that race is part of the contract, not a bug to lock
// away.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/inkstory/internal/events"
	"github.com/fpang/inkstory/internal/gen"
	"github.com/fpang/inkstory/internal/imagecache"
	"github.com/fpang/inkstory/internal/metrics"
	"github.com/fpang/inkstory/internal/store"
	"github.com/fpang/inkstory/internal/story"
)

// DefaultSceneCount is the story length requested from the text model.
const DefaultSceneCount = 6

// recordTimeout bounds the best-effort story-started record so it can never
// hold a request open.
const recordTimeout = 2 * time.Second

var (
	// ErrNoStory reports that no story exists for the subject. Callers
	// treat this as "nothing to view", not a server fault.
	ErrNoStory = errors.New("no story for subject")

	// ErrSceneOutOfRange reports an image request for an index outside the
	// story's scene list.
	ErrSceneOutOfRange = errors.New("scene index out of range")
)

// Config wires a Controller's collaborators. Store, Stories, and Images are
// required; the rest are optional.
type Config struct {
	Store   store.StoryStore
	Stories gen.StoryGenerator
	Images  gen.ImageGenerator

	// Cache, when set, short-circuits image generation per (story, index).
	Cache imagecache.Cache

	// Recorder, when set, receives a best-effort story-started record.
	Recorder events.Recorder

	// SceneCount overrides DefaultSceneCount when positive.
	SceneCount int

	// PostProcess, when set, transforms generated image bytes before they
	// are cached and served (e.g. the e-ink pipeline).
	PostProcess func([]byte) ([]byte, error)
}

// Controller implements the four session operations.
type Controller struct {
	cfg Config
	now func() time.Time
}

// New creates a Controller from the given configuration.
func New(cfg Config) *Controller {
	if cfg.SceneCount <= 0 {
		cfg.SceneCount = DefaultSceneCount
	}
	return &Controller{cfg: cfg, now: time.Now}
}

// StartResult reports the outcome of a START.
type StartResult struct {
	Key     string
	State   *story.State
	Created bool
}

// Start creates a story for the subject, or rewinds an existing one to
// scene 0. Repeated START clicks never re-invoke generation while a story
// is stored. Text-model failure substitutes the deterministic fallback
// story rather than surfacing an error — START always succeeds unless the
// store itself fails.
func (c *Controller) Start(ctx context.Context, subject, birthMonth string) (*StartResult, error) {
	key := story.DeriveKey(subject)

	existing, err := c.cfg.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load story %s: %w", key, err)
	}
	if existing != nil && existing.Valid() {
		existing.Rewind()
		if err := c.cfg.Store.Put(ctx, key, existing); err != nil {
			return nil, fmt.Errorf("rewind story %s: %w", key, err)
		}
		log.Debug().Str("key", key).Msg("Existing story rewound to scene 0")
		return &StartResult{Key: key, State: existing, Created: false}, nil
	}

	genStart := time.Now()
	scenes, err := c.cfg.Stories.GenerateStory(ctx, gen.StoryRequest{
		Hero:       subject,
		Age:        AgeString(birthMonth, c.now()),
		SceneCount: c.cfg.SceneCount,
	})
	m := metrics.ForOperation("Start").Duration("GenerateDuration", time.Since(genStart))
	if err != nil {
		// Fallback story instead of a failed START; the 7-day TTL bounds
		// how long a hero is stuck with placeholder scenes.
		log.Warn().Err(err).Str("key", key).Msg("Story generation failed, using fallback scenes")
		scenes = story.FallbackScenes(subject)
		m.Count("FallbackUsed")
	} else {
		m.Count("StoryGenerated")
	}
	m.Flush()

	state := story.New(subject, scenes, birthMonth, c.now())
	if err := c.cfg.Store.Put(ctx, key, state); err != nil {
		return nil, fmt.Errorf("persist story %s: %w", key, err)
	}

	c.recordStarted(subject, key, len(state.Scenes))

	log.Info().Str("key", key).Int("scenes", len(state.Scenes)).Msg("Story created")
	return &StartResult{Key: key, State: state, Created: true}, nil
}

// recordStarted publishes the advisory story-started record. Complete or
// fail silently; the request outcome never depends on it.
func (c *Controller) recordStarted(hero, key string, sceneCount int) {
	if c.cfg.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := c.cfg.Recorder.RecordStarted(ctx, hero, key, sceneCount); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Story-started record failed")
	}
}

// SceneView is the read-only projection served to the viewer page.
type SceneView struct {
	Index      int
	Total      int
	Text       string
	BirthMonth string
}

// View returns the current scene for the subject. ErrNoStory when nothing
// is stored (or the stored record is unusable); never mutates.
func (c *Controller) View(ctx context.Context, subject string) (*SceneView, error) {
	key := story.DeriveKey(subject)

	state, err := c.cfg.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load story %s: %w", key, err)
	}
	if state == nil || !state.Valid() {
		return nil, ErrNoStory
	}

	return &SceneView{
		Index:      state.CurrentIndex,
		Total:      len(state.Scenes),
		Text:       state.Current(),
		BirthMonth: state.BirthMonth,
	}, nil
}

// Image renders the scene at index for the subject's story. The index is
// validated against the stored scene list before any collaborator call;
// absent stories and out-of-range indexes are not-found conditions. Image
// requests never mutate state and are safe to repeat.
func (c *Controller) Image(ctx context.Context, subject string, index int) ([]byte, error) {
	key := story.DeriveKey(subject)

	state, err := c.cfg.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load story %s: %w", key, err)
	}
	if state == nil || !state.Valid() {
		return nil, ErrNoStory
	}
	if index < 0 || index >= len(state.Scenes) {
		return nil, ErrSceneOutOfRange
	}

	if c.cfg.Cache != nil {
		cached, err := c.cfg.Cache.Get(ctx, key, index)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Int("index", index).Msg("Image cache read failed")
		} else if cached != nil {
			metrics.ForOperation("Image").Count("ImageCacheHit").Flush()
			return cached, nil
		}
	}

	genStart := time.Now()
	img, err := c.cfg.Images.GenerateImage(ctx, gen.ImageRequest{
		Hero:         subject,
		Age:          AgeString(state.BirthMonth, c.now()),
		Scene:        state.Scenes[index],
		StoryContext: state.Context(),
	})
	if err != nil {
		return nil, fmt.Errorf("generate image for %s scene %d: %w", key, index, err)
	}
	metrics.ForOperation("Image").
		Count("ImageGenerated").
		Duration("GenerateDuration", time.Since(genStart)).
		Flush()

	data := img.Data
	if c.cfg.PostProcess != nil {
		processed, err := c.cfg.PostProcess(data)
		if err != nil {
			// Serve the raw model output rather than failing the page.
			log.Warn().Err(err).Str("key", key).Int("index", index).Msg("Image post-processing failed")
		} else {
			data = processed
		}
	}

	if c.cfg.Cache != nil {
		if err := c.cfg.Cache.Put(ctx, key, index, data); err != nil {
			log.Warn().Err(err).Str("key", key).Int("index", index).Msg("Image cache write failed")
		}
	}

	return data, nil
}

// AdvanceResult reports the cursor position after an ADVANCE.
type AdvanceResult struct {
	Index       int    `json:"index"`
	Description string `json:"desc"`
	Looped      bool   `json:"looped"`
}

// Advance moves the subject's story to the next scene, wrapping past the
// last scene back to the first, and persists the new cursor with a
// refreshed TTL. ErrNoStory when nothing is stored.
func (c *Controller) Advance(ctx context.Context, subject string) (*AdvanceResult, error) {
	key := story.DeriveKey(subject)

	state, err := c.cfg.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load story %s: %w", key, err)
	}
	if state == nil || !state.Valid() {
		return nil, ErrNoStory
	}

	index, looped := state.Advance()
	if err := c.cfg.Store.Put(ctx, key, state); err != nil {
		return nil, fmt.Errorf("persist advance %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("index", index).Bool("looped", looped).Msg("Story advanced")
	return &AdvanceResult{
		Index:       index,
		Description: state.Current(),
		Looped:      looped,
	}, nil
}
