// Package story holds the storybook domain model: the persisted story
// state (ordered scene descriptions plus a cursor), the key derivation
// that correlates a hero name with stored state, and the deterministic
// fallback used when scene generation fails.
package story

import (
	"fmt"
	"strings"
	"time"
)

// FallbackSceneCount is the length of the placeholder story substituted
// when the text model fails or returns nothing usable.
const FallbackSceneCount = 5

// State is the per-hero story record. Scenes is fixed once the state is
// created; only CurrentIndex changes afterwards, and it always satisfies
// 0 <= CurrentIndex < len(Scenes).
//
// The ID/identity of a State is its derived storage key; the record itself
// carries no identity field. BirthMonth is opaque passthrough used only for
// prompt wording, never for control flow.
type State struct {
	Scenes       []string `json:"scenes" dynamodbav:"scenes"`
	CurrentIndex int      `json:"currentIndex" dynamodbav:"currentIndex"`
	BirthMonth   string   `json:"birthMonth,omitempty" dynamodbav:"birthMonth,omitempty"`
	CreatedAt    int64    `json:"createdAt" dynamodbav:"createdAt"`
}

// New builds a State from generated scenes, normalizing each scene and
// dropping blanks. If nothing usable remains, the deterministic fallback
// sequence is substituted so a State never exists with zero scenes.
func New(subject string, scenes []string, birthMonth string, now time.Time) *State {
	cleaned := make([]string, 0, len(scenes))
	for _, s := range scenes {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		cleaned = FallbackScenes(subject)
	}
	return &State{
		Scenes:       cleaned,
		CurrentIndex: 0,
		BirthMonth:   birthMonth,
		CreatedAt:    now.Unix(),
	}
}

// FallbackScenes returns a fixed-length placeholder story for the given
// hero. Deterministic: the same subject always yields the same scenes.
func FallbackScenes(subject string) []string {
	hero := strings.TrimSpace(subject)
	if hero == "" {
		hero = "our hero"
	}
	scenes := make([]string, FallbackSceneCount)
	for i := range scenes {
		scenes[i] = fmt.Sprintf("%s wanders through a quiet meadow, making a new friend (part %d).", hero, i+1)
	}
	return scenes
}

// Valid reports whether the state satisfies its invariants: at least one
// scene, and a cursor inside [0, len(Scenes)). States read back from
// storage are checked before use.
func (s *State) Valid() bool {
	return s != nil && len(s.Scenes) > 0 && s.CurrentIndex >= 0 && s.CurrentIndex < len(s.Scenes)
}

// Current returns the scene text at the cursor.
func (s *State) Current() string {
	return s.Scenes[s.CurrentIndex]
}

// Advance moves the cursor to the next scene, wrapping past the last scene
// back to the first. It returns the new index and whether this step looped.
// Advance is the sole scene-advancing primitive; there is no previous/jump.
func (s *State) Advance() (index int, looped bool) {
	s.CurrentIndex = (s.CurrentIndex + 1) % len(s.Scenes)
	return s.CurrentIndex, s.CurrentIndex == 0
}

// Rewind resets the cursor to the first scene without touching Scenes.
// Restarting an existing story rewinds rather than regenerating.
func (s *State) Rewind() {
	s.CurrentIndex = 0
}

// Context is the concatenation of every scene, used as narrative-continuity
// context for image generation.
func (s *State) Context() string {
	return strings.Join(s.Scenes, " ")
}
