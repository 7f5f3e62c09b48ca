package story

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewStateFromScenes(t *testing.T) {
	s := New("Brave Bee", []string{" A ", "", "B", "\t", "C"}, "2024-03", testNow)

	if len(s.Scenes) != 3 {
		t.Fatalf("expected 3 cleaned scenes, got %d: %v", len(s.Scenes), s.Scenes)
	}
	if s.Scenes[0] != "A" || s.Scenes[1] != "B" || s.Scenes[2] != "C" {
		t.Errorf("scenes not normalized: %v", s.Scenes)
	}
	if s.CurrentIndex != 0 {
		t.Errorf("new state must start at scene 0, got %d", s.CurrentIndex)
	}
	if s.BirthMonth != "2024-03" {
		t.Errorf("birth month not carried: %q", s.BirthMonth)
	}
	if s.CreatedAt != testNow.Unix() {
		t.Errorf("createdAt = %d, want %d", s.CreatedAt, testNow.Unix())
	}
	if !s.Valid() {
		t.Error("fresh state must be valid")
	}
}

func TestNewStateFallsBackWhenEmpty(t *testing.T) {
	for _, scenes := range [][]string{nil, {}, {"", "  ", "\n"}} {
		s := New("X", scenes, "", testNow)
		if len(s.Scenes) != FallbackSceneCount {
			t.Errorf("fallback length = %d, want %d", len(s.Scenes), FallbackSceneCount)
		}
		if s.CurrentIndex != 0 {
			t.Errorf("fallback state cursor = %d, want 0", s.CurrentIndex)
		}
		if !s.Valid() {
			t.Error("fallback state must be valid")
		}
	}
}

func TestFallbackScenesDeterministic(t *testing.T) {
	a := FallbackScenes("Brave Bee")
	b := FallbackScenes("Brave Bee")
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("scene %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestAdvanceWrapsAround(t *testing.T) {
	s := New("Brave Bee", []string{"A", "B", "C"}, "", testNow)

	// Advancing len(scenes) times returns to 0, looping only on the last step.
	wantIdx := []int{1, 2, 0}
	wantLoop := []bool{false, false, true}
	for i := range wantIdx {
		idx, looped := s.Advance()
		if idx != wantIdx[i] || looped != wantLoop[i] {
			t.Errorf("advance %d: got (%d, %v), want (%d, %v)", i+1, idx, looped, wantIdx[i], wantLoop[i])
		}
		if !s.Valid() {
			t.Fatalf("state invalid after advance %d", i+1)
		}
	}
}

func TestAdvanceSingleScene(t *testing.T) {
	s := New("Lonely Snail", []string{"only scene"}, "", testNow)
	for i := 0; i < 3; i++ {
		idx, looped := s.Advance()
		if idx != 0 || !looped {
			t.Errorf("single-scene advance %d: got (%d, %v), want (0, true)", i, idx, looped)
		}
	}
}

func TestRewindKeepsScenes(t *testing.T) {
	s := New("Brave Bee", []string{"A", "B", "C"}, "", testNow)
	s.Advance()
	s.Advance()
	s.Rewind()
	if s.CurrentIndex != 0 {
		t.Errorf("cursor after rewind = %d, want 0", s.CurrentIndex)
	}
	if len(s.Scenes) != 3 || s.Scenes[2] != "C" {
		t.Errorf("rewind must not touch scenes: %v", s.Scenes)
	}
}

func TestCurrentAndContext(t *testing.T) {
	s := New("Brave Bee", []string{"A", "B"}, "", testNow)
	if s.Current() != "A" {
		t.Errorf("Current() = %q, want A", s.Current())
	}
	s.Advance()
	if s.Current() != "B" {
		t.Errorf("Current() after advance = %q, want B", s.Current())
	}
	if s.Context() != "A B" {
		t.Errorf("Context() = %q, want %q", s.Context(), "A B")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		state *State
		want  bool
	}{
		{"nil", nil, false},
		{"empty scenes", &State{}, false},
		{"negative cursor", &State{Scenes: []string{"A"}, CurrentIndex: -1}, false},
		{"cursor at length", &State{Scenes: []string{"A"}, CurrentIndex: 1}, false},
		{"ok", &State{Scenes: []string{"A"}, CurrentIndex: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
