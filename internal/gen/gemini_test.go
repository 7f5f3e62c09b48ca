package gen

import "testing"

func TestParseSceneListBareArray(t *testing.T) {
	scenes, err := ParseSceneList(`["A", "B", "C"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenes) != 3 || scenes[0] != "A" {
		t.Errorf("parsed %v", scenes)
	}
}

func TestParseSceneListFencedWithProse(t *testing.T) {
	raw := "Here is the story!\n```json\n[\" Scene one \", \"Scene two\"]\n```"
	scenes, err := ParseSceneList(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenes) != 2 || scenes[0] != "Scene one" {
		t.Errorf("parsed %v", scenes)
	}
}

func TestParseSceneListWrappedObject(t *testing.T) {
	scenes, err := ParseSceneList(`{"scenes": ["A", "B"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenes) != 2 {
		t.Errorf("parsed %v", scenes)
	}
}

func TestParseSceneListRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose only", "Once upon a time there was no JSON."},
		{"empty array", `[]`},
		{"blank scenes", `["", "  ", "\t"]`},
		{"wrong shape", `{"story": "text"}`},
		{"truncated", `["A", "B`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSceneList(tt.raw); err == nil {
				t.Errorf("expected error for %q", tt.raw)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("truncate long = %q", got)
	}
}
