package assets

import (
	"strings"
	"testing"
)

func TestRenderStoryPrompt(t *testing.T) {
	p := RenderStoryPrompt(StoryPromptData{Hero: "Brave Bee", Age: "2y 3m", SceneCount: 6})

	for _, want := range []string{"Brave Bee", "2y 3m", "6 scenes"} {
		if !strings.Contains(p, want) {
			t.Errorf("story prompt missing %q:\n%s", want, p)
		}
	}
}

func TestRenderStoryPromptDefaultsAge(t *testing.T) {
	p := RenderStoryPrompt(StoryPromptData{Hero: "Brave Bee", SceneCount: 3})
	if !strings.Contains(p, "young reader") {
		t.Errorf("expected default audience wording, got:\n%s", p)
	}
}

func TestRenderImagePrompt(t *testing.T) {
	p := RenderImagePrompt(ImagePromptData{
		Hero:         "Brave Bee",
		Age:          "3y 0m",
		Scene:        "The bee meets a snail.",
		StoryContext: "A B C",
	})

	for _, want := range []string{"Brave Bee", "3y 0m", "The bee meets a snail.", "A B C", "1/5", "600x600"} {
		if !strings.Contains(p, want) {
			t.Errorf("image prompt missing %q:\n%s", want, p)
		}
	}
}

func TestRenderImagePromptNoContext(t *testing.T) {
	p := RenderImagePrompt(ImagePromptData{Hero: "Brave Bee", Scene: "Setting off."})
	if strings.Contains(p, "Story so far") {
		t.Errorf("continuity section should be omitted without context:\n%s", p)
	}
}
