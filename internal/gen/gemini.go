package gen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/inkstory/internal/assets"
	"github.com/fpang/inkstory/internal/jsonutil"
)

// NewGeminiClient creates a Gemini API client from an API key.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return client, nil
}

// ValidateAPIKey makes a minimal text request to confirm the key works
// before the server starts taking traffic.
func ValidateAPIKey(ctx context.Context, client *genai.Client) error {
	start := time.Now()
	_, err := client.Models.GenerateContent(ctx, TextModelName(), genai.Text("hi"), nil)
	if err != nil {
		return fmt.Errorf("validate API key: %w", err)
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("API key validated")
	return nil
}

// GeminiStoryGenerator implements StoryGenerator on the Gemini text API.
type GeminiStoryGenerator struct {
	client *genai.Client
	model  string
}

// Compile-time interface check.
var _ StoryGenerator = (*GeminiStoryGenerator)(nil)

// NewGeminiStoryGenerator wraps a Gemini client as a StoryGenerator.
// An empty model selects TextModelName().
func NewGeminiStoryGenerator(client *genai.Client, model string) *GeminiStoryGenerator {
	if model == "" {
		model = TextModelName()
	}
	return &GeminiStoryGenerator{client: client, model: model}
}

// GenerateStory asks the text model for a JSON array of scene descriptions
// and parses it. Empty or malformed output is an error; the session
// controller owns the fallback policy.
func (g *GeminiStoryGenerator) GenerateStory(ctx context.Context, req StoryRequest) ([]string, error) {
	prompt := assets.RenderStoryPrompt(assets.StoryPromptData{
		Hero:       req.Hero,
		Age:        req.Age,
		SceneCount: req.SceneCount,
	})

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: assets.StorySystemPrompt}},
		},
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	log.Debug().
		Str("model", g.model).
		Str("hero", req.Hero).
		Int("scene_count", req.SceneCount).
		Msg("Requesting scene list from Gemini")

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate story: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	scenes, err := ParseSceneList(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("parse story response: %w", err)
	}

	log.Info().
		Str("hero", req.Hero).
		Int("scenes", len(scenes)).
		Dur("duration", time.Since(start)).
		Msg("Scene list generated")
	return scenes, nil
}

// ParseSceneList extracts a non-empty list of scene strings from a raw model
// response. Accepts a bare JSON array, fenced JSON, or an object with a
// "scenes" key (models occasionally wrap the array despite instructions).
func ParseSceneList(raw string) ([]string, error) {
	type wrapper struct {
		Scenes []string `json:"scenes"`
	}

	scenes, err := jsonutil.Parse[[]string](raw)
	if err != nil {
		wrapped, objErr := jsonutil.Parse[wrapper](raw)
		if objErr != nil {
			return nil, err
		}
		scenes = wrapped.Scenes
	}

	cleaned := make([]string, 0, len(scenes))
	for _, s := range scenes {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("response contained no scenes")
	}
	return cleaned, nil
}

// truncate shortens a string to maxLen, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
