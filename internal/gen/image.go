package gen

// image.go provides a REST API client for Gemini image generation. Direct
// HTTP calls are used instead of the Go SDK because image output support in
// the SDK still lags the REST surface for the preview image models.

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/inkstory/internal/assets"
)

// geminiBaseURL is the Gemini REST API base URL.
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiImageGenerator implements ImageGenerator against the Gemini image
// model via the REST API.
type GeminiImageGenerator struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// Compile-time interface check.
var _ ImageGenerator = (*GeminiImageGenerator)(nil)

// NewGeminiImageGenerator creates a REST client for scene illustration.
// An empty model selects ImageModelName().
func NewGeminiImageGenerator(apiKey, model string) *GeminiImageGenerator {
	if model == "" {
		model = ImageModelName()
	}
	return &GeminiImageGenerator{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // image generation can take 10-30s
		},
	}
}

// --- REST API request/response types ---

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlobData `json:"inlineData,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiBlobData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GenerateImage renders one scene as picture-book art and returns the raw
// image bytes. Failures are returned to the caller; there is no fallback
// image.
func (g *GeminiImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	prompt := assets.RenderImagePrompt(assets.ImagePromptData{
		Hero:         req.Hero,
		Age:          req.Age,
		Scene:        req.Scene,
		StoryContext: req.StoryContext,
	})

	startTime := time.Now()
	log.Info().
		Str("model", g.model).
		Str("scene", truncate(req.Scene, 100)).
		Msg("Requesting scene illustration from Gemini")

	body, err := json.Marshal(geminiRequest{
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiBaseURL, g.model, g.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(respBody), 500)).
			Msg("Gemini image API returned error")
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if geminiResp.Error != nil {
		return nil, fmt.Errorf("API error: %s (code: %d)", geminiResp.Error.Message, geminiResp.Error.Code)
	}

	for _, candidate := range geminiResp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil {
				continue
			}
			decoded, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image data: %w", err)
			}
			log.Info().
				Int("output_bytes", len(decoded)).
				Str("output_mime", part.InlineData.MIMEType).
				Dur("duration", time.Since(startTime)).
				Msg("Scene illustration complete")
			return &Image{Data: decoded, MIMEType: part.InlineData.MIMEType}, nil
		}
	}

	return nil, fmt.Errorf("no image returned in response")
}
