// Package gen abstracts the generative collaborators: a text model that
// produces the ordered scene list for a story, and an image model that
// renders one scene as picture-book art. The session controller depends on
// these interfaces only; real Gemini-backed adapters live alongside, and
// tests use deterministic stubs.
package gen

import "context"

// StoryRequest carries the inputs for scene-list generation.
type StoryRequest struct {
	// Hero is the reader-entered hero name (prompt content, not a key).
	Hero string
	// Age is the reader age string for audience wording, may be empty.
	Age string
	// SceneCount is the number of scenes to request from the model.
	SceneCount int
}

// StoryGenerator produces an ordered sequence of scene descriptions.
// A failed or malformed generation surfaces as an error; the caller is
// responsible for substituting the fallback story, never the generator.
type StoryGenerator interface {
	GenerateStory(ctx context.Context, req StoryRequest) ([]string, error)
}

// ImageRequest carries the inputs for rendering one scene.
type ImageRequest struct {
	Hero string
	Age  string
	// Scene is the description of the scene to illustrate.
	Scene string
	// StoryContext is the concatenation of all scene texts, giving the
	// image model narrative continuity. May be empty.
	StoryContext string
}

// Image is rendered scene art.
type Image struct {
	Data     []byte
	MIMEType string
}

// ImageGenerator renders a scene description as image bytes. There is no
// meaningful fallback for images; errors propagate to the caller.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*Image, error)
}
