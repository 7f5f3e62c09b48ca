package gen

import "os"

// Gemini model IDs used by the adapters.
const (
	// ModelGemini3FlashPreview is best for speed + intelligence; scene
	// lists are short and need no deep reasoning.
	ModelGemini3FlashPreview = "gemini-3-flash-preview"

	// ModelGemini25Flash is stable, balanced performance.
	ModelGemini25Flash = "gemini-2.5-flash"

	// ModelGemini3ProImage is for advanced image generation/edit.
	ModelGemini3ProImage = "gemini-3-pro-image-preview"
)

// DefaultTextModel is the default model for scene-list generation.
// Can be overridden via the GEMINI_MODEL environment variable.
const DefaultTextModel = ModelGemini3FlashPreview

// DefaultImageModel is the default model for scene illustration.
// Can be overridden via the GEMINI_IMAGE_MODEL environment variable.
const DefaultImageModel = ModelGemini3ProImage

// TextModelName resolves the text model: GEMINI_MODEL env var if set,
// otherwise DefaultTextModel.
func TextModelName() string {
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return DefaultTextModel
}

// ImageModelName resolves the image model: GEMINI_IMAGE_MODEL env var if
// set, otherwise DefaultImageModel.
func ImageModelName() string {
	if env := os.Getenv("GEMINI_IMAGE_MODEL"); env != "" {
		return env
	}
	return DefaultImageModel
}
