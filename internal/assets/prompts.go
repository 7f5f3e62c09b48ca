// Package assets provides embedded static assets for the application.
//
// Prompt templates are stored as text files under prompts/ and embedded at
// compile time, keeping prompt wording out of Go source.
package assets

import (
	"bytes"
	_ "embed"
	"text/template"
)

// StorySystemPrompt frames the text model as a children's-book author and
// pins the response format to a bare JSON array of scene strings.
//
//go:embed prompts/story-system.txt
var StorySystemPrompt string

//go:embed prompts/story-user.txt
var storyUserTemplate string

//go:embed prompts/scene-image.txt
var sceneImageTemplate string

// Pre-parsed templates. template.Must panics on malformed templates,
// catching errors at program startup rather than at call time.
var (
	storyPromptTmpl = template.Must(template.New("story").Parse(storyUserTemplate))
	imagePromptTmpl = template.Must(template.New("scene-image").Parse(sceneImageTemplate))
)

// StoryPromptData holds the dynamic data injected into the story prompt.
type StoryPromptData struct {
	// Hero is the reader-entered hero name.
	Hero string
	// Age is the reader age string (e.g. "2y 3m"), empty when unknown.
	Age string
	// SceneCount is the number of scenes to request.
	SceneCount int
}

// ImagePromptData holds the dynamic data injected into the illustration prompt.
type ImagePromptData struct {
	Hero string
	Age  string
	// Scene is the description of the scene to illustrate.
	Scene string
	// StoryContext is the concatenated story so far, for visual continuity.
	// Empty disables the continuity section of the prompt.
	StoryContext string
}

// RenderStoryPrompt renders the scene-list generation prompt.
func RenderStoryPrompt(data StoryPromptData) string {
	if data.Age == "" {
		data.Age = "young"
	}
	return render(storyPromptTmpl, data)
}

// RenderImagePrompt renders the per-scene illustration prompt.
func RenderImagePrompt(data ImagePromptData) string {
	if data.Age == "" {
		data.Age = "young"
	}
	return render(imagePromptTmpl, data)
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	// Execution errors are not expected with these templates; return
	// whatever was rendered.
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
