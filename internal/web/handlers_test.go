package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fpang/inkstory/internal/gen"
	"github.com/fpang/inkstory/internal/session"
	"github.com/fpang/inkstory/internal/store"
)

type fixedStories struct{ scenes []string }

func (f *fixedStories) GenerateStory(ctx context.Context, req gen.StoryRequest) ([]string, error) {
	return f.scenes, nil
}

type fixedImages struct {
	data  []byte
	calls int
}

func (f *fixedImages) GenerateImage(ctx context.Context, req gen.ImageRequest) (*gen.Image, error) {
	f.calls++
	return &gen.Image{Data: f.data, MIMEType: "image/png"}, nil
}

func newTestServer(scenes []string) (*http.ServeMux, *fixedImages) {
	images := &fixedImages{data: []byte("fake png bytes")}
	ctrl := session.New(session.Config{
		Store:   store.NewMemoryStore(),
		Stories: &fixedStories{scenes: scenes},
		Images:  images,
	})
	mux := http.NewServeMux()
	NewHandler(ctrl).Register(mux)
	return mux, images
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestSetupPage(t *testing.T) {
	mux, _ := newTestServer([]string{"A"})
	rr := get(mux, "/")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `action="/start"`) {
		t.Error("setup page missing start form")
	}
}

func TestStartRedirectsToView(t *testing.T) {
	mux, _ := newTestServer([]string{"A", "B"})
	rr := get(mux, "/start?hero=Brave+Bee&dob=2024-03")

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/view?hero=Brave+Bee" {
		t.Errorf("location = %q", loc)
	}
}

func TestStartWithoutHeroRedirectsHome(t *testing.T) {
	mux, _ := newTestServer([]string{"A"})
	rr := get(mux, "/start")

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Errorf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestViewWithoutStoryRedirectsToSetup(t *testing.T) {
	mux, _ := newTestServer([]string{"A"})
	rr := get(mux, "/view?hero=Nobody")

	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Errorf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestViewRendersCurrentScene(t *testing.T) {
	mux, _ := newTestServer([]string{"A tiny bee wakes up.", "B"})
	get(mux, "/start?hero=Brave+Bee")
	rr := get(mux, "/view?hero=Brave+Bee")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "A tiny bee wakes up.") {
		t.Error("viewer missing scene text")
	}
	if !strings.Contains(body, "/api/image.png?hero=Brave+Bee&amp;index=0") {
		t.Errorf("viewer missing image reference:\n%s", body)
	}
	if !strings.Contains(body, "(1/2)") {
		t.Error("viewer missing position indicator")
	}
}

func TestImageServesPNG(t *testing.T) {
	mux, images := newTestServer([]string{"A", "B"})
	get(mux, "/start?hero=Brave+Bee")
	rr := get(mux, "/api/image.png?hero=Brave+Bee&index=1")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if rr.Body.String() != "fake png bytes" {
		t.Error("image bytes not passed through verbatim")
	}
	if images.calls != 1 {
		t.Errorf("image generator calls = %d", images.calls)
	}
}

func TestImageNotFoundCases(t *testing.T) {
	mux, images := newTestServer([]string{"A", "B", "C"})
	get(mux, "/start?hero=Brave+Bee")

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"no story", "/api/image.png?hero=Nobody&index=0", http.StatusNotFound},
		{"out of range", "/api/image.png?hero=Brave+Bee&index=5", http.StatusNotFound},
		{"negative", "/api/image.png?hero=Brave+Bee&index=-1", http.StatusNotFound},
		{"non-numeric", "/api/image.png?hero=Brave+Bee&index=two", http.StatusBadRequest},
		{"missing hero", "/api/image.png?index=0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := get(mux, tt.target); rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
		})
	}
	if images.calls != 0 {
		t.Errorf("image generator called %d times for invalid requests", images.calls)
	}
}

func TestNextAdvancesAndLoops(t *testing.T) {
	mux, _ := newTestServer([]string{"A", "B", "C"})
	get(mux, "/start?hero=Brave+Bee")

	type next struct {
		Index  int    `json:"index"`
		Desc   string `json:"desc"`
		Looped bool   `json:"looped"`
	}
	want := []next{
		{Index: 1, Desc: "B", Looped: false},
		{Index: 2, Desc: "C", Looped: false},
		{Index: 0, Desc: "A", Looped: true},
	}
	for i, w := range want {
		rr := get(mux, "/api/next?hero=Brave+Bee")
		if rr.Code != http.StatusOK {
			t.Fatalf("advance %d status = %d", i+1, rr.Code)
		}
		var got next
		if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
			t.Fatalf("advance %d bad JSON: %v", i+1, err)
		}
		if got != w {
			t.Errorf("advance %d = %+v, want %+v", i+1, got, w)
		}
	}
}

func TestNextWithoutStory(t *testing.T) {
	mux, _ := newTestServer([]string{"A"})
	rr := get(mux, "/api/next?hero=Nobody")

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestNextMissingHero(t *testing.T) {
	mux, _ := newTestServer([]string{"A"})
	if rr := get(mux, "/api/next"); rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	mux, _ := newTestServer([]string{"A"})
	if rr := get(mux, "/definitely/not/here"); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
