// Package web renders the e-reader UI and exposes the HTTP surface over
// the session controller. Markup stays table-based and script-light for
// the weak browsers on e-ink devices.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/inkstory/internal/session"
)

// Handler serves the storybook routes:
//
//	GET /              — setup form (no state access)
//	GET /start         — create or rewind a story, redirect to the viewer
//	GET /view          — render the current scene
//	GET /api/image.png — raw scene art for a given index
//	GET /api/next      — advance the cursor, JSON {index, desc, looped}
type Handler struct {
	ctrl *session.Controller
	now  func() time.Time
}

// NewHandler creates a Handler over the given controller.
func NewHandler(ctrl *session.Controller) *Handler {
	return &Handler{ctrl: ctrl, now: time.Now}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleSetup)
	mux.HandleFunc("/start", h.handleStart)
	mux.HandleFunc("/view", h.handleView)
	mux.HandleFunc("/api/image.png", h.handleImage)
	mux.HandleFunc("/api/next", h.handleNext)
}

func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderHTML(w, setupTmpl, nil)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	hero := r.URL.Query().Get("hero")
	if hero == "" {
		// Nothing to start; back to the form.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	dob := r.URL.Query().Get("dob")

	if _, err := h.ctrl.Start(r.Context(), hero, dob); err != nil {
		log.Error().Err(err).Str("hero", hero).Msg("Start failed")
		httpError(w, http.StatusInternalServerError, "could not start the story")
		return
	}

	http.Redirect(w, r, "/view?hero="+url.QueryEscape(hero), http.StatusSeeOther)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	hero := r.URL.Query().Get("hero")
	if hero == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view, err := h.ctrl.View(r.Context(), hero)
	if errors.Is(err, session.ErrNoStory) {
		// Missing state is "nothing to view", not an error.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("hero", hero).Msg("View failed")
		httpError(w, http.StatusInternalServerError, "could not load the story")
		return
	}

	imageSrc := fmt.Sprintf("/api/image.png?hero=%s&index=%d&t=%d",
		url.QueryEscape(hero), view.Index, h.now().UnixMilli())

	renderHTML(w, viewerTmpl, viewerData{
		Hero:     hero,
		Text:     view.Text,
		Index:    view.Index,
		Position: view.Index + 1,
		Total:    view.Total,
		ImageSrc: imageSrc,
	})
}

func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	hero := r.URL.Query().Get("hero")
	if hero == "" {
		httpError(w, http.StatusBadRequest, "hero is required")
		return
	}
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	data, err := h.ctrl.Image(r.Context(), hero, index)
	if errors.Is(err, session.ErrNoStory) || errors.Is(err, session.ErrSceneOutOfRange) {
		httpError(w, http.StatusNotFound, "no such scene")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("hero", hero).Int("index", index).Msg("Image generation failed")
		httpError(w, http.StatusInternalServerError, "could not draw the scene")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	hero := r.URL.Query().Get("hero")
	if hero == "" {
		httpError(w, http.StatusBadRequest, "hero is required")
		return
	}

	result, err := h.ctrl.Advance(r.Context(), hero)
	if errors.Is(err, session.ErrNoStory) {
		httpError(w, http.StatusNotFound, "no story to advance")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("hero", hero).Msg("Advance failed")
		httpError(w, http.StatusInternalServerError, "could not turn the page")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
