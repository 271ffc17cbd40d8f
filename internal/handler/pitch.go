package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pitchhub/internal/service"
)

// PitchHandler serves pitch CRUD. Reads are public; the viewer id, when
// present, only changes the likedByMe flag.
type PitchHandler struct {
	pitches *service.PitchService
	logger  *slog.Logger
}

func NewPitchHandler(pitches *service.PitchService, logger *slog.Logger) *PitchHandler {
	return &PitchHandler{pitches: pitches, logger: logger}
}

type pitchRequest struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Body        string   `json:"body"`
	Category    string   `json:"category"`
	Tags        string   `json:"tags"`
	Image       string   `json:"image"`
	FundingGoal string   `json:"fundingGoal"`
	Stage       string   `json:"stage"`
	TeamSize    string   `json:"teamSize"`
	Location    string   `json:"location"`
	Website     string   `json:"website"`
	DemoURL     string   `json:"demoUrl"`
	LookingFor  []string `json:"lookingFor"`
}

func (p pitchRequest) input() service.PitchInput {
	return service.PitchInput{
		Title:       p.Title,
		Summary:     p.Summary,
		Body:        p.Body,
		Category:    p.Category,
		Tags:        p.Tags,
		Image:       p.Image,
		FundingGoal: p.FundingGoal,
		Stage:       p.Stage,
		TeamSize:    p.TeamSize,
		Location:    p.Location,
		Website:     p.Website,
		DemoURL:     p.DemoURL,
		LookingFor:  p.LookingFor,
	}
}

// HandleList returns pitches newest first.
//
// HTTP: GET /api/pitches?q=solar&limit=20&offset=0
func (h *PitchHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	list, err := h.pitches.List(r.Context(), r.URL.Query().Get("q"), limit, offset, viewerID(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet returns one pitch with its live counts.
//
// HTTP: GET /api/pitches/{id}
func (h *PitchHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	view, err := h.pitches.Get(r.Context(), id, viewerID(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleCreate stores a new pitch authored by the caller.
//
// HTTP: POST /api/pitches
func (h *PitchHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req pitchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	p, err := h.pitches.Create(r.Context(), userID, req.input())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleDelete removes a pitch. Author or admin only.
//
// HTTP: DELETE /api/pitches/{id}
func (h *PitchHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.pitches.Delete(r.Context(), id, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMine backs the dashboard: the caller's own pitches.
//
// HTTP: GET /api/me/pitches
func (h *PitchHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, offset := pagination(r)
	list, err := h.pitches.ListByAuthor(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
