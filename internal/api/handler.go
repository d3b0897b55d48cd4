// Package api exposes the engine's commands and queries over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/playhead/internal/auth"
	"github.com/inamate/playhead/internal/engine"
)

type Handler struct {
	engine *engine.Engine
}

func NewHandler(e *engine.Engine) *Handler {
	return &Handler{engine: e}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/ops", h.SubmitOperation).Methods("POST")
	r.HandleFunc("/curves", h.ListCurves).Methods("GET")
	r.HandleFunc("/curves/{id}", h.GetCurve).Methods("GET")
	r.HandleFunc("/cursors", h.ListCursors).Methods("GET")
	r.HandleFunc("/cursors/{id}", h.GetCursor).Methods("GET")
	r.HandleFunc("/triggers", h.ListTriggers).Methods("GET")
	r.HandleFunc("/triggers/{id}", h.GetTrigger).Methods("GET")
	r.HandleFunc("/transport", h.GetTransport).Methods("GET")
	r.HandleFunc("/transport/speed", h.SetSpeed).Methods("PUT")
	r.HandleFunc("/transport/{action}", h.Transport).Methods("POST")
	r.HandleFunc("/scene/sample", h.LoadSample).Methods("POST")
	r.HandleFunc("/scene", h.ClearScene).Methods("DELETE")
}

type operationResponse struct {
	OperationID string `json:"operationId"`
	Target      string `json:"target"`
}

type speedRequest struct {
	TimeFactor *float64 `json:"timeFactor"`
}

// SubmitOperation queues one operation. It is applied on the next tick, so
// the response is 202.
func (h *Handler) SubmitOperation(w http.ResponseWriter, r *http.Request) {
	var op engine.Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if op.ID == "" {
		op.ID = uuid.NewString()
	}

	target, err := h.engine.Submit(op)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	slog.Debug("operation queued", "type", op.Type, "target", target, "subject", auth.SubjectFromContext(r.Context()))
	writeJSON(w, http.StatusAccepted, operationResponse{OperationID: op.ID, Target: target})
}

func (h *Handler) ListCurves(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Curves())
}

func (h *Handler) GetCurve(w http.ResponseWriter, r *http.Request) {
	v, err := h.engine.Curve(mux.Vars(r)["id"])
	if err != nil {
		handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) ListCursors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Cursors())
}

func (h *Handler) GetCursor(w http.ResponseWriter, r *http.Request) {
	v, err := h.engine.Cursor(mux.Vars(r)["id"])
	if err != nil {
		handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) ListTriggers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Triggers())
}

func (h *Handler) GetTrigger(w http.ResponseWriter, r *http.Request) {
	v, err := h.engine.Trigger(mux.Vars(r)["id"])
	if err != nil {
		handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) GetTransport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Playback())
}

// Transport handles POST /transport/{play|pause|toggle|rewind}.
func (h *Handler) Transport(w http.ResponseWriter, r *http.Request) {
	switch action := mux.Vars(r)["action"]; action {
	case "play":
		h.engine.Play()
	case "pause":
		h.engine.Pause()
	case "toggle":
		h.engine.TogglePlay()
	case "rewind":
		h.engine.Rewind()
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown transport action"})
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Playback())
}

func (h *Handler) SetSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TimeFactor == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "timeFactor is required"})
		return
	}
	h.engine.SetTimeFactor(*req.TimeFactor)
	writeJSON(w, http.StatusOK, h.engine.Playback())
}

func (h *Handler) LoadSample(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.LoadSampleScene(); err != nil {
		handleEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, h.engine.Playback())
}

func (h *Handler) ClearScene(w http.ResponseWriter, r *http.Request) {
	h.engine.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func handleEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, engine.ErrDuplicateID):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, engine.ErrInvalidID), errors.Is(err, engine.ErrInvalidOp), errors.Is(err, engine.ErrUnknownOp):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("engine error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
