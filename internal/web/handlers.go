package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/undo-tic-tac-toe/internal/app"
	"github.com/jaminalder/undo-tic-tac-toe/internal/domain"
	"github.com/jaminalder/undo-tic-tac-toe/internal/metrics"
	"github.com/jaminalder/undo-tic-tac-toe/internal/state"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	metrics   *metrics.Metrics
	heartbeat time.Duration
	log       *slog.Logger
}

func (h *handlers) renderBoard(gs app.Session, errMsg string) []byte {
	b, err := renderTemplate(h.tpl.board, "", newBoardData(gs, errMsg))
	if err != nil {
		h.log.Error("render board", "game", gs.ID, "error", err)
	}
	return b
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	body, err := renderTemplate(h.tpl.index, "base", nil)
	if err != nil {
		h.log.Error("render index", "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID+"/", http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, err := renderTemplate(h.tpl.game, "base", newBoardData(*gs, ""))
	if err != nil {
		h.log.Error("render game", "game", gs.ID, "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// respond renders the board fragment after a view-layer command. A rejected
// command still renders the current board, with reject as the message.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, gs *app.Session, changed bool, err error, reject string) {
	var errMsg string
	switch {
	case errors.Is(err, app.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, app.ErrNotFinished):
		errMsg = "Game is not finished yet"
	case err != nil:
		errMsg = "Invalid action"
	case !changed:
		errMsg = reject
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusOK, h.renderBoard(*gs, errMsg))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	pos, convErr := strconv.Atoi(r.Form.Get("pos"))
	if convErr != nil {
		pos = -1
	}
	gs, changed, err := h.svc.Play(id, pos)
	reject := "Cell is occupied"
	switch {
	case convErr != nil || pos < 0 || pos > 8:
		reject = "Out of bounds"
	case gs != nil && gs.View().Winner != domain.Empty:
		reject = "Game is over"
	}
	h.respond(w, r, gs, changed, err, reject)
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
	gs, changed, err := h.svc.Undo(chi.URLParam(r, "id"))
	h.respond(w, r, gs, changed, err, "Nothing to undo")
}

func (h *handlers) redo(w http.ResponseWriter, r *http.Request) {
	gs, changed, err := h.svc.Redo(chi.URLParam(r, "id"))
	h.respond(w, r, gs, changed, err, "Nothing to redo")
}

func (h *handlers) finish(w http.ResponseWriter, r *http.Request) {
	gs, changed, err := h.svc.Finish(chi.URLParam(r, "id"))
	h.respond(w, r, gs, changed, err, "Game is not finished yet")
}

// snapshot is the JSON form of a session.
type snapshot struct {
	ID       string     `json:"id"`
	Accepted *bool      `json:"accepted,omitempty"`
	State    state.Root `json:"state"`
	View     state.View `json:"view"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *handlers) getState(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, app.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snapshot{ID: gs.ID, State: gs.Root, View: gs.View()})
}

// dispatch is the raw action entry point. Actions go straight to the
// reducers, without the turn selection done by the board commands.
func (h *handlers) dispatch(w http.ResponseWriter, r *http.Request) {
	a, err := decodeAction(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	gs, accepted, err := h.svc.Dispatch(chi.URLParam(r, "id"), a)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, app.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSONError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot{ID: gs.ID, Accepted: &accepted, State: gs.Root, View: gs.View()})
}

// writeEvent emits one SSE event; multi-line payloads become multiple data lines.
func writeEvent(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}
