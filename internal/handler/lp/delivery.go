package lp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/webitel/social-dashboard/internal/domain/event"
	lpmarshaller "github.com/webitel/social-dashboard/internal/handler/marshaller/lp"
	"github.com/webitel/social-dashboard/internal/service"
)

// maxBatch caps the events drained into one response.
const maxBatch = 16

type LPHandler struct {
	deliverer service.Deliverer
	timeout   time.Duration
}

func NewLPHandler(deliverer service.Deliverer, timeout time.Duration) *LPHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LPHandler{
		deliverer: deliverer,
		timeout:   timeout,
	}
}

// Poll handles the long-polling request.
// Frames newer than ?after= are answered from history right away; otherwise the connection
// is held until the next frame arrives or the poll timeout passes.
func (h *LPHandler) Poll(w http.ResponseWriter, r *http.Request) {
	dashboard := chi.URLParam(r, "name")

	// 1. Catch-up from history.
	if raw := r.URL.Query().Get("after"); raw != "" {
		after, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid after", http.StatusBadRequest)
			return
		}
		frames, err := h.deliverer.Since(dashboard, after)
		if err != nil {
			writeError(w, err)
			return
		}
		if len(frames) > 0 {
			if len(frames) > maxBatch {
				frames = frames[len(frames)-maxBatch:]
			}
			data, err := lpmarshaller.MarshallFrames(frames)
			if err != nil {
				http.Error(w, "marshal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, data)
			return
		}
	}

	// 2. Temporary Subscription.
	// We create a connector that will live only for the duration of this HTTP request.
	conn, err := h.deliverer.Subscribe(r.Context(), dashboard)
	if err != nil {
		writeError(w, err)
		return
	}

	// Ensure cleanup: remove from registry when request finishes.
	defer h.deliverer.Unsubscribe(dashboard, conn.GetID())

	var events []event.Eventer

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()

	// 3. Wait for data or timeout.
	select {
	case <-r.Context().Done():
		// Client disconnected.
		return

	case <-timer.C:
		w.WriteHeader(http.StatusNoContent)
		return

	case ev, ok := <-conn.Recv():
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		events = append(events, ev)

		// Drain remaining events from buffer to provide batching.
	drainLoop:
		for range maxBatch - 1 {
			select {
			case nextEv, ok := <-conn.Recv():
				if !ok {
					break drainLoop
				}
				events = append(events, nextEv)
			default:
				break drainLoop
			}
		}
	}

	// 4. Final transmission.
	data, err := lpmarshaller.MarshallEvents(events)
	if err != nil {
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, data)
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrUnknownDashboard) {
		http.Error(w, "dashboard not found", http.StatusNotFound)
		return
	}
	http.Error(w, "failed to subscribe", http.StatusServiceUnavailable)
}
