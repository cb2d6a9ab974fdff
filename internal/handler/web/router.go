package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/webitel/social-dashboard/internal/domain/model"
	"github.com/webitel/social-dashboard/internal/handler/lp"
	"github.com/webitel/social-dashboard/internal/handler/ws"
	"github.com/webitel/social-dashboard/internal/metrics"
	"github.com/webitel/social-dashboard/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Handler serves the browser pages and the JSON endpoints of every hosted dashboard.
type Handler struct {
	deliverer service.Deliverer
	logger    *slog.Logger
}

func NewHandler(deliverer service.Deliverer, logger *slog.Logger) *Handler {
	return &Handler{deliverer: deliverer, logger: logger}
}

// NewRouter mounts every HTTP surface on one chi router.
func NewRouter(h *Handler, wsh *ws.WSHandler, lph *lp.LPHandler, m *metrics.Metrics, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/", h.Index)
	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/dashboards", func(r chi.Router) {
		r.Get("/", h.List)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", h.Page)
			r.Get("/snapshot", h.Snapshot)
			r.Get("/poll", lph.Poll)
			r.Method(http.MethodGet, "/ws", wsh)
		})
	})
	return r
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", h.deliverer.Dashboards())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deliverer.Dashboards())
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	info, ok := h.lookup(chi.URLParam(r, "name"))
	if !ok {
		http.Error(w, "dashboard not found", http.StatusNotFound)
		return
	}
	h.render(w, "dashboard.html", info)
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	frame, err := h.deliverer.Snapshot(chi.URLParam(r, "name"))
	if errors.Is(err, service.ErrUnknownDashboard) {
		http.Error(w, "dashboard not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (h *Handler) lookup(name string) (model.DashboardInfo, bool) {
	for _, info := range h.deliverer.Dashboards() {
		if info.Name == name {
			return info, true
		}
	}
	return model.DashboardInfo{}, false
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, page, data); err != nil {
		h.logger.Error("PAGE_RENDER_FAILED", "page", page, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			logger.Debug("HTTP_REQUEST",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
