package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitebuilder/app/usecase"
	"sitebuilder/internal/domain/entity"
	"sitebuilder/internal/infrastructure/metrics"
)

const (
	maxUploadSize  = 32 << 20
	maxWebhookSize = 64 << 10
	maxWSMessage   = 1 << 20
)

type SiteBuilderHandler struct {
	generationService usecase.GenerationUsecase
	projectService    usecase.ProjectUsecase
	checkoutService   usecase.CheckoutUsecase
	logger            *slog.Logger
	upgrader          websocket.Upgrader
}

func NewSiteBuilderHandler(
	generationService usecase.GenerationUsecase,
	projectService usecase.ProjectUsecase,
	checkoutService usecase.CheckoutUsecase,
	logger *slog.Logger,
) *SiteBuilderHandler {
	return &SiteBuilderHandler{
		generationService: generationService,
		projectService:    projectService,
		checkoutService:   checkoutService,
		logger:            logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// withMetrics records request count and latency per route template.
func (h *SiteBuilderHandler) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		metrics.ObserveHTTPRequest(r.Method, path, rw.status, time.Since(start))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController and the websocket upgrader reach the
// underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (h *SiteBuilderHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.withMetrics(h.handleRoot)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", h.withMetrics(h.handleHealth)).Methods(http.MethodGet)
	api.HandleFunc("/generate_page", h.withMetrics(h.handleGeneratePage)).Methods(http.MethodPost)
	api.HandleFunc("/ws/generate", h.handleGenerateWS).Methods(http.MethodGet)

	api.HandleFunc("/projects", h.withMetrics(h.handleCreateProject)).Methods(http.MethodPost)
	api.HandleFunc("/projects", h.withMetrics(h.handleListProjects)).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", h.withMetrics(h.handleGetProject)).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", h.withMetrics(h.handleDeleteProject)).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/pages", h.withMetrics(h.handleCreatePage)).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/pages", h.withMetrics(h.handleListPages)).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/gallery", h.withMetrics(h.handleAddToGallery)).Methods(http.MethodPost)

	api.HandleFunc("/checkout/create_session", h.withMetrics(h.handleCreateCheckoutSession)).Methods(http.MethodPost)
	api.HandleFunc("/checkout/webhook", h.withMetrics(h.handleWebhook)).Methods(http.MethodPost)

	// Prometheus
	r.Handle("/metrics", promhttp.Handler())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrBillingNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs unexpected failures and maps domain errors to codes.
func (h *SiteBuilderHandler) writeServiceError(w http.ResponseWriter, msg string, err error, args ...any) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error(msg, append(args, "err", err)...)
	}
	writeError(w, code, err)
}

// GET /
func (h *SiteBuilderHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to AI Website Builder - Generate multi-page sites with AI!",
	})
}

// GET /api/health
func (h *SiteBuilderHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"ok": true,
		"ts": time.Now().UTC(),
	}
	writeJSON(w, http.StatusOK, status)
}

type generateReq struct {
	Prompt *string `json:"prompt"`
	API    string  `json:"api"`
}

func (req generateReq) validate() error {
	if req.Prompt == nil {
		return fmt.Errorf("%w: prompt is required", entity.ErrInvalidArgument)
	}
	return nil
}

// POST /api/generate_page
func (h *SiteBuilderHandler) handleGeneratePage(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, h.generationService.Generate(r.Context(), *req.Prompt, req.API))
}

// GET /api/ws/generate
func (h *SiteBuilderHandler) handleGenerateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(maxWSMessage)

	for {
		var req generateReq
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read ended", "err", err)
			}
			return
		}

		var reply interface{}
		if err := req.validate(); err != nil {
			reply = map[string]string{"error": err.Error()}
		} else {
			reply = h.generationService.Generate(r.Context(), *req.Prompt, req.API)
		}
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Debug("websocket write failed", "err", err)
			return
		}
	}
}

type createProjectReq struct {
	Name   string `json:"name"`
	UserID int    `json:"user_id"`
}

type projectResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toProjectResp(p *entity.Project) projectResp {
	return projectResp{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

// POST /api/projects
func (h *SiteBuilderHandler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), req.Name, req.UserID)
	if err != nil {
		h.writeServiceError(w, "create project failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResp(project))
}

// GET /api/projects
func (h *SiteBuilderHandler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects(r.Context())
	if err != nil {
		h.writeServiceError(w, "list projects failed", err)
		return
	}
	resp := make([]projectResp, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResp(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/projects/{id}
func (h *SiteBuilderHandler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	project, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "get project failed", err, "project_id", id)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DELETE /api/projects/{id}
func (h *SiteBuilderHandler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.projectService.DeleteProject(r.Context(), id); err != nil {
		h.writeServiceError(w, "delete project failed", err, "project_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createPageReq struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
	API    string `json:"api"`
}

// POST /api/projects/{id}/pages
func (h *SiteBuilderHandler) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req createPageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}

	page, err := h.projectService.CreatePage(r.Context(), id, req.Title, req.Prompt, req.API)
	if err != nil {
		h.writeServiceError(w, "create page failed", err, "project_id", id)
		return
	}
	writeJSON(w, http.StatusCreated, page)
}

// GET /api/projects/{id}/pages
func (h *SiteBuilderHandler) handleListPages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	pages, err := h.projectService.ListPages(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "list pages failed", err, "project_id", id)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

// POST /api/projects/{id}/gallery
func (h *SiteBuilderHandler) handleAddToGallery(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("file is required: %w", err))
		return
	}
	defer func() { _ = file.Close() }()

	path, err := h.projectService.AddToGallery(r.Context(), id, header.Filename, file)
	if err != nil {
		h.writeServiceError(w, "add to gallery failed", err, "project_id", id)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// POST /api/checkout/create_session
func (h *SiteBuilderHandler) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req entity.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}

	session, err := h.checkoutService.CreateCheckoutSession(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "create checkout session failed", err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// POST /api/checkout/webhook
func (h *SiteBuilderHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}

	if err := h.checkoutService.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.writeServiceError(w, "webhook failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
