// Package api provides HTTP API handlers.
package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/truthlens/truthlens/internal/analysis"
	"github.com/truthlens/truthlens/internal/database"
	"github.com/truthlens/truthlens/internal/models"
)

// Handler contains all HTTP handlers.
type Handler struct {
	svc   *analysis.Service
	store database.Store
}

// NewHandler creates a new handler.
func NewHandler(svc *analysis.Service, store database.Store) *Handler {
	return &Handler{
		svc:   svc,
		store: store,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   "1.0.0",
		"provider":  h.svc.ProviderName(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// AnalyzeImage handles image authenticity requests.
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	data, mimeType, ok := h.decodeMediaRequest(w, r, "Image")
	if !ok {
		return
	}

	verdict, err := h.svc.AnalyzeImage(r.Context(), data, mimeType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

// AnalyzeVoice handles voice authenticity requests.
func (h *Handler) AnalyzeVoice(w http.ResponseWriter, r *http.Request) {
	data, mimeType, ok := h.decodeMediaRequest(w, r, "Voice")
	if !ok {
		return
	}

	verdict, err := h.svc.AnalyzeVoice(r.Context(), data, mimeType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

// decodeMediaRequest parses and validates a media request body. It
// writes the error response itself and reports success via ok.
func (h *Handler) decodeMediaRequest(w http.ResponseWriter, r *http.Request, label string) (data []byte, mimeType string, ok bool) {
	var req models.MediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, "", false
	}

	if req.Data == "" {
		writeError(w, http.StatusBadRequest, label+" data is required")
		return nil, "", false
	}
	if req.MimeType == "" {
		writeError(w, http.StatusBadRequest, "Mime type is required")
		return nil, "", false
	}

	// Accept both raw base64 and data URLs
	payload := req.Data
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, label+" data must be base64-encoded")
		return nil, "", false
	}

	return decoded, req.MimeType, true
}

// AnalyzeArticle handles article fact-check requests. The body carries
// either inline text or a URL to fetch.
func (h *Handler) AnalyzeArticle(w http.ResponseWriter, r *http.Request) {
	var req models.ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var verdict models.ArticleVerdict
	var err error
	switch {
	case strings.TrimSpace(req.Text) != "":
		verdict, err = h.svc.CheckArticleText(r.Context(), req.Text)
	case strings.TrimSpace(req.URL) != "":
		verdict, err = h.svc.CheckArticleURL(r.Context(), req.URL)
	default:
		writeError(w, http.StatusBadRequest, "Either text or url is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

// GenerateTemplate handles awareness template requests.
func (h *Handler) GenerateTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content, err := h.svc.GenerateTemplate(r.Context(), req.Topic)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, content)
}

// Trending returns the trending misinformation feed.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	topics := h.svc.TrendingTopics(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"topics": topics,
	})
}

// Assistant handles assistant messages.
func (h *Handler) Assistant(w http.ResponseWriter, r *http.Request) {
	var req models.AssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.svc.Ask(r.Context(), req.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// validHistoryKinds are the kind filters ListHistory accepts.
var validHistoryKinds = map[models.AnalysisKind]bool{
	models.KindImage:    true,
	models.KindVoice:    true,
	models.KindArticle:  true,
	models.KindTemplate: true,
}

// ListHistory returns paginated analysis records.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	kind := models.AnalysisKind(r.URL.Query().Get("kind"))
	if kind != "" && !validHistoryKinds[kind] {
		writeError(w, http.StatusBadRequest, "Invalid kind filter")
		return
	}

	records, err := h.store.ListRecords(r.Context(), kind, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list history")
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetHistory returns one analysis record by ID.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	rec, err := h.store.GetRecord(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get history record")
		writeError(w, http.StatusInternalServerError, "Failed to get record")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
