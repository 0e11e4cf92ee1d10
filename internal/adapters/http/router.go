package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/legallens/legal-lens/internal/core/domain"
	"github.com/legallens/legal-lens/internal/core/ports"
	"github.com/legallens/legal-lens/internal/observability/metrics"
)

const maxMultipartMemory = 16 << 20

type Router struct {
	processor ports.DocumentProcessor
	chat      ports.ChatService
	reader    ports.DocumentReader
	metrics   *metrics.HTTPServerMetrics // optional
	service   string
}

func NewRouter(
	processor ports.DocumentProcessor,
	chat ports.ChatService,
	reader ports.DocumentReader,
	httpMetrics *metrics.HTTPServerMetrics,
	service string,
) *Router {
	return &Router{
		processor: processor,
		chat:      chat,
		reader:    reader,
		metrics:   httpMetrics,
		service:   service,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/validate", rt.validateDocument)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	mux.HandleFunc("/v1/chat", rt.chatQuery)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	fileBytes, filename, mimeType, ok := rt.readUpload(w, r)
	if !ok {
		return
	}

	doc, err := rt.processor.ProcessLegalDocument(r.Context(), fileBytes, filename, mimeType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (rt *Router) validateDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	fileBytes, filename, mimeType, ok := rt.readUpload(w, r)
	if !ok {
		return
	}

	result, err := rt.processor.ValidateDocument(r.Context(), fileBytes, filename, mimeType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	summaries, err := rt.reader.ListProcessedDocuments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": summaries})
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, view, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch view {
	case "":
		doc, err := rt.reader.GetProcessedDocument(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case "summary":
		summary, err := rt.reader.GetDocumentSummary(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	case "text":
		text, docType, err := rt.reader.GetDocumentForChat(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"text":          text,
			"document_type": docType,
		})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown document view"})
	}
}

func (rt *Router) chatQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		DocumentID   string `json:"document_id"`
		Query        string `json:"query"`
		FallbackText string `json:"fallback_text"`
		FallbackType string `json:"fallback_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	resp, err := rt.chat.HandleChatQuery(r.Context(), req.DocumentID, req.Query,
		req.FallbackText, domain.DocumentType(req.FallbackType))
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordChat(rt.service, "error", 0)
		}
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordChat(rt.service, "success", resp.Confidence)
	}
	writeJSON(w, http.StatusOK, resp)
}

// readUpload pulls the multipart "file" part into memory. The pipeline's own
// size ceiling still applies; the reader limit only bounds adapter memory.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, string, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form is required"})
		return nil, "", "", false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return nil, "", "", false
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read uploaded file"})
		return nil, "", "", false
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	return fileBytes, fileHeader.Filename, mimeType, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
