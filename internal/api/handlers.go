package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumora-ai/lumora/internal/core"
	"github.com/lumora-ai/lumora/internal/store"
)

const maxUploadBytes = 50 << 20 // 50 MB, matching the ingestion size cap

type APIHandler struct {
	chatService *core.ChatService
	ingestion   *core.IngestionService
	docStore    *store.SQLiteStore
	uploadDir   string
}

func NewAPIHandler(cs *core.ChatService, ingestion *core.IngestionService, docStore *store.SQLiteStore, uploadDir string) *APIHandler {
	return &APIHandler{
		chatService: cs,
		ingestion:   ingestion,
		docStore:    docStore,
		uploadDir:   uploadDir,
	}
}

// ChatHandler accepts a multipart form with a query, an optional session_id
// and an optional artifact file whose analysis is fused into the context.
func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	query := r.FormValue("query")
	if query == "" {
		http.Error(w, "Query cannot be empty", http.StatusBadRequest)
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		sessionID = h.chatService.NewSession()
	}

	opts := core.RetrieveOptions{Template: r.FormValue("template")}
	if topK := r.FormValue("top_k"); topK != "" {
		if v, err := strconv.Atoi(topK); err == nil && v > 0 {
			opts.TopK = v
		}
	}
	if threshold := r.FormValue("threshold"); threshold != "" {
		if v, err := strconv.ParseFloat(threshold, 32); err == nil && v > 0 {
			opts.Threshold = float32(v)
		}
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		artifactPath, err := h.saveUpload(file, header.Filename)
		if err != nil {
			log.Printf("Failed to save uploaded artifact %s: %v. Continuing without it.", header.Filename, err)
		} else {
			opts.ArtifactPath = artifactPath
		}
	}

	reply := h.chatService.HandleQuery(r.Context(), sessionID, query, opts)
	writeJSON(w, http.StatusOK, reply)
}

// UploadDocumentHandler ingests a file into the knowledge base.
func (h *APIHandler) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	metadata := map[string]string{}
	for key, values := range r.MultipartForm.Value {
		if key == "file" || len(values) == 0 {
			continue
		}
		metadata[key] = values[0]
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	doc, err := h.ingestion.Ingest(header.Filename, content, metadata)
	if err != nil {
		log.Printf("Error ingesting %s: %v", header.Filename, err)
		http.Error(w, "Failed to ingest document: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *APIHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docStore.ListDocuments()
	if err != nil {
		log.Printf("Error listing documents: %v", err)
		http.Error(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

type DocumentDetailsResponse struct {
	*store.Document
	Chunks []store.Chunk `json:"chunks"`
}

func (h *APIHandler) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	doc, err := h.docStore.GetDocumentByID(documentID)
	if err != nil {
		log.Printf("Error getting document %s: %v", documentID, err)
		http.Error(w, "Failed to get document", http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	chunks, err := h.docStore.GetChunksByDocumentID(documentID)
	if err != nil {
		log.Printf("Error getting chunks for document %s: %v", documentID, err)
		http.Error(w, "Failed to get document chunks", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, DocumentDetailsResponse{Document: doc, Chunks: chunks})
}

// DeleteDocumentHandler removes a document with its chunks and embeddings,
// then reindexes so the search space no longer contains it.
func (h *APIHandler) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	doc, err := h.docStore.GetDocumentByID(documentID)
	if err != nil {
		log.Printf("Error getting document %s: %v", documentID, err)
		http.Error(w, "Failed to get document", http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	if err := h.docStore.DeleteDocument(documentID); err != nil {
		log.Printf("Error deleting document %s: %v", documentID, err)
		http.Error(w, "Failed to delete document", http.StatusInternalServerError)
		return
	}
	if err := h.ingestion.Reindex(); err != nil {
		log.Printf("Error reindexing after deleting document %s: %v", documentID, err)
		http.Error(w, "Document deleted but reindexing failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := h.chatService.NewSession()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sessionID})
}

func (h *APIHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !h.chatService.ResetSession(sessionID) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveUpload writes an uploaded artifact under the upload dir with a unique
// name, preserving the extension so modality resolution still works.
func (h *APIHandler) saveUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(filename)
	path := filepath.Join(h.uploadDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file, maxUploadBytes)); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
