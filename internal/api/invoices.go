package api

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledgerguard/invoice-audit/pkg/extract"
	"github.com/ledgerguard/invoice-audit/pkg/history"
	"github.com/ledgerguard/invoice-audit/pkg/processor"
)

// InvoicesHandler handles invoice processing and history listing.
type InvoicesHandler struct {
	proc  *processor.Processor
	store *history.Store
}

// NewInvoicesHandler creates a new InvoicesHandler.
func NewInvoicesHandler(proc *processor.Processor, store *history.Store) *InvoicesHandler {
	return &InvoicesHandler{proc: proc, store: store}
}

// processRequest is the JSON body for POST /api/v1/invoices when the
// client already has extracted text.
type processRequest struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Process handles POST /api/v1/invoices. It accepts either a multipart
// upload ("invoice" file field, PDF or plain text) or a JSON body with
// pre-extracted text, runs the pipeline, and returns the outcome.
func (h *InvoicesHandler) Process(w http.ResponseWriter, r *http.Request) {
	var filename, text string

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		var err error
		filename, text, err = readUpload(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_document", err.Error())
			return
		}
	} else {
		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to decode request body")
			return
		}
		filename, text = req.Filename, req.Text
	}

	if filename == "" {
		filename = "untitled"
	}

	outcome, err := h.proc.Process(filename, text)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "processing_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// List handles GET /api/v1/invoices and returns all history records.
func (h *InvoicesHandler) List(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.Load()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"invoices":     state.Invoices,
		"last_updated": state.LastUpdated,
	})
}

// readUpload pulls the uploaded document out of a multipart form and
// extracts its text. PDFs go through the extractor; anything else is
// treated as plain text.
func readUpload(r *http.Request) (filename, text string, err error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10 MB max
		return "", "", err
	}

	file, fileHeader, err := r.FormFile("invoice")
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	filename = fileHeader.Filename
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == ".pdf" {
		text, err = extract.FromPDF(file)
		return filename, text, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	return filename, string(data), nil
}
