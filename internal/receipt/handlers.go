package receipt

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nadzmil/resitku/internal/extraction"
)

// scanRequest is the JSON body for the scan and upload endpoints.
type scanRequest struct {
	Image    string `json:"image"`     // base64-encoded image content
	MimeType string `json:"mime_type"` // optional, defaults to image/jpeg
	Filename string `json:"filename"`  // optional, upload endpoint only
}

// scanResponse is the envelope for the scan endpoint.
type scanResponse struct {
	Success bool               `json:"success"`
	Data    *extraction.Record `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// scanError writes a {success:false, error} envelope
func scanError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(scanResponse{Success: false, Error: message})
}

// decodeScanRequest parses the request body and decodes the image payload.
func decodeScanRequest(r *http.Request) (*scanRequest, []byte, string, error) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, "", err
	}
	if req.Image == "" {
		return &req, nil, "", errMissingImage
	}
	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return &req, nil, "", err
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return &req, data, mimeType, nil
}

var errMissingImage = errors.New("image is required")

// handleScanReceipt extracts a canonical record from a base64 image without
// persisting anything. Missing or undecodable image payloads are client
// errors; everything else, including the recognition service returning no
// document, is a server error.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	_, data, mimeType, err := decodeScanRequest(r)
	if err != nil {
		scanError(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := s.service.ScanReceipt(data, mimeType)
	if err != nil {
		slog.Error("Error scanning receipt", "error", err)
		scanError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(scanResponse{Success: true, Data: record}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleUploadReceipt scans a receipt and persists the image and record
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	req, data, mimeType, err := decodeScanRequest(r)
	if err != nil {
		scanError(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = "receipt"
	}

	receipt, err := s.service.ProcessReceipt(filename, data, mimeType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", filename, "error", err)
		scanError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(receipt); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListReceipts returns a list of all receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(receipts); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetReceipt returns a single receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	receipt, err := s.service.GetReceipt(id)
	if err != nil {
		corsError(w, "Receipt not found", http.StatusNotFound)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(receipt); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetReceiptFile returns the stored image for a receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	data, contentType, err := s.service.GetReceiptFile(id)
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteReceipt deletes a receipt
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteReceipt(id); err != nil {
		corsError(w, "Error deleting receipt", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
