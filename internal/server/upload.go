package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/metcalfc/nightreader/internal/document"
)

// Error messages returned in the "error" field.
const (
	msgNoFile        = "No file selected"
	msgInvalidName   = "Invalid file name"
	msgUnsupported   = "Unsupported file type"
	msgTooLarge      = "File is too large"
	msgUnknownFailed = "Unknown error while parsing the file"
)

type uploadResponse struct {
	Chapters []document.Chapter `json:"chapters"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string   `json:"status"`
	Formats []string `json:"formats"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.cfg.MaxFileSize {
		writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()

	name := secureFilename(header.Filename)
	if name == "" {
		writeError(w, http.StatusBadRequest, msgInvalidName)
		return
	}
	if !document.Supported(name) {
		writeError(w, http.StatusBadRequest, msgUnsupported)
		return
	}

	chapters, err := s.cfg.Parser.Parse(r.Context(), name, file)
	if err != nil {
		var pe *document.ParseError
		if errors.As(err, &pe) {
			s.cfg.Logger.Warn("document rejected", "name", name, "error", err)
			writeError(w, http.StatusBadRequest, pe.Message)
			return
		}
		s.cfg.Logger.Error("parse failed", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, msgUnknownFailed)
		return
	}

	s.cfg.Logger.Info("document parsed", "name", name, "chapters", len(chapters))
	writeJSON(w, http.StatusOK, uploadResponse{Chapters: chapters})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Formats: document.SupportedFormats()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// secureFilename reduces a client supplied name to a safe base name:
// directories are stripped, whitespace becomes '_', and anything other
// than letters, digits, '.', '-' and '_' is dropped. Leading dots are
// removed so the result is never hidden or relative.
func secureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "._")
}
