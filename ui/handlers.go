package ui

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Ivanfun/ivan-excel-type-checker/internal/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// UploadResponse mirrors the JSON contract of the upload endpoint.
type UploadResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	DownloadFilename string `json:"download_filename,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleUpload accepts one spreadsheet as a multipart upload, runs the
// report pipeline on it, and returns the published download filename.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.jobs.Acquire(r.Context(), 1); err != nil {
		s.writeFailure(w, r, http.StatusServiceUnavailable, "server is busy, try again later")
		return
	}
	defer s.jobs.Release(1)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		uploadsTotal.WithLabelValues(statusClientError).Inc()
		s.writeFailure(w, r, http.StatusBadRequest,
			fmt.Sprintf("file too large or invalid form (limit %d MB)", s.maxUploadBytes>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		uploadsTotal.WithLabelValues(statusClientError).Inc()
		s.writeFailure(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	formatHint := filepath.Ext(header.Filename)
	outputName, err := s.service.AnalyzeAndReport(r.Context(), file, formatHint, header.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	uploadsTotal.WithLabelValues(statusOK).Inc()
	render.Status(r, http.StatusOK)
	render.JSON(w, r, UploadResponse{
		Success:          true,
		Message:          "file processed successfully",
		DownloadFilename: outputName,
	})
}

// handleDownload serves a published report. Only files inside the
// output store are reachable.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	path, err := s.store.Resolve(filename)
	if err != nil {
		s.logger.Warn("[Server] download rejected for %q: %v", filename, err)
		s.writeFailure(w, r, http.StatusNotFound, "file not found or expired")
		return
	}

	downloadsTotal.Inc()
	w.Header().Set("Content-Type", contentTypeFor(filename))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

// writeError maps a pipeline error onto the transport response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.IsUserFacing(err) {
		uploadsTotal.WithLabelValues(statusClientError).Inc()
		s.writeFailure(w, r, http.StatusBadRequest, err.Error())
		return
	}
	uploadsTotal.WithLabelValues(statusServerError).Inc()
	s.writeFailure(w, r, http.StatusInternalServerError, "internal server error, please try again later")
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, UploadResponse{Success: false, Message: message})
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsm":
		return "application/vnd.ms-excel.sheet.macroEnabled.12"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}
