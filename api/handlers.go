package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"sheetlint/app"
	"sheetlint/domain/core"
	"sheetlint/domain/table"
	apperrors "sheetlint/internal/errors"
)

// maxUploadBytes bounds how large an uploaded sheet may be
const maxUploadBytes = 64 << 20

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type uploadResponse struct {
	DatasetID   string          `json:"dataset_id"`
	Columns     []columnSummary `json:"columns"`
	RowCount    int             `json:"row_count"`
	Diagnostics int             `json:"diagnostics"`
}

type columnSummary struct {
	Name         string           `json:"name"`
	Kind         table.ColumnKind `json:"kind"`
	MissingCount int              `json:"missing_count"`
	Diagnostics  int              `json:"diagnostics"`
}

type diagnosticsResponse struct {
	DatasetID string                        `json:"dataset_id"`
	Total     int                           `json:"total"`
	ByColumn  map[string][]table.Diagnostic `json:"by_column"`
}

// handleUpload accepts a multipart upload with optional "sheet" and
// repeated "na" fields, loads it through the ingest service, and stores
// the session in memory
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "missing file field")
		return
	}
	defer file.Close()

	// The reader works off the filesystem, so spool the upload to a temp
	// file that keeps the original extension for format dispatch.
	tmp, err := os.CreateTemp("", "sheetlint-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to buffer upload")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to buffer upload")
		return
	}
	tmp.Close()

	sentinels := table.NewSentinelSet(r.MultipartForm.Value["na"]...)
	result, err := s.ingest.Load(r.Context(), app.LoadRequest{
		Path:      tmp.Name(),
		SheetName: r.FormValue("sheet"),
		Sentinels: sentinels,
	})
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, core.ErrFileNotFound) || errors.Is(err, core.ErrSheetNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, apperrors.Code(err), err.Error())
		return
	}
	result.Path = header.Filename // report the uploaded name, not the temp path

	id := s.storeSession(result)
	writeJSON(w, http.StatusCreated, uploadResponse{
		DatasetID:   id,
		Columns:     summarizeColumns(result),
		RowCount:    result.Table.RowCount(),
		Diagnostics: len(result.Diagnostics),
	})
}

// writeSessionError maps a session lookup failure to a response
func writeSessionError(w http.ResponseWriter, err error) {
	if core.IsNotFoundError(err) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, apperrors.Code(err), err.Error())
}

// handleDataset returns the typed schema summary for one session
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	result, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		DatasetID:   result.DatasetID.String(),
		Columns:     summarizeColumns(result),
		RowCount:    result.Table.RowCount(),
		Diagnostics: len(result.Diagnostics),
	})
}

// handleDiagnostics returns parse diagnostics grouped by column
func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	result, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, diagnosticsResponse{
		DatasetID: result.DatasetID.String(),
		Total:     len(result.Diagnostics),
		ByColumn:  result.Diagnostics.ByColumn(),
	})
}

// handleProfile returns column profiles and the numeric correlation matrix
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	result, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	profile, err := s.profile.Profile(result.Table)
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.Code(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func summarizeColumns(result *app.LoadResult) []columnSummary {
	out := make([]columnSummary, 0, len(result.Table.Headers))
	for _, header := range result.Table.Headers {
		col := result.Table.Columns[header]
		out = append(out, columnSummary{
			Name:         header,
			Kind:         col.Kind,
			MissingCount: col.MissingCount(),
			Diagnostics:  result.Diagnostics.CountForColumn(header),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	// Marshal before touching the response so an encode failure can still
	// become a 500 instead of a truncated 200
	data, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"ENCODE_FAILED","error":"failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Error: message})
}
