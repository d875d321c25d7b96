package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/sozercan/echarts-ai/apimodels"
	"github.com/sozercan/echarts-ai/internal/catalog"
	"github.com/sozercan/echarts-ai/internal/fileparse"
)

const uploadField = "file"

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) handleGenerateChartConfig(w http.ResponseWriter, r *http.Request) {
	var req apimodels.ChartRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.analyzer.GenerateChartConfig(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.ChartConfigResponse{Config: result})
}

func (s *Server) handleAnalyzeData(w http.ResponseWriter, r *http.Request) {
	var req apimodels.DataAnalysisRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.analyzer.AnalyzeData(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.AnalysisResponse{Analysis: result})
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.writeError(w, r, &ValidationError{Err: err})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	slog.Debug("Parsing uploaded file", "filename", header.Filename, "bytes", len(content))
	data, err := fileparse.Parse(header.Filename, content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apimodels.UploadResponse{Data: data})
}

func (s *Server) handleChartTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apimodels.TemplatesResponse{Templates: catalog.Templates()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apimodels.HealthResponse{Status: "ok"})
}

// decode reads exactly one JSON value from the body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &ValidationError{Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &ValidationError{Err: errors.New("request body must contain a single JSON value")}
	}
	if err := s.validate.Struct(dst); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "request_id", middleware.GetReqID(r.Context()), "path", r.URL.Path, "error", err)
	} else {
		slog.Debug("Request rejected", "request_id", middleware.GetReqID(r.Context()), "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, apimodels.ErrorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
