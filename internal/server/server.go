// Package server exposes the analysis pipeline over HTTP. The transport is a
// thin layer: it shuttles rows in, reports out, and maps the error taxonomy
// to status codes. All analysis state lives within one request.
package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"breachlens/internal/analysis"
	"breachlens/internal/config"
	"breachlens/internal/errors"
	"breachlens/internal/ingestion"
	"breachlens/internal/logging"
	"breachlens/internal/models"
)

// Server is the HTTP transport around the analysis pipeline.
type Server struct {
	r      *chi.Mux
	cfg    *config.Config
	store  *ingestion.Store
	logger *zap.Logger
}

// New builds the server. store may be nil when no historical-row store is
// configured; the store-backed endpoints then answer 503.
func New(cfg *config.Config, store *ingestion.Store, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.L()
	}

	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		store:  store,
		logger: logger.With(zap.String("component", "http_server")),
	}

	s.r.Use(middleware.RequestID)
	s.r.Use(middleware.Recoverer)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.Get("/health", s.getHealth)
	s.r.Handle("/metrics", promhttp.Handler())

	s.r.Post("/api/breach/analyze", s.postAnalyze)
	s.r.Get("/api/breach/csv-preview", s.getCSVPreview)
	s.r.Get("/api/logs", s.getLogs)
	s.r.Get("/api/system-status", s.getSystemStatus)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.r }

// analyzeRequest is the analyze endpoint's body: rows inline, a server-side
// CSV path, or neither (fall back to the store, then the default dataset).
type analyzeRequest struct {
	Rows    []models.RowMap `json:"rows"`
	CSVFile string          `json:"csvFile"`
}

type analyzeResponse struct {
	Success bool                 `json:"success"`
	Report  *models.BreachReport `json:"report"`
}

func (s *Server) postAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	// An empty body means "use the configured fallback sources".
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rows, status, errMsg := s.resolveRows(r, &req)
	if errMsg != "" {
		analysesTotal.WithLabelValues("rejected").Inc()
		s.writeError(w, status, errMsg)
		return
	}

	start := time.Now()
	report, err := analysis.AnalyzeRows(rows)
	if err != nil {
		analysesTotal.WithLabelValues("empty_dataset").Inc()
		s.writeError(w, http.StatusBadRequest, "No valid data rows found in the dataset.")
		return
	}
	analysisDuration.Observe(time.Since(start).Seconds())
	analyzedRecords.Observe(float64(report.Meta.TotalEvents))
	lastRiskScore.Set(report.RiskScore)
	analysesTotal.WithLabelValues("ok").Inc()

	s.logger.Info("analysis_complete",
		logging.ReportID(report.BreachID),
		logging.RecordCount(report.Meta.TotalEvents),
		logging.RiskScore(report.RiskScore),
		logging.Duration(time.Since(start)),
	)

	s.writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Report: report})
}

// resolveRows picks the input source for an analyze request: inline rows,
// then a named CSV file, then the store, then the configured default dataset.
func (s *Server) resolveRows(r *http.Request, req *analyzeRequest) ([]models.RowMap, int, string) {
	if len(req.Rows) > 0 {
		return req.Rows, 0, ""
	}

	if req.CSVFile != "" {
		rows, err := ingestion.ReadCSVFile(req.CSVFile)
		if err != nil {
			if stderrors.Is(err, errors.ErrDatasetNotFound) {
				return nil, http.StatusNotFound, "CSV file not found: " + req.CSVFile
			}
			if stderrors.Is(err, errors.ErrEmptyDataset) {
				return nil, http.StatusBadRequest, "No valid data rows found in the dataset."
			}
			return nil, http.StatusInternalServerError, "Failed to read dataset."
		}
		return rows, 0, ""
	}

	if s.store != nil {
		rows, err := s.store.RecentRows(r.Context(), s.cfg.Store.QueryLimit)
		if err != nil {
			s.logger.Error("store_query_failed", zap.Error(err))
			return nil, http.StatusInternalServerError, "Failed to load rows from store."
		}
		if len(rows) > 0 {
			return rows, 0, ""
		}
	}

	if s.cfg.Server.DefaultDataset != "" {
		rows, err := ingestion.ReadCSVFile(s.cfg.Server.DefaultDataset)
		if err != nil {
			return nil, http.StatusNotFound, "Default dataset not found"
		}
		return rows, 0, ""
	}

	return nil, http.StatusBadRequest, "No valid data rows found in the dataset."
}

type previewResponse struct {
	Success   bool            `json:"success"`
	TotalRows int             `json:"totalRows"`
	Preview   []models.RowMap `json:"preview"`
}

func (s *Server) getCSVPreview(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		file = s.cfg.Server.DefaultDataset
	}
	if file == "" {
		s.writeError(w, http.StatusBadRequest, "no dataset file specified")
		return
	}

	rows, err := ingestion.ReadCSVFile(file)
	if err != nil {
		if stderrors.Is(err, errors.ErrDatasetNotFound) {
			s.writeError(w, http.StatusNotFound, "CSV file not found: "+file)
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Failed to preview CSV")
		return
	}

	limit := s.cfg.Analysis.MaxPreviewRows
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n < limit {
			limit = n
		}
	}
	if limit > len(rows) {
		limit = len(rows)
	}

	s.writeJSON(w, http.StatusOK, previewResponse{
		Success:   true,
		TotalRows: len(rows),
		Preview:   rows[:limit],
	})
}

func (s *Server) getLogs(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no row store configured")
		return
	}
	rows, err := s.store.RecentRows(r.Context(), s.cfg.Store.QueryLimit)
	if err != nil {
		s.logger.Error("store_query_failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to load rows from store.")
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

type systemStatusResponse struct {
	UnderAttack bool    `json:"underAttack"`
	RiskScore   float64 `json:"riskScore,omitempty"`
}

// getSystemStatus derives the attack flag per request from the current store
// contents and the configured risk threshold. Nothing is retained between
// requests; with no store configured the answer is always calm.
func (s *Server) getSystemStatus(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, http.StatusOK, systemStatusResponse{UnderAttack: false})
		return
	}

	rows, err := s.store.RecentRows(r.Context(), s.cfg.Store.QueryLimit)
	if err != nil {
		s.logger.Error("store_query_failed", zap.Error(err))
		s.writeJSON(w, http.StatusOK, systemStatusResponse{UnderAttack: false})
		return
	}

	report, err := analysis.AnalyzeRows(rows)
	if err != nil {
		s.writeJSON(w, http.StatusOK, systemStatusResponse{UnderAttack: false})
		return
	}

	s.writeJSON(w, http.StatusOK, systemStatusResponse{
		UnderAttack: report.RiskScore >= s.cfg.Analysis.AttackRiskThreshold,
		RiskScore:   report.RiskScore,
	})
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response_encode_failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
