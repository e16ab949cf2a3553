package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds the JSON bodies the API accepts
const maxBodyBytes = 1 << 20

// Error messages returned to the browser
const (
	MsgInvalidRequest    = "Invalid request format"
	MsgAnalysisFailed    = "Something went wrong with AI analysis."
	MsgMessageRequired   = "Message is required"
	MsgInternalError     = "Internal Server Error"
	MsgModelsUnavailable = "Failed to load models"
	MsgModelsInvalid     = "Invalid JSON format in models.json"
)

// Analyzer produces feedback for a validated analysis request
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error)
}

// Server holds the dependencies of the HTTP handlers
type Server struct {
	cfg       *Config
	analyzer  Analyzer
	tokenizer Tokenizer
}

// NewServer creates a server around an analyzer and a tokenizer
func NewServer(cfg *Config, analyzer Analyzer, tokenizer Tokenizer) *Server {
	return &Server{cfg: cfg, analyzer: analyzer, tokenizer: tokenizer}
}

// SetupRouter configures and returns the application router
func (s *Server) SetupRouter() *mux.Router {
	r := mux.NewRouter()

	// Add global middlewares
	r.Use(RequestIDMiddleware)
	r.Use(CorsMiddleware(s.cfg.AllowedOrigins))
	r.Use(LoggingMiddleware)

	// Public routes
	r.HandleFunc("/tokenize", s.tokenizeHandler).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/models", s.modelsHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Analysis routes are token protected when a JWT secret is configured
	analysis := r.NewRoute().Subrouter()
	if s.cfg.JWTSecret != "" {
		analysis.Use(AuthMiddleware(s.cfg.JWTSecret))
	}
	analysis.HandleFunc("/api/analyze_code", s.analyzeCodeHandler).Methods(http.MethodPost, http.MethodOptions)
	analysis.HandleFunc("/analyze_code", s.analyzeCodeHandler).Methods(http.MethodPost, http.MethodOptions)

	// Browser assets
	r.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir))).Methods(http.MethodGet)

	return r
}

func (s *Server) analyzeCodeHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/analyze_code"

	var payload AnalyzeCodePayload
	if err := decodeBody(w, r, &payload); err != nil {
		LogResponse(r, endpoint, MsgInvalidRequest, err)
		RecordAnalysis(OutcomeInvalid)
		EncodeError(w, MsgInvalidRequest, http.StatusBadRequest)
		return
	}

	req, err := ValidateAnalysisRequest(payload)
	if err != nil {
		LogResponse(r, endpoint, "Rejected analysis request", err)
		RecordAnalysis(OutcomeInvalid)
		EncodeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	LogRequest(r, endpoint, "Analyzing code with model "+req.Model)

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		LogResponse(r, endpoint, "Error analyzing code", err)
		EncodeError(w, MsgAnalysisFailed, http.StatusInternalServerError)
		return
	}

	LogResponse(r, endpoint, "Analysis completed", nil)
	EncodeJSON(w, result, http.StatusOK)
}

func (s *Server) tokenizeHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/tokenize"

	var req TokenizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		LogResponse(r, endpoint, MsgInvalidRequest, err)
		EncodeError(w, MsgInvalidRequest, http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		LogResponse(r, endpoint, MsgMessageRequired, nil)
		EncodeError(w, MsgMessageRequired, http.StatusBadRequest)
		return
	}

	count, err := s.tokenizer.Count(req.Message)
	if err != nil {
		LogResponse(r, endpoint, "Tokenization error", err)
		EncodeError(w, MsgInternalError, http.StatusInternalServerError)
		return
	}

	EncodeJSON(w, TokenizeResponse{TokenCount: count}, http.StatusOK)
}

// modelsHandler serves the model catalog file as is. It is read on every
// request so edits show up without a restart.
func (s *Server) modelsHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/models"

	data, err := os.ReadFile(s.cfg.ModelsFile)
	if err != nil {
		LogResponse(r, endpoint, "Error reading "+s.cfg.ModelsFile, err)
		EncodeError(w, MsgModelsUnavailable, http.StatusInternalServerError)
		return
	}
	if !json.Valid(data) {
		LogResponse(r, endpoint, "Error parsing "+s.cfg.ModelsFile, errors.New("invalid JSON"))
		EncodeError(w, MsgModelsInvalid, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		logrus.WithError(err).Warn("Failed to write models response")
	}
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "html", "index.html"))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	EncodeJSON(w, HealthResponse{Status: "ok"}, http.StatusOK)
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
