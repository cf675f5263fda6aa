//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package api provides an HTTP server that accepts file uploads and returns
// their chunks.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-rag-ingest/config"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/chunking"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/ingest"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source/upload"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/validator"
	"trpc.group/trpc-go/trpc-rag-ingest/log"
)

const (
	// FormField is the multipart field that carries uploaded files.
	FormField = "files"

	defaultMaxMemory  = 32 << 20
	defaultMaxRequest = 8 * validator.MaxFileSize
)

// Server exposes the ingestion pipeline over HTTP.
type Server struct {
	store      *config.Store
	router     *mux.Router
	pipeOpts   []ingest.Option
	maxMemory  int64
	maxRequest int64
}

// Option configures the Server instance.
type Option func(*Server)

// WithPipelineOptions appends options applied to the pipeline built for each
// request.
func WithPipelineOptions(opts ...ingest.Option) Option {
	return func(s *Server) { s.pipeOpts = append(s.pipeOpts, opts...) }
}

// WithMaxRequestSize caps the request body in bytes.
func WithMaxRequestSize(n int64) Option {
	return func(s *Server) { s.maxRequest = n }
}

// New creates a server that reads the chunking configuration from store on
// every request.
func New(store *config.Store, opts ...Option) *Server {
	s := &Server{
		store:      store,
		router:     mux.NewRouter(),
		maxMemory:  defaultMaxMemory,
		maxRequest: defaultMaxRequest,
	}
	for _, opt := range opts {
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/strategies", s.handleStrategies).Methods(http.MethodGet)
	s.router.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	s.router.HandleFunc("/validate/query", s.handleValidateQuery).Methods(http.MethodPost)
	s.router.HandleFunc("/ingest", s.handleIngest).Methods(http.MethodPost)

	preflight := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.router.HandleFunc("/ingest", preflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/validate/query", preflight).Methods(http.MethodOptions)
}

// IngestResponse is the body of a successful POST /ingest.
type IngestResponse struct {
	Documents int             `json:"documents"`
	Chunks    []ingest.Record `json:"chunks"`
	Failures  []FailureBody   `json:"failures,omitempty"`
}

// FailureBody describes a file skipped during a run.
type FailureBody struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ErrorBody is returned with every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ValidationBody is the result of a validation endpoint.
type ValidationBody struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, chunking.Names())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Get())
}

func (s *Server) handleValidateQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	ok, msg := validator.ValidateQuery(req.Query)
	s.writeJSON(w, http.StatusOK, ValidationBody{Valid: ok, Message: msg})
}

// handleIngest runs a multipart upload through the pipeline. The query
// parameter skip_failures=true keeps going past files that fail to load.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequest)
	if err := r.ParseMultipartForm(s.maxMemory); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warnf("api: remove multipart files: %v", err)
		}
	}()

	files, err := readUploads(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	skip, _ := strconv.ParseBool(r.URL.Query().Get("skip_failures"))
	opts := append([]ingest.Option{ingest.WithSkipFailures(skip)}, s.pipeOpts...)
	res, err := ingest.New(s.store.Get(), opts...).Run(r.Context(), files)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	resp := IngestResponse{
		Documents: len(res.Documents),
		Chunks:    make([]ingest.Record, 0, len(res.Chunks)),
	}
	for _, c := range res.Chunks {
		resp.Chunks = append(resp.Chunks, ingest.Record{ID: c.ID, Content: c.Content, Metadata: c.Metadata})
	}
	for _, f := range res.Failures {
		resp.Failures = append(resp.Failures, FailureBody{Name: f.Name, Error: f.Err.Error()})
	}
	log.Infof("api: ingested %d file(s) into %d chunk(s)", len(files), len(resp.Chunks))
	s.writeJSON(w, http.StatusOK, resp)
}

func readUploads(r *http.Request) ([]upload.File, error) {
	headers := r.MultipartForm.File[FormField]
	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		files = append(files, upload.File{FileName: fh.Filename, Data: data, DeclaredSize: fh.Size})
	}
	return files, nil
}

func statusFor(err error) int {
	switch ingest.Kind(err) {
	case ingest.KindValidation:
		return http.StatusBadRequest
	case ingest.KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case ingest.KindParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	log.Warnf("api: request failed: %v", err)
	s.writeJSON(w, status, ErrorBody{Error: err.Error(), Kind: string(ingest.Kind(err))})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
