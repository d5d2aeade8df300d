// Package server exposes the reconciliation pipeline over HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veridia/invoice-summary/internal/engine"
	"github.com/veridia/invoice-summary/internal/filter"
	"github.com/veridia/invoice-summary/internal/model"
	"github.com/veridia/invoice-summary/internal/store"
	"github.com/veridia/invoice-summary/internal/summary"
)

// Config holds server configuration
type Config struct {
	Address      string
	DocumentsDir string
	Engine       engine.Config
	Parallelism  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config  *Config
	router  *gin.Engine
	store   *store.Store
	builder *summary.Builder
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:  config,
		router:  router,
		store:   store.New(config.DocumentsDir),
		builder: summary.NewBuilder(config.Engine, summary.WithParallelism(config.Parallelism)),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/documents", s.handleDocuments)
		v1.GET("/products", s.handleProducts)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleDocuments lists document-level summaries for matching documents.
func (s *Server) handleDocuments(c *gin.Context) {
	criteria, ok := s.parseCriteria(c)
	if !ok {
		return
	}

	docs, failures, err := s.store.LoadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	selected, err := criteria.Apply(docs)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, DocumentsResponse{
		Documents: summary.BuildSummaryRows(selected),
		Failures:  failureReports(failures),
	})
}

// handleProducts runs the full reconciliation pipeline and returns the
// per-product rows together with per-document failures and warnings.
func (s *Server) handleProducts(c *gin.Context) {
	criteria, ok := s.parseCriteria(c)
	if !ok {
		return
	}

	docs, loadFailures, err := s.store.LoadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	results, err := s.builder.Run(c.Request.Context(), docs, criteria)
	if err != nil {
		status := http.StatusInternalServerError
		var usage *model.FilterUsageError
		if errors.As(err, &usage) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	results = append(results, loadFailures...)

	c.JSON(http.StatusOK, ProductsResponse{
		Rows:     summary.Rows(results),
		Warnings: warningReports(results),
		Failures: failureReports(summary.Failures(results)),
	})
}

// parseCriteria reads the filter query parameters. Dates use YYYY-MM-DD.
func (s *Server) parseCriteria(c *gin.Context) (filter.Criteria, bool) {
	criteria := filter.Criteria{
		Supplier: c.Query("supplier"),
		Number:   c.Query("number"),
	}

	if value := c.Query("start"); value != "" {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start date", Details: err.Error()})
			return filter.Criteria{}, false
		}
		criteria.Start = &t
	}
	if value := c.Query("end"); value != "" {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end date", Details: err.Error()})
			return filter.Criteria{}, false
		}
		criteria.End = &t
	}

	if err := criteria.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return filter.Criteria{}, false
	}

	return criteria, true
}

func failureReports(failures []model.DocumentResult) []DocumentFailure {
	out := make([]DocumentFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, DocumentFailure{
			DocumentNumber: f.DocumentNumber,
			Error:          f.ErrorMessage,
		})
	}
	return out
}

func warningReports(results []model.DocumentResult) []ReconciliationWarning {
	var out []ReconciliationWarning
	for _, r := range results {
		if r.Warning {
			out = append(out, ReconciliationWarning{
				DocumentNumber: r.DocumentNumber,
				Residual:       r.Residual.String(),
			})
		}
	}
	return out
}
