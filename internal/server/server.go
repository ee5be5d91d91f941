package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/monitoring"
	"stocksentiment/internal/ports"
	"stocksentiment/internal/usecase"
)

// Server exposes the web UI and JSON API for the tracker.
type Server struct {
	resolver   *usecase.Resolver
	collector  ports.Collector
	dispatcher ports.Dispatcher
	reports    *usecase.ReportBuilder
	search     ports.SymbolSearcher
	logger     *slog.Logger
}

// Deps wires the server's collaborators. Search may be nil when no
// symbol-search provider is configured; autocomplete then returns empty
// lists.
type Deps struct {
	Resolver   *usecase.Resolver
	Collector  ports.Collector
	Dispatcher ports.Dispatcher
	Reports    *usecase.ReportBuilder
	Search     ports.SymbolSearcher
	Logger     *slog.Logger
}

// New builds the server.
func New(deps Deps) *Server {
	return &Server{
		resolver:   deps.Resolver,
		collector:  deps.Collector,
		dispatcher: deps.Dispatcher,
		reports:    deps.Reports,
		search:     deps.Search,
		logger:     deps.Logger,
	}
}

// Router assembles the gin engine with all routes and middleware.
func (s *Server) Router(metrics *monitoring.Metrics, templateGlob string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if metrics != nil {
		router.Use(metrics.Middleware())
	}

	router.LoadHTMLGlob(templateGlob)

	router.GET("/", s.handleHome)
	router.POST("/track", s.handleTrack)
	router.GET("/report", s.handleReport)
	router.POST("/collect", s.handleCollect)

	api := router.Group("/api")
	{
		api.GET("/search", s.handleSearch)
		api.GET("/jobs/:id", s.handleJobStatus)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if metrics != nil {
		router.GET("/metrics", metrics.Handler())
	}

	return router
}

func (s *Server) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", nil)
}

// handleTrack resolves the submitted input, runs one synchronous collection
// cycle, and sends the browser to the report. The resolver may return an
// exchange-suffixed form; collection and storage key on the canonical one.
func (s *Server) handleTrack(c *gin.Context) {
	symbol := domain.Canonicalize(s.resolver.Resolve(c.Request.Context(), c.PostForm("symbol")))
	if symbol == "" {
		c.String(http.StatusBadRequest, "Missing symbol. Go back and enter one.")
		return
	}

	result := s.collector.Run(c.Request.Context(), symbol)
	if result.Failed() {
		s.logger.Warn("collection failed entirely",
			"symbol", symbol, "quote_error", result.QuoteError, "news_error", result.NewsError)
	}

	c.Redirect(http.StatusFound, "/report?symbol="+symbol)
}

func (s *Server) handleReport(c *gin.Context) {
	symbol := domain.Canonicalize(c.Query("symbol"))
	if symbol == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	report, err := s.reports.Build(c.Request.Context(), symbol)
	if err != nil {
		s.logger.Error("report build failed", "symbol", symbol, "error", err)
		c.String(http.StatusInternalServerError, "report unavailable")
		return
	}

	c.HTML(http.StatusOK, "report.html", newReportView(report))
}

// handleCollect dispatches a collection run, queued when the backend is
// reachable and inline otherwise.
func (s *Server) handleCollect(c *gin.Context) {
	symbol := domain.Canonicalize(s.resolver.Resolve(c.Request.Context(), c.PostForm("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing symbol"})
		return
	}

	dispatch, err := s.dispatcher.Dispatch(c.Request.Context(), symbol)
	if err != nil {
		s.logger.Error("dispatch failed", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dispatch failed"})
		return
	}

	if dispatch.Result != nil && dispatch.Result.Failed() {
		c.JSON(http.StatusBadGateway, dispatch)
		return
	}

	c.JSON(http.StatusOK, dispatch)
}

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if len(query) < 2 || s.search == nil {
		c.JSON(http.StatusOK, []ports.SymbolMatch{})
		return
	}

	matches, err := s.search.Search(c.Request.Context(), query)
	if err != nil {
		// Autocomplete is enrichment; an unreachable provider degrades to
		// no suggestions.
		s.logger.Debug("symbol search failed", "query", query, "error", err)
		c.JSON(http.StatusOK, []ports.SymbolMatch{})
		return
	}

	if len(matches) > 10 {
		matches = matches[:10]
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) handleJobStatus(c *gin.Context) {
	status, err := s.dispatcher.Status(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrQueueUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no queue backend configured"})
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job id"})
	case err != nil:
		s.logger.Error("job status lookup failed", "job_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status lookup failed"})
	default:
		c.JSON(http.StatusOK, status)
	}
}
