package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"triggerOracle/internal/component"
	"triggerOracle/internal/model"
	"triggerOracle/internal/storage"
	"triggerOracle/internal/trigger"
)

const shutdownTimeout = 10 * time.Second

// RunResponse is returned by the run endpoint. Output is the hex DataWithId envelope.
type RunResponse struct {
	RunID      string  `json:"run_id"`
	Component  string  `json:"component"`
	TriggerID  *uint64 `json:"trigger_id,omitempty"`
	Output     string  `json:"output,omitempty"`
	Error      string  `json:"error,omitempty"`
	ErrorKind  string  `json:"error_kind,omitempty"`
	StatusCode int     `json:"status_code"`
}

// Server exposes components over HTTP the way a host would call them.
type Server struct {
	router   *gin.Engine
	registry *component.Registry
	invoker  *component.Invoker
	sink     storage.Storage
	logger   *zap.Logger
}

// New builds the router. sink and gatherer may be nil.
func New(registry *component.Registry, invoker *component.Invoker, sink storage.Storage, gatherer prometheus.Gatherer, logger *zap.Logger) (*Server, error) {
	if registry == nil {
		return nil, errors.New("nil registry provided")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if invoker == nil {
		invoker = component.NewInvoker(logger, nil)
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:   gin.New(),
		registry: registry,
		invoker:  invoker,
		sink:     sink,
		logger:   logger,
	}
	s.router.Use(gin.Recovery(), s.accessLog)

	s.router.GET("/healthz", s.health)
	s.router.GET("/components", s.listComponents)
	s.router.POST("/components/:name/run", s.runComponent)
	if gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server start", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutdown")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listComponents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"components": s.registry.Names()})
}

func (s *Server) runComponent(c *gin.Context) {
	name := c.Param("name")
	comp, ok := s.registry.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, RunResponse{Component: name, Error: "unknown component", StatusCode: http.StatusNotFound})
		return
	}

	var ev trigger.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, RunResponse{Component: name, Error: err.Error(), StatusCode: http.StatusBadRequest})
		return
	}

	_, record := s.invoker.Invoke(c.Request.Context(), comp, ev)
	if s.sink != nil {
		if err := s.sink.PutInvocationBatch(c.Request.Context(), []model.InvocationRecord{record}); err != nil {
			s.logger.Error("store invocation failed", zap.String("run_id", record.RunID), zap.Error(err))
		}
	}

	status := statusFor(record.ErrorKind)
	c.JSON(status, RunResponse{
		RunID:      record.RunID,
		Component:  record.Component,
		TriggerID:  record.TriggerID,
		Output:     record.Output,
		Error:      record.Error,
		ErrorKind:  record.ErrorKind,
		StatusCode: status,
	})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case "", model.KindOK:
		return http.StatusOK
	case model.KindUnsupportedTriggerKind, model.KindMalformedTriggerEnvelope, model.KindMalformedPayload:
		return http.StatusUnprocessableEntity
	case model.KindComputationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("http request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
