// Package server exposes the git service over HTTP.
//
// Triggers and cancels are plain JSON endpoints. Results are streamed to
// each destination as Server-Sent Events, one event per settled execution,
// named after the operation's result event.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
	"github.com/NicabarNimble/go-gitdesk/internal/git"
	"github.com/NicabarNimble/go-gitdesk/internal/metrics"
	"github.com/NicabarNimble/go-gitdesk/internal/parse"
	"github.com/NicabarNimble/go-gitdesk/internal/publish"
)

const (
	readyEvent      = "ready"
	shutdownTimeout = 5 * time.Second
	defaultBuffer   = 64
	version         = "0.1.0"
)

// Options configures a Server
type Options struct {
	CorsOrigins []string
	EventBuffer int
	Logger      zerolog.Logger
}

// Server routes HTTP requests to a git.Service
type Server struct {
	svc         *git.Service
	hub         *publish.Hub
	router      *gin.Engine
	logger      zerolog.Logger
	eventBuffer int
	started     time.Time
}

// New creates a Server. Results published by svc must go through hub for
// event streams to receive them.
func New(svc *git.Service, hub *publish.Hub, opts Options) *Server {
	metrics.RegisterMetrics()
	if opts.EventBuffer < 1 {
		opts.EventBuffer = defaultBuffer
	}
	logger := opts.Logger.With().Str("component", "server").Logger()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(RequestMetrics())
	if len(opts.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.CorsOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		svc:         svc,
		hub:         hub,
		router:      r,
		logger:      logger,
		eventBuffer: opts.EventBuffer,
		started:     time.Now(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down. Open event
// streams are closed when ctx ends.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"version": version,
		})
	})
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	api.GET("/operations", s.listOperations)
	api.POST("/destinations", s.createDestination)
	api.GET("/destinations/:dest/events", s.streamEvents)
	api.GET("/destinations/:dest/executions", s.listExecutions)
	api.POST("/destinations/:dest/ops/:op", s.triggerOperation)
	api.DELETE("/destinations/:dest/ops/:op", s.cancelOperation)
	api.GET("/folder", s.getFolder)
	api.PUT("/folder", s.setFolder)
	api.GET("/branches/check", s.checkBranch)
}

// statusFor maps an error to its HTTP status
func statusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.KindAdmission:
		return http.StatusConflict
	case errors.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"error": err.Error(),
		"kind":  errors.KindOf(err).String(),
	})
}

func (s *Server) listOperations(c *gin.Context) {
	running := s.svc.Registry().Running()
	keys := make([]gin.H, 0, len(running))
	for _, k := range running {
		keys = append(keys, gin.H{"operation": k.Operation, "destination": k.Destination})
	}
	c.JSON(http.StatusOK, gin.H{
		"triggers":   git.Triggers(),
		"operations": git.Operations(),
		"running":    keys,
	})
}

func (s *Server) createDestination(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"destination": uuid.NewString()})
}

func (s *Server) streamEvents(c *gin.Context) {
	dest := c.Param("dest")
	sink := publish.NewChanSink(s.eventBuffer)
	detach := s.hub.Attach(dest, sink)
	defer detach()

	s.logger.Debug().Str("destination", dest).Msg("event stream opened")
	defer s.logger.Debug().Str("destination", dest).Msg("event stream closed")

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(readyEvent, gin.H{"destination": dest})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-sink.Events():
			c.SSEvent(ev.Name, ev.Envelope)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (s *Server) listExecutions(c *gin.Context) {
	dest := c.Param("dest")
	tracker := s.svc.Tracker()
	c.JSON(http.StatusOK, gin.H{
		"active": tracker.Active(dest),
		"recent": tracker.Recent(dest),
	})
}

func (s *Server) triggerOperation(c *gin.Context) {
	dest := c.Param("dest")
	op := c.Param("op")
	if !git.IsTrigger(op) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown operation " + strconv.Quote(op)})
		return
	}

	var args git.Args
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := s.svc.Trigger(op, dest, args); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"operation": op, "destination": dest})
}

func (s *Server) cancelOperation(c *gin.Context) {
	dest := c.Param("dest")
	op := c.Param("op")
	if op == git.OpDiscardChanges {
		adds := s.svc.Cancel(git.OpDiscardAdds, dest)
		others := s.svc.Cancel(git.OpDiscardOthers, dest)
		c.JSON(http.StatusOK, gin.H{"cancelled": adds || others})
		return
	}
	if !git.IsOperation(op) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown operation " + strconv.Quote(op)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": s.svc.Cancel(op, dest)})
}

type folderRequest struct {
	Folder string `json:"folder" binding:"required"`
}

func (s *Server) getFolder(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"folder": s.svc.WorkDir()})
}

func (s *Server) setFolder(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.svc.SetWorkDir(req.Folder); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder": s.svc.WorkDir()})
}

func (s *Server) checkBranch(c *gin.Context) {
	name := c.Query("name")
	state := parse.BranchDefault
	if raw := c.Query("state"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch state " + strconv.Quote(raw)})
			return
		}
		state = parse.BranchState(n)
	}

	ok, err := s.svc.IsOnBranch(c.Request.Context(), name, state)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"on_branch": ok})
}
