package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tauraamui/medianstream/pkg/log"
	"github.com/tauraamui/medianstream/pkg/pipeline"
	"github.com/tauraamui/xerror"
)

// Status is what GET /status reports.
type Status struct {
	Mode       string `json:"mode"`
	RingPolicy string `json:"ring_policy"`
	Halted     bool   `json:"halted"`
	pipeline.StatsSnapshot
}

type Reporter interface {
	Status() Status
}

type Server struct {
	addr     string
	router   *gin.Engine
	reporter Reporter
	http     *http.Server
	listener net.Listener
}

func New(addr string, reporter Reporter) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{addr: addr, router: router, reporter: reporter}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/status", s.statusHandler)
}

func (s *Server) statusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.reporter.Status())
}

func (s *Server) Router() http.Handler { return s.router }

// Addr is the bound address once Start has returned.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return xerror.Errorf("unable to listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.http = &http.Server{Handler: s.router}

	log.Info("Serving status on %s", listener.Addr().String())
	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Status server error: %v", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	log.Info("Shutting down status server")
	return s.http.Shutdown(ctx)
}
