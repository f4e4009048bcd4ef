package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"fundtrack/internal/application/usecase/track"
)

// Server exposes the live snapshot over HTTP. Read-only: every handler
// serves from the state cell, never from the sampling loop.
type Server struct {
	state *track.State
	http  *http.Server
}

func NewServer(addr string, state *track.State) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		state: state,
		http: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/api/snapshot", s.handleSnapshot)
	router.GET("/api/chart", s.handleChart)
	return s
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	snap, ok := s.state.Snapshot()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"initialized": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"initialized": true, "snapshot": snap})
}

func (s *Server) handleChart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"points": s.state.Chart()})
}

// Run serves until ctx is cancelled, then drains with a short deadline.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("web server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
