// Package server exposes the batch pipeline over HTTP: an upload page, a
// processing endpoint that answers with the finished archive, and downloads
// for the example files bundled with the service. Each processing request
// runs in its own session folders, which are removed once the response has
// been written.
package server

import (
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/lvillar/cdaibatch"
	"github.com/lvillar/cdaibatch/config"
)

// Server wires the HTTP routes to the batch pipeline. A single instance
// serves all requests; per-request state lives entirely in session folders,
// so handlers share nothing but the read-only configuration.
type Server struct {
	cfg      *config.Config
	batchCfg cdaibatch.Config
}

// New builds a server for cfg. The placement file, when configured, is
// loaded once here rather than on every request.
func New(cfg *config.Config) (*Server, error) {
	batchCfg, err := cfg.BatchConfig()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	return &Server{cfg: cfg, batchCfg: batchCfg}, nil
}

// Router assembles the gin engine with the middleware chain and all routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(requestID())
	router.Use(recovery())
	router.Use(requestLogger())
	router.Use(maxBodySize(s.cfg.MaxUploadBytes))

	router.StaticFile("/", filepath.Join(s.cfg.StaticDir, "index.html"))
	router.GET("/health", s.handleHealth)
	router.GET("/download/:filename", s.handleDownloadExample)
	router.POST("/process", s.handleProcess)

	return router
}
