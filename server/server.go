// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/search"
)

// Backend is what the HTTP API needs from a directory.
type Backend interface {
	Search(ctx context.Context, q string) (*search.Result, error)
	NearbyZip(zip string) []directory.ZipMatch
	ByCategory(category string) ([]core.Institution, error)
	ByAffiliation(affiliation string) []core.Institution
	Recommend(preferences []string) []core.Institution
}

// Server is the HTTP front end.
type Server struct {
	backend Backend
	router  *gin.Engine
	server  *http.Server
	mode    string
	addr    string
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMode sets the gin mode: debug, release or test. Default is release.
func WithMode(mode string) Option {
	return func(s *Server) error {
		if mode != "" {
			s.mode = mode
		}
		return nil
	}
}

// WithAddr sets the listen address. Default is localhost:8080.
func WithAddr(addr string) Option {
	return func(s *Server) error {
		if addr != "" {
			s.addr = addr
		}
		return nil
	}
}

// New creates a server and registers its routes.
func New(backend Backend, opts ...Option) (*Server, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}

	s := &Server{
		backend: backend,
		mode:    gin.ReleaseMode,
		addr:    "localhost:8080",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")

	gin.SetMode(s.mode)
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(loggingMiddleware(s.logger))
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.health)

	api := s.router.Group("/api")
	{
		api.GET("/search", s.search)
		api.GET("/suggestions", s.suggestions)
		api.GET("/zip/:zip", s.zip)
		api.GET("/category/:category", s.category)
		api.GET("/affiliation/:affiliation", s.affiliation)
		api.GET("/recommendations", s.recommendations)
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.server.Shutdown(ctx)
}
