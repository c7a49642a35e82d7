// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/ziflex/lecho/v2"
)

// Server exposes a controller over HTTP.
type Server struct {
	log     zerolog.Logger
	address string
	server  *echo.Echo
}

// NewServer creates an echo server routing the chain explorer endpoints to
// the given controller.
func NewServer(log zerolog.Logger, address string, ctrl *Controller) *Server {

	log = log.With().Str("component", "rest").Logger()
	elog := lecho.From(log)

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Logger = elog
	server.Use(lecho.Middleware(lecho.Config{Logger: elog}))

	server.GET("/blocks", ctrl.GetBlocks)
	server.GET("/blocks/:index", ctrl.GetBlock)
	server.GET("/pending", ctrl.GetPending)
	server.GET("/verify", ctrl.GetVerify)

	s := Server{
		log:     log,
		address: address,
		server:  server,
	}

	return &s
}

// Start launches the server and blocks until it is stopped.
func (s *Server) Start() error {
	s.log.Info().Str("address", s.address).Msg("chain explorer starting")

	err := s.server.Start(s.address)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not serve chain explorer: %w", err)
	}

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("could not shut down chain explorer: %w", err)
	}

	return nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.server
}
