/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"context"
	"net"
	"strconv"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/auth"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Server is the remote store: the collections sync API, its websocket
// change channels, and the fallback user/login API.
type Server struct {
	cfg     models.ServerConfig
	echo    *echo.Echo
	records *RecordStore
	hub     *Hub
	auth    *auth.Service
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}
	return nil
}

func New(cfg models.ServerConfig, records *RecordStore, authSvc *auth.Service) *Server {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Validator = &requestValidator{validate: validator.New()}
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.CORS())

	s := &Server{
		cfg:     cfg,
		echo:    echoServer,
		records: records,
		hub:     NewHub(),
		auth:    authSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	s.echo.GET("/api/collections/:name", s.handleSelectAll)
	s.echo.PUT("/api/collections/:name", s.handleUpsert)
	s.echo.DELETE("/api/collections/:name/:id", s.handleDelete)
	s.echo.GET("/api/collections/:name/subscribe", s.handleSubscribe)

	s.echo.GET("/api/users", s.handleListUsers)
	s.echo.POST("/api/users", s.handleCreateUser)
	s.echo.PUT("/api/users", s.handleUpdateUser)
	s.echo.POST("/api/login", s.handleLogin)
}

// Handler exposes the router for httptest-based tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

func (s *Server) Serve() error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.Port))
	zap.L().Info("Starting remote store server", zap.String("host_port", hostPort))
	if err := s.echo.Start(hostPort); err != nil {
		return errors.Wrap(err, "failed to serve http")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	zap.L().Info("Shutting down remote store server")
	s.hub.CloseAll()
	return errors.WithStack(s.echo.Shutdown(shutdownCtx))
}
