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

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/auth"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/common"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/config"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting Golden Exchange remote store",
		zap.Int("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Path))

	records, err := server.NewRecordStore(ctx, cfg.Database)
	if err != nil {
		zap.L().Fatal("Failed to open record store", zap.Error(err))
	}
	defer records.Close()

	srv := server.New(cfg.Server, records, auth.NewService(cfg.Auth))

	go func() {
		if err := srv.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received, stopping server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		zap.L().Warn("Shutdown returned error", zap.Error(err))
	}
	zap.L().Info("Server stopped")
}
