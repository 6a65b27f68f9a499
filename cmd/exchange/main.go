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
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/bootstrap"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/common"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/config"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/watch"

	"go.uber.org/zap"
)

func main() {
	seedFile := flag.String("seed", "", "Optional path to seed.yaml overriding the SEED_FILE default data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if *seedFile != "" {
		cfg.SeedFile = *seedFile
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting Golden Exchange sync client",
		zap.String("remote", cfg.Remote.BaseURL),
		zap.String("cache", cfg.Cache.Path))

	services, err := common.InitializeServices(cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	// One-time remote hydration; local data survives whatever happens here.
	status := bootstrap.Run(ctx, services.Store.Connection, services.Engine.Bindings())
	zap.L().Info("Connectivity", zap.String("status", string(status)))

	watcher := watch.New(services.Engine.Bindings(), cfg.Watch)
	watcher.Start(ctx)

	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		watcher.Stop()
		services.Engine.Wait()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
}
