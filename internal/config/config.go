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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
)

func Load() (*models.Config, error) {
	pollInterval, err := getEnvDuration("WATCH_POLL_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}

	tokenTTL, err := getEnvDuration("AUTH_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Cache: models.CacheConfig{
			Path:      getEnvString("CACHE_PATH", "exchange-cache.db"),
			Namespace: getEnvString("CACHE_NAMESPACE", "golden-exchange-v2"),
		},
		Remote: models.RemoteConfig{
			BaseURL: getEnvString("REMOTE_BASE_URL", "http://localhost:8084"),
		},
		Watch: models.WatchConfig{
			PollInterval:    pollInterval,
			PollCollections: getEnvList("WATCH_POLL_COLLECTIONS", []string{"users"}),
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "golden-exchange.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Server: models.ServerConfig{
			Port:            getEnvInt("SERVER_PORT", 8084),
			ShutdownTimeout: shutdownTimeout,
		},
		Auth: models.AuthConfig{
			JWTSecret:    getEnvString("AUTH_JWT_SECRET", "golden-exchange-dev-secret"),
			TokenTTL:     tokenTTL,
			RootEmail:    getEnvString("ROOT_DEV_EMAIL", "root@golden.exchange"),
			RootPassword: getEnvString("ROOT_DEV_PASSWORD", "golden-master-key"),
		},
		SeedFile: getEnvString("SEED_FILE", ""),
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
