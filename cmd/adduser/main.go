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
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/common"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/config"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"

	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

func validateRole(role string) error {
	switch models.Role(role) {
	case models.RoleUser, models.RoleStaff, models.RoleVIP, models.RoleAdmin, models.RoleDeveloper:
		return nil
	}
	return fmt.Errorf("unknown role: %s", role)
}

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	emailFlag := flag.String("email", "", "User's email address (required)")
	passwordFlag := flag.String("password", "", "User's password (required)")
	roleFlag := flag.String("role", string(models.RoleUser), "User role (user, staff, vip, admin, developer)")
	flag.Parse()

	// Validate required flags
	if *emailFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("Both flags are required: --email and --password")
	}
	if err := validateEmail(*emailFlag); err != nil {
		zap.L().Fatal("Invalid email", zap.Error(err))
	}
	if len(*passwordFlag) < 6 {
		zap.L().Fatal("Password must be at least 6 characters")
	}
	if err := validateRole(*roleFlag); err != nil {
		zap.L().Fatal("Invalid role", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Creating user via remote store",
		zap.String("email", *emailFlag),
		zap.String("role", *roleFlag),
		zap.String("remote", cfg.Remote.BaseURL))

	payload, err := json.Marshal(map[string]string{
		"email":    *emailFlag,
		"password": *passwordFlag,
		"role":     *roleFlag,
	})
	if err != nil {
		zap.L().Fatal("Failed to encode request", zap.Error(err))
	}

	client := &http.Client{Timeout: 30 * time.Second}
	url := strings.TrimRight(cfg.Remote.BaseURL, "/") + "/api/users"
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		zap.L().Fatal("Request failed", zap.Error(err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusConflict {
		zap.L().Fatal("User already exists with this email", zap.String("email", *emailFlag))
	}
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		zap.L().Fatal("Unexpected response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		zap.L().Fatal("Failed to decode response", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("USER CREATED")
	fmt.Printf("ID:     %s\n", user.Id)
	fmt.Printf("Email:  %s\n", user.Email)
	fmt.Printf("Role:   %s\n", user.Role)
	fmt.Printf("Status: %s (awaiting approval)\n", user.Status)
	fmt.Println()

	zap.L().Info("User created successfully", zap.String("id", user.Id))
}
