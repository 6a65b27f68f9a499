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
	"encoding/json"
	"net/http"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/auth"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"
	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	// Browsers never talk to the sync API directly; origin checks stay off.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func knownCollection(name string) bool {
	for _, key := range store.CollectionKeys {
		if key == name {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSelectAll(c echo.Context) error {
	name := c.Param("name")
	if !knownCollection(name) {
		return errorJSON(c, http.StatusNotFound, "UNKNOWN_COLLECTION", "no such collection: "+name)
	}

	rows, err := s.records.SelectAll(c.Request().Context(), name)
	if err != nil {
		return errors.WithStack(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleUpsert(c echo.Context) error {
	name := c.Param("name")
	if !knownCollection(name) {
		return errorJSON(c, http.StatusNotFound, "UNKNOWN_COLLECTION", "no such collection: "+name)
	}

	var rows []json.RawMessage
	if err := c.Bind(&rows); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "body must be a JSON array of records")
	}
	if len(rows) == 0 {
		return c.NoContent(http.StatusNoContent)
	}

	if err := s.records.Upsert(c.Request().Context(), name, rows); err != nil {
		return errors.WithStack(err)
	}

	s.hub.Broadcast(name)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDelete(c echo.Context) error {
	name := c.Param("name")
	if !knownCollection(name) {
		return errorJSON(c, http.StatusNotFound, "UNKNOWN_COLLECTION", "no such collection: "+name)
	}

	if err := s.records.Delete(c.Request().Context(), name, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	s.hub.Broadcast(name)
	return c.NoContent(http.StatusNoContent)
}

// handleSubscribe upgrades to a websocket and holds it open; the hub pushes a
// notice on every write to the collection. The read loop exists only to
// detect the peer going away.
func (s *Server) handleSubscribe(c echo.Context) error {
	name := c.Param("name")
	if !knownCollection(name) {
		return errorJSON(c, http.StatusNotFound, "UNKNOWN_COLLECTION", "no such collection: "+name)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Wrap(err, "websocket upgrade failed")
	}

	s.hub.Add(name, conn)
	zap.L().Debug("Subscriber connected", zap.String("collection", name))

	go func() {
		defer func() {
			s.hub.Remove(name, conn)
			_ = conn.Close()
			zap.L().Debug("Subscriber disconnected", zap.String("collection", name))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// --- fallback user API ---

func (s *Server) loadUsers(c echo.Context) ([]models.User, error) {
	rows, err := s.records.SelectAll(c.Request().Context(), store.KeyUsers)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		var u models.User
		if err := json.Unmarshal(row, &u); err != nil {
			return nil, errors.Wrap(err, "corrupt user record")
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Server) saveUser(c echo.Context, u models.User) error {
	body, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.records.Upsert(c.Request().Context(), store.KeyUsers, []json.RawMessage{body}); err != nil {
		return err
	}
	s.hub.Broadcast(store.KeyUsers)
	return nil
}

func (s *Server) handleListUsers(c echo.Context) error {
	users, err := s.loadUsers(c)
	if err != nil {
		return errors.WithStack(err)
	}
	// Password hashes never leave the store through the listing API.
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role"`
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid user payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	}

	users, err := s.loadUsers(c)
	if err != nil {
		return errors.WithStack(err)
	}

	user, err := s.auth.Register(users, req.Email, req.Password, req.Role, time.Now())
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return errorJSON(c, http.StatusConflict, "EMAIL_TAKEN", "email already registered")
		}
		return errors.WithStack(err)
	}

	if err := s.saveUser(c, user); err != nil {
		return errors.WithStack(err)
	}

	zap.L().Info("User created", zap.String("id", user.Id), zap.String("email", user.Email))
	user.Password = ""
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	var user models.User
	if err := c.Bind(&user); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid user payload")
	}
	if user.Id == "" {
		return errorJSON(c, http.StatusBadRequest, "MISSING_ID", "user id is required")
	}

	users, err := s.loadUsers(c)
	if err != nil {
		return errors.WithStack(err)
	}
	var existing *models.User
	for i := range users {
		if users[i].Id == user.Id {
			existing = &users[i]
			break
		}
	}
	if existing == nil {
		return errorJSON(c, http.StatusNotFound, "USER_NOT_FOUND", "no such user: "+user.Id)
	}

	// A blank password on update keeps the stored hash; a new one is hashed.
	if user.Password == "" {
		user.Password = existing.Password
	} else {
		hash, err := auth.HashPassword(user.Password)
		if err != nil {
			return errors.WithStack(err)
		}
		user.Password = hash
	}

	if err := s.saveUser(c, user); err != nil {
		return errors.WithStack(err)
	}
	user.Password = ""
	return c.JSON(http.StatusOK, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid login payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	}

	users, err := s.loadUsers(c)
	if err != nil {
		return errors.WithStack(err)
	}

	now := time.Now()
	user, err := s.auth.Authenticate(users, req.Email, req.Password, now)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPendingApproval):
			return errorJSON(c, http.StatusUnauthorized, "PENDING_APPROVAL", "account awaiting approval")
		case errors.Is(err, auth.ErrBlocked):
			return errorJSON(c, http.StatusUnauthorized, "BLOCKED", "account blocked")
		case errors.Is(err, auth.ErrExpired):
			return errorJSON(c, http.StatusUnauthorized, "EXPIRED", "account expired")
		default:
			return errorJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		}
	}

	token, err := s.auth.IssueToken(*user, now)
	if err != nil {
		return errors.WithStack(err)
	}

	out := *user
	out.Password = ""
	return c.JSON(http.StatusOK, loginResponse{User: out, Token: token})
}
