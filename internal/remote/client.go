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

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/store"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// Client talks to a golden-exchange remote store over HTTP, with websocket
// change-notification channels per collection.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the remote store at baseURL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("remote base URL cannot be empty")
	}
	httpClient, err := createCustomHttpClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}, nil
}

func createCustomHttpClient() (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}, nil
}

// Collection returns the typed Table view of one remote collection.
func Collection[T any](c *Client, name string) store.Table[T] {
	return &table[T]{client: c, name: name}
}

type table[T any] struct {
	client *Client
	name   string
}

func (t *table[T]) collectionURL() string {
	return t.client.baseURL + "/api/collections/" + t.name
}

func (t *table[T]) SelectAll(ctx context.Context) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.collectionURL(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch collection %s: %w", t.name, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch collection %s: unexpected status %d", t.name, resp.StatusCode)
	}

	var rows []T
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("unable to decode collection %s: %w", t.name, err)
	}
	return rows, nil
}

func (t *table[T]) Upsert(ctx context.Context, rows []T) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("unable to encode %s rows: %w", t.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.collectionURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("unable to upsert into %s: %w", t.name, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("upsert into %s: unexpected status %d", t.name, resp.StatusCode)
	}
	return nil
}

func (t *table[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return store.ErrMissingRecordID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.collectionURL()+"/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := t.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("unable to delete %s/%s: %w", t.name, id, err)
	}
	defer drainAndClose(resp.Body)

	// A row deleted by someone else first is not a failure.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent &&
		resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete %s/%s: unexpected status %d", t.name, id, resp.StatusCode)
	}
	return nil
}

// Subscribe opens the collection's websocket channel. Every message,
// whatever its payload, means "something changed; refetch".
func (t *table[T]) Subscribe(ctx context.Context, onChange func()) (func(), error) {
	wsURL, err := websocketURL(t.client.baseURL, t.name)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		drainAndClose(resp.Body)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to subscribe to %s: %w", t.name, err)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			if err := conn.Close(); err != nil {
				zap.L().Debug("Failed to close subscription",
					zap.String("collection", t.name), zap.Error(err))
			}
		})
	}

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				select {
				case <-ctx.Done():
				default:
					zap.L().Debug("Subscription channel closed",
						zap.String("collection", t.name), zap.Error(err))
				}
				return
			}
			onChange()
		}
	}()

	return cancel, nil
}

func websocketURL(baseURL, name string) (string, error) {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/api/collections/" + name + "/subscribe", nil
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/api/collections/" + name + "/subscribe", nil
	default:
		return "", fmt.Errorf("unsupported base URL scheme: %s", baseURL)
	}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	if err := body.Close(); err != nil {
		zap.L().Warn("Failed to close response body", zap.Error(err))
	}
}
