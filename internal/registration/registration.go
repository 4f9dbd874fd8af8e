// Package registration announces this module to the admin gateway and
// keeps the registration alive with periodic heartbeats.
package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	moduleID          = "bookmark"
	heartbeatInterval = 30 * time.Second
	registerRetry     = 5 * time.Second
	requestTimeout    = 10 * time.Second
)

// Client registers the module with the admin gateway on startup,
// heartbeats while running and unregisters on shutdown.
type Client struct {
	endpoint  string
	advertise string
	authToken string
	client    *http.Client
	logger    *zap.Logger
}

func NewClient(endpoint, advertise, authToken string, logger *zap.Logger) *Client {
	return &Client{
		endpoint:  endpoint,
		advertise: advertise,
		authToken: authToken,
		client:    &http.Client{Timeout: requestTimeout},
		logger:    logger,
	}
}

type registerRequest struct {
	ModuleID string `json:"moduleId"`
	Endpoint string `json:"endpoint"`
}

// Run blocks until ctx is cancelled. Registration failures are retried;
// heartbeat failures are logged and retried on the next tick.
func (c *Client) Run(ctx context.Context) {
	for !c.register(ctx) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(registerRetry):
		}
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.unregister()
			return
		case <-ticker.C:
			if err := c.post(ctx, "/api/v1/modules/"+moduleID+"/heartbeat", nil); err != nil {
				c.logger.Warn("module heartbeat failed", zap.Error(err))
			}
		}
	}
}

func (c *Client) register(ctx context.Context) bool {
	body := registerRequest{ModuleID: moduleID, Endpoint: c.advertise}
	if err := c.post(ctx, "/api/v1/modules/register", body); err != nil {
		c.logger.Warn("module registration failed", zap.Error(err))
		return false
	}
	c.logger.Info("module registered", zap.String("module_id", moduleID), zap.String("endpoint", c.advertise))
	return true
}

func (c *Client) unregister() {
	// Shutdown is already in progress, so use a fresh short-lived context.
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := c.post(ctx, "/api/v1/modules/"+moduleID+"/unregister", nil); err != nil {
		c.logger.Warn("module unregister failed", zap.Error(err))
		return
	}
	c.logger.Info("module unregistered", zap.String("module_id", moduleID))
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, &payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d for %s", resp.StatusCode, path)
	}
	return nil
}
