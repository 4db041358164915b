package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/logger"
)

// WebhookDispatcher POSTs fan-out payloads to outgoing integrations.
// Delivery is fire and forget: each call runs on its own goroutine
// with a bounded client timeout, and failures are only logged.
type WebhookDispatcher struct {
	client *http.Client
}

func NewWebhookDispatcher(timeout time.Duration) *WebhookDispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookDispatcher{
		client: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	Description string                 `json:"description"`
	Params      map[string]interface{} `json:"params"`
}

func (d *WebhookDispatcher) Dispatch(_ context.Context, integration models.Integration, description string, params map[string]interface{}) {
	body, err := json.Marshal(webhookPayload{
		Description: description,
		Params:      params,
	})
	if err != nil {
		logger.Error("webhook_marshal_failed", err, map[string]interface{}{
			"integration_id": integration.ID,
		})
		return
	}

	go d.send(integration, body)
}

func (d *WebhookDispatcher) send(integration models.Integration, body []byte) {
	req, err := http.NewRequest(http.MethodPost, integration.URL, bytes.NewReader(body))
	if err != nil {
		logger.Error("webhook_request_failed", err, map[string]interface{}{
			"integration_id": integration.ID,
			"url":            integration.URL,
		})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if integration.Token != "" {
		req.Header.Set("X-Webhook-Token", integration.Token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		logger.Error("webhook_delivery_failed", err, map[string]interface{}{
			"integration_id": integration.ID,
			"url":            integration.URL,
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		logger.Warn("webhook_delivery_rejected", map[string]interface{}{
			"integration_id": integration.ID,
			"url":            integration.URL,
			"status_code":    resp.StatusCode,
		})
		return
	}

	logger.Info("webhook_delivered", map[string]interface{}{
		"integration_id": integration.ID,
		"status_code":    resp.StatusCode,
	})
}
