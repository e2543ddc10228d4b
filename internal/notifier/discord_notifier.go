package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/aleister1102/pagewatch/internal/httpclient"
	"github.com/aleister1102/pagewatch/internal/models"
	"github.com/rs/zerolog"
)

const defaultWebhookTimeout = 20 * time.Second

// DiscordNotifier posts change and error events to a Discord webhook.
type DiscordNotifier struct {
	cfg          config.NotificationConfig
	httpClient   *http.Client
	retryHandler *httpclient.RetryHandler
	logger       zerolog.Logger
}

// NewDiscordNotifier creates a notifier for cfg.DiscordWebhookURL.
func NewDiscordNotifier(cfg config.NotificationConfig, httpClient *http.Client, logger zerolog.Logger) (*DiscordNotifier, error) {
	moduleLogger := logger.With().Str("component", "DiscordNotifier").Logger()

	if cfg.DiscordWebhookURL == "" {
		return nil, common.NewValidationError("discord_webhook_url", cfg.DiscordWebhookURL, "webhook URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.DiscordWebhookURL); err != nil {
		return nil, common.NewValidationError("discord_webhook_url", cfg.DiscordWebhookURL, "invalid webhook URL: "+err.Error())
	}

	if httpClient == nil {
		moduleLogger.Warn().Msg("HTTP client is nil, using default HTTP client with 20s timeout")
		httpClient = &http.Client{Timeout: defaultWebhookTimeout}
	}

	return &DiscordNotifier{
		cfg:        cfg,
		httpClient: httpClient,
		retryHandler: httpclient.NewRetryHandler(httpclient.RetryHandlerConfig{
			MaxRetries: DefaultRetryAttempts,
			BaseDelay:  time.Second,
			MaxDelay:   5 * time.Second,
		}, moduleLogger),
		logger: moduleLogger,
	}, nil
}

func (dn *DiscordNotifier) OnChange(ctx context.Context, target string, detectedAt time.Time, previous, current string) error {
	info := SummarizeChange(target, detectedAt, previous, current)
	return dn.SendNotification(ctx, FormatContentChangeMessage(info, dn.cfg))
}

func (dn *DiscordNotifier) OnError(ctx context.Context, target string, occurredAt time.Time, message string) error {
	info := models.MonitorFetchErrorInfo{URL: target, Error: message, OccurredAt: occurredAt}
	return dn.SendNotification(ctx, FormatFetchErrorMessage(info, dn.cfg))
}

// SendNotification posts payload to the webhook, retrying failed deliveries.
func (dn *DiscordNotifier) SendNotification(ctx context.Context, payload models.DiscordMessagePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return common.WrapError(err, "failed to marshal discord payload")
	}

	webhookURL := dn.cfg.DiscordWebhookURL
	err = dn.retryHandler.Do(ctx, webhookURL, func(ctx context.Context, attempt int) error {
		return dn.post(ctx, webhookURL, payloadJSON)
	})
	if err != nil {
		dn.logger.Error().Err(err).Msg("Discord notification failed")
		return err
	}

	dn.logger.Info().Msg("Discord notification sent successfully")
	return nil
}

func (dn *DiscordNotifier) post(ctx context.Context, webhookURL string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return common.WrapError(err, "failed to create discord request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dn.httpClient.Do(req)
	if err != nil {
		return common.NewNetworkError(webhookURL, "failed to send discord notification", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return common.NewHTTPErrorWithURL(resp.StatusCode, fmt.Sprintf("discord webhook rejected notification: %s", respBody), webhookURL)
	}
	return nil
}
