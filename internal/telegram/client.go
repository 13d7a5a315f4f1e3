package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/config"
)

// Client talks to the Telegram Bot API. One sendMessage call per invocation,
// no retries, no backoff.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	timeout time.Duration
	log     *zap.Logger
}

func NewClient(cfg config.TelegramConfig, log *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{},
		baseURL: cfg.BaseURL,
		token:   cfg.BotToken,
		timeout: cfg.RequestTimeout,
		log:     log,
	}
}

// SendParams describes one outbound sendMessage call.
type SendParams struct {
	ChatID string
	Text   string
	// ReplyTo threads the message as a reply when non-zero.
	ReplyTo int64
	// Silent suppresses the recipient-side notification sound.
	Silent bool
}

// SendResult is the Bot API acknowledgment. OK=false is a logical failure
// and is returned without error so the caller can classify the description.
type SendResult struct {
	OK          bool
	MessageID   int64
	Description string
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
	DisableNotification   bool   `json:"disable_notification"`
	ReplyToMessageID      int64  `json:"reply_to_message_id,omitempty"`
}

type apiResponse struct {
	OK     bool `json:"ok"`
	Result *struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
	Description string `json:"description"`
}

// SendMessage performs a single sendMessage call. Transport and decode
// failures come back as errors; a well-formed ok:false response does not.
func (c *Client) SendMessage(ctx context.Context, p SendParams) (*SendResult, error) {
	tracer := otel.Tracer("ordercast/telegram")
	ctx, span := tracer.Start(ctx, "telegram.sendMessage")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("telegram.reply", p.ReplyTo != 0),
		attribute.Bool("telegram.silent", p.Silent),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(sendMessageRequest{
		ChatID:                p.ChatID,
		Text:                  p.Text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
		DisableNotification:   p.Silent,
		ReplyToMessageID:      p.ReplyTo,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding sendMessage request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		return nil, fmt.Errorf("calling telegram: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading telegram response: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(raw, &api); err != nil {
		return nil, fmt.Errorf("decoding telegram response (status %d): %w", resp.StatusCode, err)
	}

	result := &SendResult{OK: api.OK, Description: api.Description}
	if api.Result != nil {
		result.MessageID = api.Result.MessageID
	}

	if !api.OK {
		span.SetStatus(codes.Error, "api returned ok=false")
		c.log.Warn("telegram rejected message",
			zap.String("description", api.Description),
			zap.Int("http_status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		return result, nil
	}

	c.log.Debug("telegram message sent",
		zap.Int64("message_id", result.MessageID),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// IsTimeout reports whether err was caused by the call deadline expiring.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsTransport reports whether err is a network-level failure (DNS, dial,
// reset) as opposed to a timeout or a local fault.
func IsTransport(err error) bool {
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}
