package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/config"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/telegram"
	"github.com/dmehra2102/prod-golang-projects/ordercast/pkg/metrics"
)

// Notifier is the outbound messaging port. *telegram.Client satisfies it;
// tests swap in fakes.
type Notifier interface {
	SendMessage(ctx context.Context, p telegram.SendParams) (*telegram.SendResult, error)
}

type OrderService struct {
	notifier Notifier
	cfg      config.TelegramConfig
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewOrderService(notifier Notifier, cfg config.TelegramConfig, m *metrics.Collector, log *zap.Logger) *OrderService {
	return &OrderService{
		notifier: notifier,
		cfg:      cfg,
		metrics:  m,
		log:      log,
	}
}

// Receipt is the success acknowledgment echoed back to the caller.
type Receipt struct {
	MessageID int64
	Product   string
	Customer  string
	Quantity  float64
}

// Submit runs the whole per-request flow: validate, check credentials,
// render, send the primary notification, and on success dispatch the
// best-effort confirmation reply. The confirmation is fire-and-forget; its
// outcome never reaches the caller.
func (s *OrderService) Submit(ctx context.Context, sub *order.Submission) (*Receipt, error) {
	if err := sub.Validate(); err != nil {
		s.metrics.OrdersRejected.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	// Credentials are checked only after validation: malformed requests
	// never probe server configuration.
	if !s.cfg.Configured() {
		s.log.Error("telegram credentials missing; rejecting order")
		return nil, ErrNotConfigured
	}

	body := sub.NotificationBody(time.Now())

	start := time.Now()
	res, err := s.notifier.SendMessage(ctx, telegram.SendParams{
		ChatID: s.cfg.ChatID,
		Text:   body,
	})
	s.metrics.TelegramSendDuration.WithLabelValues("primary").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.TelegramSends.WithLabelValues("primary", "error").Inc()
		return nil, fmt.Errorf("sending order notification: %w", err)
	}

	if !res.OK {
		s.metrics.TelegramSends.WithLabelValues("primary", "rejected").Inc()
		f := telegram.ClassifyFailure(res.Description)
		return nil, &NotifyError{Code: f.Code, Message: f.Message, Raw: res.Description}
	}

	s.metrics.TelegramSends.WithLabelValues("primary", "ok").Inc()
	s.metrics.OrdersAccepted.Inc()
	s.log.Info("order notification sent",
		zap.Int64("message_id", res.MessageID),
		zap.String("product", sub.ProductName),
	)

	s.dispatchConfirmation(sub, res.MessageID)

	return &Receipt{
		MessageID: res.MessageID,
		Product:   sub.ProductName,
		Customer:  sub.Name,
		Quantity:  *sub.Quantity,
	}, nil
}

// dispatchConfirmation sends the threaded confirmation reply in a detached
// goroutine. Failures are logged and dropped; nothing is retried and the
// caller-visible result never waits on it. The request context is not
// reused because the response may already be written when this runs.
func (s *OrderService) dispatchConfirmation(sub *order.Submission, replyTo int64) {
	text := sub.ConfirmationBody(time.Now())
	go func() {
		res, err := s.notifier.SendMessage(context.Background(), telegram.SendParams{
			ChatID:  s.cfg.ChatID,
			Text:    text,
			ReplyTo: replyTo,
		})
		switch {
		case err != nil:
			s.metrics.TelegramSends.WithLabelValues("confirmation", "error").Inc()
			s.log.Warn("confirmation send failed", zap.Error(err), zap.Int64("reply_to", replyTo))
		case !res.OK:
			s.metrics.TelegramSends.WithLabelValues("confirmation", "rejected").Inc()
			s.log.Warn("confirmation rejected by telegram",
				zap.String("description", res.Description),
				zap.Int64("reply_to", replyTo),
			)
		default:
			s.metrics.TelegramSends.WithLabelValues("confirmation", "ok").Inc()
		}
	}()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, order.ErrInvalidPhone):
		return "invalid_phone"
	case errors.Is(err, order.ErrInvalidQuantity):
		return "invalid_quantity"
	default:
		return "missing_fields"
	}
}
