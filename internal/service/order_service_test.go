package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/config"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/telegram"
	"github.com/dmehra2102/prod-golang-projects/ordercast/pkg/metrics"
)

type fakeNotifier struct {
	mu      sync.Mutex
	calls   []telegram.SendParams
	respond func(p telegram.SendParams) (*telegram.SendResult, error)
}

func (f *fakeNotifier) SendMessage(_ context.Context, p telegram.SendParams) (*telegram.SendResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	return f.respond(p)
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeNotifier) call(i int) telegram.SendParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func testConfig() config.TelegramConfig {
	return config.TelegramConfig{
		BotToken:       "token",
		ChatID:         "-100123",
		RequestTimeout: time.Second,
	}
}

func newTestService(t *testing.T, notifier Notifier, cfg config.TelegramConfig) *OrderService {
	t.Helper()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	return NewOrderService(notifier, cfg, m, zap.NewNop())
}

func validSubmission() *order.Submission {
	qty := 3.0
	return &order.Submission{
		ProductName: "Ceramic Mug",
		Name:        "Sara Ahmed",
		Phone:       "+20 100 123 4567",
		Address:     "12 Nile St, Cairo",
		Quantity:    &qty,
	}
}

func TestSubmit_Success_WithConfirmation(t *testing.T) {
	notifier := &fakeNotifier{
		respond: func(p telegram.SendParams) (*telegram.SendResult, error) {
			return &telegram.SendResult{OK: true, MessageID: 42}, nil
		},
	}
	svc := newTestService(t, notifier, testConfig())

	receipt, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, int64(42), receipt.MessageID)
	assert.Equal(t, "Ceramic Mug", receipt.Product)
	assert.Equal(t, "Sara Ahmed", receipt.Customer)
	assert.Equal(t, 3.0, receipt.Quantity)

	// Confirmation is dispatched detached; wait for it.
	require.Eventually(t, func() bool { return notifier.callCount() == 2 }, time.Second, 5*time.Millisecond)

	primary := notifier.call(0)
	assert.Equal(t, "-100123", primary.ChatID)
	assert.Zero(t, primary.ReplyTo)

	confirmation := notifier.call(1)
	assert.Equal(t, "-100123", confirmation.ChatID)
	assert.Equal(t, int64(42), confirmation.ReplyTo)
	assert.NotEqual(t, primary.Text, confirmation.Text)
}

func TestSubmit_ConfirmationFailureIsSwallowed(t *testing.T) {
	notifier := &fakeNotifier{}
	notifier.respond = func(p telegram.SendParams) (*telegram.SendResult, error) {
		if p.ReplyTo != 0 {
			return nil, errors.New("boom")
		}
		return &telegram.SendResult{OK: true, MessageID: 7}, nil
	}
	svc := newTestService(t, notifier, testConfig())

	receipt, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, int64(7), receipt.MessageID)

	// The confirmation attempt happens exactly once and its failure never
	// surfaces.
	require.Eventually(t, func() bool { return notifier.callCount() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, notifier.callCount())
}

func TestSubmit_LogicalFailureClassified(t *testing.T) {
	notifier := &fakeNotifier{
		respond: func(p telegram.SendParams) (*telegram.SendResult, error) {
			return &telegram.SendResult{OK: false, Description: "Bad Request: chat not found"}, nil
		},
	}
	svc := newTestService(t, notifier, testConfig())

	_, err := svc.Submit(context.Background(), validSubmission())

	var notify *NotifyError
	require.ErrorAs(t, err, &notify)
	assert.Equal(t, "CHAT_NOT_FOUND", notify.Code)
	assert.Equal(t, "Bad Request: chat not found", notify.Raw)

	// No confirmation after a failed primary.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, notifier.callCount())
}

func TestSubmit_TransportErrorPropagates(t *testing.T) {
	sentinel := errors.New("connection refused")
	notifier := &fakeNotifier{
		respond: func(p telegram.SendParams) (*telegram.SendResult, error) {
			return nil, sentinel
		},
	}
	svc := newTestService(t, notifier, testConfig())

	_, err := svc.Submit(context.Background(), validSubmission())
	require.ErrorIs(t, err, sentinel)
}

func TestSubmit_ValidationFailure_NoOutboundCall(t *testing.T) {
	notifier := &fakeNotifier{
		respond: func(p telegram.SendParams) (*telegram.SendResult, error) {
			t.Fatal("no outbound call should happen for an invalid submission")
			return nil, nil
		},
	}
	svc := newTestService(t, notifier, testConfig())

	sub := validSubmission()
	sub.Phone = "123"
	_, err := svc.Submit(context.Background(), sub)
	require.ErrorIs(t, err, order.ErrInvalidPhone)
	assert.Equal(t, 0, notifier.callCount())
}

func TestSubmit_NotConfigured_NoOutboundCall(t *testing.T) {
	notifier := &fakeNotifier{
		respond: func(p telegram.SendParams) (*telegram.SendResult, error) {
			t.Fatal("no outbound call should happen without credentials")
			return nil, nil
		},
	}
	svc := newTestService(t, notifier, config.TelegramConfig{RequestTimeout: time.Second})

	_, err := svc.Submit(context.Background(), validSubmission())
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, 0, notifier.callCount())
}

func TestSubmit_ValidationBeforeConfigCheck(t *testing.T) {
	// A malformed request never probes server configuration.
	notifier := &fakeNotifier{respond: func(p telegram.SendParams) (*telegram.SendResult, error) {
		return nil, nil
	}}
	svc := newTestService(t, notifier, config.TelegramConfig{})

	sub := validSubmission()
	sub.ProductName = ""
	_, err := svc.Submit(context.Background(), sub)

	var missing *order.MissingFieldsError
	require.ErrorAs(t, err, &missing)
}

func TestSubmit_NoIdempotency(t *testing.T) {
	// Submitting the same payload twice produces two independent sends.
	notifier := &fakeNotifier{
		respond: func(p telegram.SendParams) (*telegram.SendResult, error) {
			if p.ReplyTo != 0 {
				return &telegram.SendResult{OK: true, MessageID: 100}, nil
			}
			return &telegram.SendResult{OK: true, MessageID: 1}, nil
		},
	}
	svc := newTestService(t, notifier, testConfig())

	sub := validSubmission()
	_, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), sub)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return notifier.callCount() == 4 }, time.Second, 5*time.Millisecond)
}
