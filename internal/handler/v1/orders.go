package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/service"
)

// Submitter is what the handler needs from the order service.
type Submitter interface {
	Submit(ctx context.Context, sub *order.Submission) (*service.Receipt, error)
}

type OrderHandler struct {
	svc Submitter
	log *zap.Logger
	dev bool
}

func NewOrderHandler(svc Submitter, log *zap.Logger, dev bool) *OrderHandler {
	return &OrderHandler{svc: svc, log: log, dev: dev}
}

func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var sub order.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.log.Warn("rejected unparseable order body", zap.Error(err))
		h.respondBindError(c, err)
		return
	}

	receipt, err := h.svc.Submit(c.Request.Context(), &sub)
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success:   true,
		Message:   "Order received and forwarded",
		MessageID: receipt.MessageID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		OrderSummary: OrderSummary{
			Product:  receipt.Product,
			Customer: receipt.Customer,
			Quantity: receipt.Quantity,
		},
	})
}
