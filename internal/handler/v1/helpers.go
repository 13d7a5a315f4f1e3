package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/domain/order"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/service"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/telegram"
)

// Stable machine-readable codes. Callers branch on these, never on the
// human-readable message.
const (
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidBody      = "INVALID_BODY"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeMissingFields    = "MISSING_FIELDS"
	CodeInvalidPhone     = "INVALID_PHONE"
	CodeInvalidQuantity  = "INVALID_QUANTITY"
	CodeServerConfig     = "SERVER_CONFIG_ERROR"
	CodeNetworkError     = "NETWORK_ERROR"
	CodeTimeoutError     = "TIMEOUT_ERROR"
	CodeInternalError    = "INTERNAL_SERVER_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
)

type SuccessResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	MessageID    int64        `json:"message_id"`
	Timestamp    string       `json:"timestamp"`
	OrderSummary OrderSummary `json:"order_summary"`
}

type OrderSummary struct {
	Product  string  `json:"product"`
	Customer string  `json:"customer"`
	Quantity float64 `json:"quantity"`
}

type ErrorResponse struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error"`
	Code          string   `json:"code"`
	MissingFields []string `json:"missingFields,omitempty"`
	TelegramError string   `json:"telegramError,omitempty"`
	Details       string   `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondBindError classifies JSON decode failures. A type mismatch on
// quantity gets its own code (non-numeric quantity is rejected rather than
// silently compared); everything else is a generic body error.
func (h *OrderHandler) respondBindError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		respondError(c, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body exceeds the size limit")
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "quantity" {
		respondError(c, http.StatusBadRequest, CodeInvalidQuantity, "Quantity must be a number of at least 1")
		return
	}

	respondError(c, http.StatusBadRequest, CodeInvalidBody, "Request body is not valid JSON")
}

// respondSubmitError maps every terminal failure of the submission flow to
// its (status, code, message) triple. The raw error text is attached as
// details only in development.
func (h *OrderHandler) respondSubmitError(c *gin.Context, err error) {
	var missing *order.MissingFieldsError
	var notify *service.NotifyError

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:         "Missing required fields",
			Code:          CodeMissingFields,
			MissingFields: missing.Fields,
		})

	case errors.Is(err, order.ErrInvalidPhone):
		respondError(c, http.StatusBadRequest, CodeInvalidPhone, "Invalid phone number format")

	case errors.Is(err, order.ErrInvalidQuantity):
		respondError(c, http.StatusBadRequest, CodeInvalidQuantity, "Quantity must be at least 1")

	case errors.Is(err, service.ErrNotConfigured):
		respondError(c, http.StatusInternalServerError, CodeServerConfig, "Server configuration error. Please contact the store.")

	case errors.As(err, &notify):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:         notify.Message,
			Code:          notify.Code,
			TelegramError: notify.Raw,
		})

	// Timeout first: a timed-out transport error satisfies both checks.
	case telegram.IsTimeout(err):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error:   "Notification service timed out. Please try again later.",
			Code:    CodeTimeoutError,
			Details: h.detail(err),
		})

	case telegram.IsTransport(err):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Could not reach the notification service. Please try again later.",
			Code:    CodeNetworkError,
			Details: h.detail(err),
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Code:    CodeInternalError,
			Details: h.detail(err),
		})
	}
}

func (h *OrderHandler) detail(err error) string {
	if h.dev {
		return err.Error()
	}
	return ""
}
