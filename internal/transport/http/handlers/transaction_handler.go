package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/harryrismananda/lingohub/backend/internal/infra/payment"
	authsvc "github.com/harryrismananda/lingohub/backend/internal/services/auth"
	paymentssvc "github.com/harryrismananda/lingohub/backend/internal/services/payments"
	"github.com/harryrismananda/lingohub/backend/internal/transport/http/dto"
	httperrors "github.com/harryrismananda/lingohub/backend/internal/transport/http/errors"
)

type TransactionHandler struct {
	payments *paymentssvc.Service
	logger   *zap.Logger
}

func NewTransactionHandler(payments *paymentssvc.Service, logger *zap.Logger) *TransactionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionHandler{
		payments: payments,
		logger:   logger,
	}
}

func (h *TransactionHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternal(w, "PAYMENTS_SERVICE_UNAVAILABLE", "payments service is unavailable")
		return
	}
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	params, record, err := h.payments.CreateOrder(r.Context(), identity.UserID, req.Amount)
	if err != nil {
		handlePaymentsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreateOrderResponse{
		TransactionDetails: dto.TransactionDetailsPayload{
			OrderID:     params.TransactionDetails.OrderID,
			GrossAmount: params.TransactionDetails.GrossAmount,
		},
		CustomerDetails: dto.CustomerDetailsPayload{
			FirstName: params.CustomerDetails.FirstName,
			Email:     params.CustomerDetails.Email,
		},
		Status: record.Status,
	})
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternal(w, "PAYMENTS_SERVICE_UNAVAILABLE", "payments service is unavailable")
		return
	}
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	token, err := h.payments.CreateTransaction(r.Context(), payment.CheckoutParams{
		TransactionDetails: payment.TransactionDetails{
			OrderID:     req.TransactionDetails.OrderID,
			GrossAmount: req.TransactionDetails.GrossAmount,
		},
		CustomerDetails: payment.CustomerDetails{
			FirstName: req.CustomerDetails.FirstName,
			Email:     req.CustomerDetails.Email,
		},
	})
	if err != nil {
		handlePaymentsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreateTransactionResponse{
		Token:       token.Token,
		RedirectURL: token.RedirectURL,
	})
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternal(w, "PAYMENTS_SERVICE_UNAVAILABLE", "payments service is unavailable")
		return
	}
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	orderID := r.URL.Query().Get("order_id")
	record, err := h.payments.GetByOrderID(r.Context(), orderID)
	if err != nil {
		handlePaymentsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TransactionResponse{
		ID:       record.ID,
		UserID:   record.UserID,
		OrderID:  record.OrderID,
		Amount:   record.Amount,
		Currency: record.Currency,
		Status:   record.Status,
	})
}

// Notification is the provider webhook. It always acknowledges with
// HTTP 200: the gateway retries non-200 responses aggressively and a
// retry storm cannot fix a bad payload. Failures are logged instead.
func (h *TransactionHandler) Notification(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		h.logger.Error("payment notification dropped", zap.String("reason", "payments service is unavailable"))
		httperrors.Write(w, http.StatusOK, dto.NotificationAck{OK: false, Message: "service unavailable"})
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error("payment notification rejected", zap.Error(err), zap.String("reason", "invalid json"))
		httperrors.Write(w, http.StatusOK, dto.NotificationAck{OK: false, Message: "invalid payload"})
		return
	}

	notification := paymentssvc.Notification{
		OrderID:           stringField(body, "order_id"),
		TransactionStatus: stringField(body, "transaction_status"),
		FraudStatus:       stringField(body, "fraud_status"),
		Raw:               body,
	}

	result, err := h.payments.HandleNotification(r.Context(), notification)
	if err != nil {
		h.logger.Error("payment notification failed",
			zap.Error(err),
			zap.String("order_id", notification.OrderID),
			zap.String("transaction_status", notification.TransactionStatus),
		)
		httperrors.Write(w, http.StatusOK, dto.NotificationAck{OK: false, Message: "notification not processed"})
		return
	}

	if result.Outcome == paymentssvc.OutcomeIgnored {
		h.logger.Warn("payment notification ignored",
			zap.String("order_id", notification.OrderID),
			zap.String("transaction_status", notification.TransactionStatus),
			zap.String("fraud_status", notification.FraudStatus),
		)
	}

	httperrors.Write(w, http.StatusOK, dto.NotificationAck{
		OK:     true,
		Status: string(result.Outcome),
	})
}

func handlePaymentsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, paymentssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid transaction payload")
	case errors.Is(err, paymentssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "transaction not found")
	case errors.Is(err, paymentssvc.ErrGateway):
		httperrors.Write(w, http.StatusBadGateway, httperrors.APIError{
			Code:    "GATEWAY_ERROR",
			Message: "payment gateway request failed",
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process transaction request")
	}
}

func stringField(body map[string]any, key string) string {
	value, _ := body[key].(string)
	return value
}
