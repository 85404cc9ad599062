package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	paymentssvc "github.com/harryrismananda/lingohub/backend/internal/services/payments"
	"github.com/harryrismananda/lingohub/backend/internal/transport/http/dto"
)

type memTransactionStore struct {
	byOrderID map[string]pgrepo.TransactionRecord
	nextID    int64
	failFind  bool
}

func newMemTransactionStore() *memTransactionStore {
	return &memTransactionStore{byOrderID: map[string]pgrepo.TransactionRecord{}}
}

func (s *memTransactionStore) CreatePending(_ context.Context, userID, amount int64, currency, provider string) (pgrepo.TransactionRecord, error) {
	s.nextID++
	rec := pgrepo.TransactionRecord{
		ID:       s.nextID,
		UserID:   userID,
		Provider: provider,
		OrderID:  fmt.Sprintf("ORDER-%d-%d", s.nextID, time.Now().UnixMilli()),
		Amount:   amount,
		Currency: currency,
		Status:   "pending",
	}
	s.byOrderID[rec.OrderID] = rec
	return rec, nil
}

func (s *memTransactionStore) FindByOrderID(_ context.Context, orderID string) (pgrepo.TransactionRecord, error) {
	if s.failFind {
		return pgrepo.TransactionRecord{}, errors.New("connection refused")
	}
	rec, ok := s.byOrderID[orderID]
	if !ok {
		return pgrepo.TransactionRecord{}, pgrepo.ErrTransactionNotFound
	}
	return rec, nil
}

func (s *memTransactionStore) Resolve(_ context.Context, orderID, status string, payload map[string]any) (pgrepo.TransactionRecord, bool, error) {
	rec, ok := s.byOrderID[orderID]
	if !ok {
		return pgrepo.TransactionRecord{}, false, pgrepo.ErrTransactionNotFound
	}
	if rec.Status != "pending" {
		return rec, false, nil
	}
	rec.Status = status
	rec.ResultPayload = payload
	s.byOrderID[orderID] = rec
	return rec, true, nil
}

type transactionUserStore struct{}

func (transactionUserStore) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	return pgrepo.UserRecord{ID: userID, Email: "user@example.com", FullName: "Test User"}, nil
}

func postNotification(t *testing.T, handler *TransactionHandler, body string) (*httptest.ResponseRecorder, dto.NotificationAck) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/transactions/notification", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Notification(rr, req)

	var ack dto.NotificationAck
	if err := json.Unmarshal(rr.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	return rr, ack
}

func TestNotificationAlwaysAcksWith200(t *testing.T) {
	store := newMemTransactionStore()
	service := paymentssvc.NewService(store, transactionUserStore{}, nil, "IDR", 50000)
	handler := NewTransactionHandler(service, nil)

	_, rec, err := service.CreateOrder(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	t.Run("invalid json", func(t *testing.T) {
		rr, ack := postNotification(t, handler, "{not json")
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rr.Code)
		}
		if ack.OK {
			t.Fatalf("invalid payload must not be acknowledged as processed")
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		rr, ack := postNotification(t, handler,
			`{"order_id":"ORDER-999-0","transaction_status":"settlement"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rr.Code)
		}
		if ack.OK {
			t.Fatalf("unknown order must not be acknowledged as processed")
		}
	})

	t.Run("unknown status is ignored", func(t *testing.T) {
		rr, ack := postNotification(t, handler,
			fmt.Sprintf(`{"order_id":%q,"transaction_status":"refund"}`, rec.OrderID))
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rr.Code)
		}
		if !ack.OK || ack.Status != string(paymentssvc.OutcomeIgnored) {
			t.Fatalf("unexpected ack: %+v", ack)
		}
		if got := store.byOrderID[rec.OrderID].Status; got != "pending" {
			t.Fatalf("ignored notification must not move the transaction, got %q", got)
		}
	})

	t.Run("settlement", func(t *testing.T) {
		rr, ack := postNotification(t, handler,
			fmt.Sprintf(`{"order_id":%q,"transaction_status":"settlement"}`, rec.OrderID))
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rr.Code)
		}
		if !ack.OK || ack.Status != string(paymentssvc.OutcomeSuccess) {
			t.Fatalf("unexpected ack: %+v", ack)
		}
	})

	t.Run("redelivery", func(t *testing.T) {
		rr, ack := postNotification(t, handler,
			fmt.Sprintf(`{"order_id":%q,"transaction_status":"settlement"}`, rec.OrderID))
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", rr.Code)
		}
		if !ack.OK || ack.Status != string(paymentssvc.OutcomeAlreadyProcessed) {
			t.Fatalf("unexpected ack: %+v", ack)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		store.failFind = true
		defer func() { store.failFind = false }()

		rr, ack := postNotification(t, handler,
			fmt.Sprintf(`{"order_id":%q,"transaction_status":"pending"}`, rec.OrderID))
		if rr.Code != http.StatusOK {
			t.Fatalf("store failure must still be acked with 200, got %d", rr.Code)
		}
		if ack.OK {
			t.Fatalf("store failure must not be acknowledged as processed")
		}
	})
}

func TestNotificationWithoutServiceStillAcks(t *testing.T) {
	handler := NewTransactionHandler(nil, nil)

	rr, ack := postNotification(t, handler, `{"order_id":"ORDER-1-0","transaction_status":"settlement"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if ack.OK {
		t.Fatalf("unavailable service must not be acknowledged as processed")
	}
}
