package payments_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/harryrismananda/lingohub/backend/internal/infra/payment"
	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	"github.com/harryrismananda/lingohub/backend/internal/services/payments"
)

func TestCreateOrder(t *testing.T) {
	svc, stores := newPaymentsServiceForTest()
	ctx := context.Background()

	params, record, err := svc.CreateOrder(ctx, 1, 0)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if record.Amount != 50000 {
		t.Fatalf("zero amount should buy premium at the configured price, got %d", record.Amount)
	}
	if record.Status != "pending" {
		t.Fatalf("fresh transaction should be pending, got %q", record.Status)
	}
	if !strings.HasPrefix(record.OrderID, "ORDER-") {
		t.Fatalf("unexpected order id %q", record.OrderID)
	}
	if params.TransactionDetails.OrderID != record.OrderID {
		t.Fatalf("checkout params should carry the stored order id")
	}
	if params.CustomerDetails.Email != "one@example.com" {
		t.Fatalf("customer details should come from the user row, got %q", params.CustomerDetails.Email)
	}

	second, _, err := svc.CreateOrder(ctx, 1, 75000)
	if err != nil {
		t.Fatalf("second order: %v", err)
	}
	if second.TransactionDetails.OrderID == params.TransactionDetails.OrderID {
		t.Fatalf("two orders must not share an order id")
	}

	if _, _, err := svc.CreateOrder(ctx, 404, 1000); !errors.Is(err, payments.ErrNotFound) {
		t.Fatalf("unknown user should be not found, got %v", err)
	}
	_ = stores
}

func TestCreateTransaction(t *testing.T) {
	svc, stores := newPaymentsServiceForTest()
	ctx := context.Background()

	if _, err := svc.CreateTransaction(ctx, payment.CheckoutParams{
		TransactionDetails: payment.TransactionDetails{GrossAmount: 1000},
	}); !errors.Is(err, payments.ErrValidation) {
		t.Fatalf("missing order id should be a validation error, got %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, payment.CheckoutParams{
		TransactionDetails: payment.TransactionDetails{OrderID: "ORDER-1-1"},
	}); !errors.Is(err, payments.ErrValidation) {
		t.Fatalf("missing gross amount should be a validation error, got %v", err)
	}

	token, err := svc.CreateTransaction(ctx, payment.CheckoutParams{
		TransactionDetails: payment.TransactionDetails{OrderID: "ORDER-1-1", GrossAmount: 1000},
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if token.Token != "snap-token" {
		t.Fatalf("unexpected token %q", token.Token)
	}

	stores.gateway.err = fmt.Errorf("upstream 503")
	if _, err := svc.CreateTransaction(ctx, payment.CheckoutParams{
		TransactionDetails: payment.TransactionDetails{OrderID: "ORDER-1-1", GrossAmount: 1000},
	}); !errors.Is(err, payments.ErrGateway) {
		t.Fatalf("gateway failure should map to ErrGateway, got %v", err)
	}
}

func TestHandleNotificationSettlement(t *testing.T) {
	svc, stores := newPaymentsServiceForTest()
	ctx := context.Background()

	_, record, err := svc.CreateOrder(ctx, 1, 50000)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	result, err := svc.HandleNotification(ctx, payments.Notification{
		OrderID:           record.OrderID,
		TransactionStatus: "settlement",
		Raw:               map[string]any{"transaction_status": "settlement"},
	})
	if err != nil {
		t.Fatalf("handle notification: %v", err)
	}
	if result.Outcome != payments.OutcomeSuccess {
		t.Fatalf("settlement should succeed, got %q", result.Outcome)
	}
	if result.Transaction.Status != "success" {
		t.Fatalf("stored status should be success, got %q", result.Transaction.Status)
	}
	if !stores.transactions.premiumGranted[1] {
		t.Fatalf("success transition must grant premium to the owner")
	}

	// redelivery of the same settlement
	result, err = svc.HandleNotification(ctx, payments.Notification{
		OrderID:           record.OrderID,
		TransactionStatus: "settlement",
	})
	if err != nil {
		t.Fatalf("handle redelivery: %v", err)
	}
	if result.Outcome != payments.OutcomeAlreadyProcessed {
		t.Fatalf("redelivery should report already processed, got %q", result.Outcome)
	}
	if stores.transactions.premiumGrants != 1 {
		t.Fatalf("premium must be granted exactly once, got %d grants", stores.transactions.premiumGrants)
	}
}

func TestHandleNotificationStatusMapping(t *testing.T) {
	cases := []struct {
		name              string
		transactionStatus string
		fraudStatus       string
		outcome           payments.Outcome
		stored            string
	}{
		{"capture accepted", "capture", "accept", payments.OutcomeSuccess, "success"},
		{"capture challenged", "capture", "challenge", payments.OutcomeIgnored, "pending"},
		{"cancel", "cancel", "", payments.OutcomeFailure, "failure"},
		{"deny", "deny", "", payments.OutcomeFailure, "failure"},
		{"expire", "expire", "", payments.OutcomeFailure, "failure"},
		{"pending reaffirmed", "pending", "", payments.OutcomePending, "pending"},
		{"unknown status", "refund", "", payments.OutcomeIgnored, "pending"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newPaymentsServiceForTest()
			ctx := context.Background()

			_, record, err := svc.CreateOrder(ctx, 1, 50000)
			if err != nil {
				t.Fatalf("create order: %v", err)
			}

			result, err := svc.HandleNotification(ctx, payments.Notification{
				OrderID:           record.OrderID,
				TransactionStatus: tc.transactionStatus,
				FraudStatus:       tc.fraudStatus,
			})
			if err != nil {
				t.Fatalf("handle notification: %v", err)
			}
			if result.Outcome != tc.outcome {
				t.Fatalf("expected outcome %q, got %q", tc.outcome, result.Outcome)
			}
			if result.Transaction.Status != tc.stored {
				t.Fatalf("expected stored status %q, got %q", tc.stored, result.Transaction.Status)
			}
		})
	}
}

func TestHandleNotificationUnknownOrder(t *testing.T) {
	svc, _ := newPaymentsServiceForTest()

	_, err := svc.HandleNotification(context.Background(), payments.Notification{
		OrderID:           "ORDER-99-1",
		TransactionStatus: "settlement",
	})
	if !errors.Is(err, payments.ErrNotFound) {
		t.Fatalf("unknown order should be not found, got %v", err)
	}
}

type paymentsStores struct {
	transactions *memTransactionStore
	gateway      *stubGateway
}

func newPaymentsServiceForTest() (*payments.Service, paymentsStores) {
	stores := paymentsStores{
		transactions: &memTransactionStore{premiumGranted: map[int64]bool{}},
		gateway:      &stubGateway{},
	}
	users := stubUserStore{known: map[int64]pgrepo.UserRecord{1: {ID: 1, Email: "one@example.com", FullName: "User One"}}}
	svc := payments.NewService(stores.transactions, users, stores.gateway, "IDR", 50000)
	return svc, stores
}

type stubUserStore struct {
	known map[int64]pgrepo.UserRecord
}

func (s stubUserStore) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	user, ok := s.known[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

type stubGateway struct {
	err error
}

func (g *stubGateway) CreateCheckout(_ context.Context, _ payment.CheckoutParams) (payment.CheckoutToken, error) {
	if g.err != nil {
		return payment.CheckoutToken{}, g.err
	}
	return payment.CheckoutToken{Token: "snap-token", RedirectURL: "https://pay.example.com/snap-token"}, nil
}

type memTransactionStore struct {
	nextID         int64
	records        []pgrepo.TransactionRecord
	premiumGranted map[int64]bool
	premiumGrants  int
}

func (s *memTransactionStore) CreatePending(_ context.Context, userID, amount int64, currency, provider string) (pgrepo.TransactionRecord, error) {
	s.nextID++
	record := pgrepo.TransactionRecord{
		ID:       s.nextID,
		UserID:   userID,
		Provider: provider,
		OrderID:  fmt.Sprintf("ORDER-%d-%d", s.nextID, 1700000000000+s.nextID),
		Amount:   amount,
		Currency: currency,
		Status:   "pending",
	}
	s.records = append(s.records, record)
	return record, nil
}

func (s *memTransactionStore) FindByOrderID(_ context.Context, orderID string) (pgrepo.TransactionRecord, error) {
	for _, record := range s.records {
		if record.OrderID == orderID {
			return record, nil
		}
	}
	return pgrepo.TransactionRecord{}, pgrepo.ErrTransactionNotFound
}

func (s *memTransactionStore) Resolve(_ context.Context, orderID, status string, payload map[string]any) (pgrepo.TransactionRecord, bool, error) {
	for i, record := range s.records {
		if record.OrderID != orderID {
			continue
		}
		if record.Status != "pending" {
			return record, false, nil
		}
		record.Status = status
		record.ResultPayload = payload
		s.records[i] = record
		if status == "success" {
			s.premiumGranted[record.UserID] = true
			s.premiumGrants++
		}
		return record, true, nil
	}
	return pgrepo.TransactionRecord{}, false, pgrepo.ErrTransactionNotFound
}
