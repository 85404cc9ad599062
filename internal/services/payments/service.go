package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harryrismananda/lingohub/backend/internal/domain/enums"
	"github.com/harryrismananda/lingohub/backend/internal/infra/payment"
	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrGateway    = errors.New("payment gateway error")
)

type TransactionStore interface {
	CreatePending(ctx context.Context, userID, amount int64, currency, provider string) (pgrepo.TransactionRecord, error)
	FindByOrderID(ctx context.Context, orderID string) (pgrepo.TransactionRecord, error)
	Resolve(ctx context.Context, orderID, status string, payload map[string]any) (pgrepo.TransactionRecord, bool, error)
}

type UserStore interface {
	FindByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

type GatewayClient interface {
	CreateCheckout(ctx context.Context, params payment.CheckoutParams) (payment.CheckoutToken, error)
}

type Service struct {
	transactions TransactionStore
	users        UserStore
	gateway      GatewayClient
	currency     string
	premiumPrice int64
}

// Notification is the provider webhook payload, already decoded. Raw
// carries the full body for the transaction audit column.
type Notification struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	Raw               map[string]any
}

// Outcome tells the webhook handler what the reconciliation did.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeFailure          Outcome = "failure"
	OutcomePending          Outcome = "pending"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeAlreadyProcessed Outcome = "already_processed"
)

type NotificationResult struct {
	Outcome     Outcome
	Transaction pgrepo.TransactionRecord
}

func NewService(transactions TransactionStore, users UserStore, gateway GatewayClient, currency string, premiumPrice int64) *Service {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "IDR"
	}
	if premiumPrice <= 0 {
		premiumPrice = 50000
	}

	return &Service{
		transactions: transactions,
		users:        users,
		gateway:      gateway,
		currency:     currency,
		premiumPrice: premiumPrice,
	}
}

// CreateOrder opens a pending transaction for the user and returns the
// provider-shaped checkout parameters. A zero amount buys the premium
// upgrade at the configured price.
func (s *Service) CreateOrder(ctx context.Context, userID, amount int64) (payment.CheckoutParams, pgrepo.TransactionRecord, error) {
	if userID <= 0 {
		return payment.CheckoutParams{}, pgrepo.TransactionRecord{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if amount < 0 {
		return payment.CheckoutParams{}, pgrepo.TransactionRecord{}, fmt.Errorf("invalid amount: %w", ErrValidation)
	}
	if amount == 0 {
		amount = s.premiumPrice
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return payment.CheckoutParams{}, pgrepo.TransactionRecord{}, ErrNotFound
		}
		return payment.CheckoutParams{}, pgrepo.TransactionRecord{}, fmt.Errorf("find order user: %w", err)
	}

	record, err := s.transactions.CreatePending(ctx, userID, amount, s.currency, "midtrans")
	if err != nil {
		return payment.CheckoutParams{}, pgrepo.TransactionRecord{}, fmt.Errorf("create pending transaction: %w", err)
	}

	params := payment.CheckoutParams{
		TransactionDetails: payment.TransactionDetails{
			OrderID:     record.OrderID,
			GrossAmount: record.Amount,
		},
		CustomerDetails: payment.CustomerDetails{
			FirstName: user.FullName,
			Email:     user.Email,
		},
	}
	return params, record, nil
}

// CreateTransaction forwards checkout parameters to the gateway and
// returns the hosted-checkout token.
func (s *Service) CreateTransaction(ctx context.Context, params payment.CheckoutParams) (payment.CheckoutToken, error) {
	if s.gateway == nil {
		return payment.CheckoutToken{}, ErrGateway
	}
	if strings.TrimSpace(params.TransactionDetails.OrderID) == "" {
		return payment.CheckoutToken{}, fmt.Errorf("order_id is required: %w", ErrValidation)
	}
	if params.TransactionDetails.GrossAmount <= 0 {
		return payment.CheckoutToken{}, fmt.Errorf("gross_amount is required: %w", ErrValidation)
	}

	token, err := s.gateway.CreateCheckout(ctx, params)
	if err != nil {
		return payment.CheckoutToken{}, fmt.Errorf("create checkout: %w", ErrGateway)
	}
	return token, nil
}

// HandleNotification reconciles a provider webhook delivery against the
// stored transaction. The status transition is compare-and-swap out of
// pending, so duplicate deliveries are safe.
func (s *Service) HandleNotification(ctx context.Context, n Notification) (NotificationResult, error) {
	orderID := strings.TrimSpace(n.OrderID)
	if orderID == "" {
		return NotificationResult{}, fmt.Errorf("order_id is required: %w", ErrValidation)
	}

	target, ok := mapProviderStatus(n.TransactionStatus, n.FraudStatus)
	if !ok {
		record, err := s.transactions.FindByOrderID(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrTransactionNotFound) {
				return NotificationResult{}, ErrNotFound
			}
			return NotificationResult{}, fmt.Errorf("find transaction: %w", err)
		}
		return NotificationResult{Outcome: OutcomeIgnored, Transaction: record}, nil
	}

	if target == enums.TransactionStatusPending {
		record, err := s.transactions.FindByOrderID(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrTransactionNotFound) {
				return NotificationResult{}, ErrNotFound
			}
			return NotificationResult{}, fmt.Errorf("find transaction: %w", err)
		}
		return NotificationResult{Outcome: OutcomePending, Transaction: record}, nil
	}

	record, changed, err := s.transactions.Resolve(ctx, orderID, string(target), n.Raw)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTransactionNotFound) {
			return NotificationResult{}, ErrNotFound
		}
		return NotificationResult{}, fmt.Errorf("resolve transaction: %w", err)
	}
	if !changed {
		return NotificationResult{Outcome: OutcomeAlreadyProcessed, Transaction: record}, nil
	}

	outcome := OutcomeFailure
	if target == enums.TransactionStatusSuccess {
		outcome = OutcomeSuccess
	}
	return NotificationResult{Outcome: outcome, Transaction: record}, nil
}

func (s *Service) GetByOrderID(ctx context.Context, orderID string) (pgrepo.TransactionRecord, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return pgrepo.TransactionRecord{}, fmt.Errorf("order_id is required: %w", ErrValidation)
	}

	record, err := s.transactions.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTransactionNotFound) {
			return pgrepo.TransactionRecord{}, ErrNotFound
		}
		return pgrepo.TransactionRecord{}, fmt.Errorf("find transaction: %w", err)
	}
	return record, nil
}

// mapProviderStatus folds the provider's transaction_status plus
// fraud_status pair into the internal terminal status. The second
// return is false when the pair is unknown and nothing should move.
func mapProviderStatus(transactionStatus, fraudStatus string) (enums.TransactionStatus, bool) {
	transactionStatus = strings.ToLower(strings.TrimSpace(transactionStatus))
	fraudStatus = strings.ToLower(strings.TrimSpace(fraudStatus))

	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return enums.TransactionStatusSuccess, true
		}
		return "", false
	case "settlement":
		return enums.TransactionStatusSuccess, true
	case "cancel", "deny", "expire":
		return enums.TransactionStatusFailure, true
	case "pending":
		return enums.TransactionStatusPending, true
	default:
		return "", false
	}
}
