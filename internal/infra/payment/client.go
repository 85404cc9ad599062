package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a Snap-style checkout gateway. The server key is
// passed as HTTP basic auth with an empty password, per the gateway's
// authentication scheme.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serverKey  string
}

type Config struct {
	BaseURL   string
	ServerKey string
	Timeout   time.Duration
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type CheckoutParams struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
}

type CheckoutToken struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("payment base url is required")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serverKey:  cfg.ServerKey,
	}, nil
}

func (c *Client) CreateCheckout(ctx context.Context, params CheckoutParams) (CheckoutToken, error) {
	if params.TransactionDetails.OrderID == "" || params.TransactionDetails.GrossAmount <= 0 {
		return CheckoutToken{}, fmt.Errorf("invalid checkout params")
	}

	body, err := json.Marshal(params)
	if err != nil {
		return CheckoutToken{}, fmt.Errorf("marshal checkout params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return CheckoutToken{}, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CheckoutToken{}, fmt.Errorf("call payment gateway: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return CheckoutToken{}, fmt.Errorf("payment gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var token CheckoutToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return CheckoutToken{}, fmt.Errorf("decode checkout token: %w", err)
	}
	if token.Token == "" {
		return CheckoutToken{}, fmt.Errorf("payment gateway returned empty token")
	}

	return token, nil
}
