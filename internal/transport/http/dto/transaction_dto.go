package dto

type CreateOrderRequest struct {
	Amount int64 `json:"amount"`
}

type TransactionDetailsPayload struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetailsPayload struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type CreateOrderResponse struct {
	TransactionDetails TransactionDetailsPayload `json:"transaction_details"`
	CustomerDetails    CustomerDetailsPayload    `json:"customer_details"`
	Status             string                    `json:"status"`
}

type CreateTransactionRequest struct {
	TransactionDetails TransactionDetailsPayload `json:"transaction_details"`
	CustomerDetails    CustomerDetailsPayload    `json:"customer_details"`
}

type CreateTransactionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type NotificationAck struct {
	OK      bool   `json:"ok"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

type TransactionResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}
