package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quangtd/vidxu/internal/config"
	"github.com/quangtd/vidxu/pkg/clients"
)

// ErrCheckout wraps every failure to open a checkout session, transport and
// gateway rejections alike.
var ErrCheckout = errors.New("gateway checkout failed")

// Client talks to the payment gateway's checkout API. Calls run on the
// shared HTTP client with its own timeout and never inside a database
// transaction.
type Client struct {
	url    string
	apiKey string
	client clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		url:    cfg.GatewayAddress,
		apiKey: cfg.GatewayAPIKey,
		client: client,
	}
}

type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type checkoutRequest struct {
	OrderCode   string     `json:"orderCode"`
	Amount      string     `json:"amount"`
	Description string     `json:"description"`
	Items       []LineItem `json:"items"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	Message     string `json:"message"`
}

// CreateCheckout opens a checkout session for the given order code and
// returns the URL the user is redirected to.
func (c *Client) CreateCheckout(ctx context.Context, orderCode string, amount decimal.Decimal, description string) (string, error) {
	body, err := json.Marshal(checkoutRequest{
		OrderCode:   orderCode,
		Amount:      amount.StringFixed(2),
		Description: description,
		Items: []LineItem{
			{Name: description, Quantity: 1, Price: amount.StringFixed(2)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode checkout request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.apiKey)

	statusCode, respBody, _, err := c.client.Post(c.url+"/v2/payment-requests", headers, body)
	if err != nil {
		zap.L().Error("gateway checkout call failed", zap.String("orderCode", orderCode), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrCheckout, err)
	}
	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		zap.L().Error("gateway rejected checkout", zap.String("orderCode", orderCode), zap.Int("status", statusCode))
		return "", fmt.Errorf("%w: status %d", ErrCheckout, statusCode)
	}

	var resp checkoutResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: unparsable response: %v", ErrCheckout, err)
	}
	if resp.CheckoutURL == "" {
		return "", fmt.Errorf("%w: no checkout url: %s", ErrCheckout, resp.Message)
	}
	return resp.CheckoutURL, nil
}
