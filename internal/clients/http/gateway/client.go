// Package gateway implements the payments.Gateway port against a remote
// payment gateway's HTTP API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quickmeds/pharmacy-api/internal/domains/payments"
)

var _ payments.Gateway = (*Client)(nil)

// Client calls the payment gateway's order creation endpoint. Amounts are sent
// in the smallest currency unit, matching the usual gateway convention.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the gateway client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gateway base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateGatewayOrder registers the amount with the gateway ahead of client
// checkout and returns the gateway order identifier.
func (c *Client) CreateGatewayOrder(ctx context.Context, amount float64, currency string) (string, error) {
	if c == nil || c.httpClient == nil {
		return "", errors.New("gateway client not configured")
	}
	if amount <= 0 {
		return "", fmt.Errorf("gateway order amount must be positive, got %.2f %s", amount, currency)
	}
	if currency == "" {
		currency = "INR"
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   int64(amount * 100),
		Currency: currency,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", payments.ErrGatewayUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK, res.StatusCode == http.StatusCreated:
		var payload createOrderResponse
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			return "", fmt.Errorf("decode gateway response: %w", err)
		}
		if payload.ID == "" {
			return "", errors.New("gateway returned an empty order id")
		}
		return payload.ID, nil
	case res.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("%w: gateway returned %s", payments.ErrGatewayUnavailable, res.Status)
	default:
		return "", fmt.Errorf("gateway order rejected: %s", errorMessage(res))
	}
}

func errorMessage(res *http.Response) string {
	var payload gatewayError
	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil {
		if msg := strings.TrimSpace(payload.Error.Description); msg != "" {
			return msg
		}
		if code := strings.TrimSpace(payload.Error.Code); code != "" {
			return code
		}
	}
	return res.Status
}
