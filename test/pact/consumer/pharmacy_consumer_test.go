//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/quickmeds/pharmacy-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"orderNumber"`
	UserID      string  `json:"userId"`
	Status      string  `json:"status"`
	Total       float64 `json:"total"`
}

type trackingPayload struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	Events      []struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"events"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestPharmacyPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	statusMatcher := matchers.Term("pending", "pending|confirmed|processing|packed|shipped|out_for_delivery|delivered|cancelled")
	orderBodyMatcher := matchers.Map{
		"id":          matchers.Like("f6b6a1c2-0000-0000-0000-000000000000"),
		"orderNumber": matchers.Regex(pacttest.ExistingOrderNumber, `RX-\d{8}-[0-9A-F]{8}`),
		"userId":      matchers.Like(pacttest.ExampleUserID),
		"status":      statusMatcher,
		"total":       matchers.Like(256.5),
	}
	trackingBodyMatcher := matchers.Map{
		"orderNumber": matchers.Regex(pacttest.ExistingOrderNumber, `RX-\d{8}-[0-9A-F]{8}`),
		"status":      statusMatcher,
		"events": matchers.ArrayMinLike(matchers.Map{
			"status":  statusMatcher,
			"message": matchers.Like("Order Confirmed"),
		}, 1),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request to place a cash-on-delivery order").
		WithRequest("POST", "/v2/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleCreateOrderPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to track an existing order").
		WithRequest("GET", "/v2/track/"+pacttest.ExistingOrderNumber).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(trackingBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request to track a missing order").
		WithRequest("GET", "/v2/track/"+pacttest.MissingOrderNumber).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateOrder(ctx, pacttest.ExampleCreateOrderPayload())
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created == nil || created.OrderNumber == "" {
			return fmt.Errorf("expected created order number to be set")
		}

		tracked, err := client.TrackOrder(ctx, pacttest.ExistingOrderNumber)
		if err != nil {
			return fmt.Errorf("track order: %w", err)
		}
		if tracked == nil || tracked.OrderNumber != pacttest.ExistingOrderNumber {
			return fmt.Errorf("expected order number %s, got %+v", pacttest.ExistingOrderNumber, tracked)
		}
		if len(tracked.Events) == 0 {
			return fmt.Errorf("expected at least one tracking event")
		}

		if _, err := client.TrackOrder(ctx, pacttest.MissingOrderNumber); err == nil {
			return fmt.Errorf("expected 404 for order %s", pacttest.MissingOrderNumber)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *orderClient) CreateOrder(ctx context.Context, payload map[string]any) (*orderPayload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var order orderPayload
	if err := json.NewDecoder(res.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *orderClient) TrackOrder(ctx context.Context, number string) (*trackingPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/track/"+number, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var tracking trackingPayload
	if err := json.NewDecoder(res.Body).Decode(&tracking); err != nil {
		return nil, err
	}
	return &tracking, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
