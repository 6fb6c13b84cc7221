package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quickmeds/pharmacy-api/internal/domains/payments"
)

func TestCreateGatewayOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, 25650.0, payload["amount"])
		require.Equal(t, "INR", payload["currency"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "gw_test_order"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	id, err := client.CreateGatewayOrder(context.Background(), 256.5, "")
	require.NoError(t, err)
	require.Equal(t, "gw_test_order", id)
}

func TestCreateGatewayOrder_ServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.CreateGatewayOrder(context.Background(), 100, "INR")
	require.ErrorIs(t, err, payments.ErrGatewayUnavailable)
}

func TestCreateGatewayOrder_RejectionCarriesDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "BAD_REQUEST", "description": "amount exceeds limit"},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.CreateGatewayOrder(context.Background(), 100, "INR")
	require.Error(t, err)
	require.Contains(t, err.Error(), "amount exceeds limit")
}

func TestCreateGatewayOrder_InvalidInputs(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)

	client, err := NewClient("http://gateway.local", nil)
	require.NoError(t, err)
	_, err = client.CreateGatewayOrder(context.Background(), 0, "INR")
	require.Error(t, err)
}
