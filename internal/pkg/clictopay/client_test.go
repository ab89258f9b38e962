package clictopay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL,
		MerchantID: "merchant-1",
		APIKey:     "test-key",
		ReturnURL:  "https://formatech.tn/payment/callback",
		Timeout:    2 * time.Second,
	})
}

func TestInitiatePayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments/initiate", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body initiateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "TND", body.Currency)
		assert.Equal(t, "merchant-1", body.MerchantID)
		assert.Equal(t, 250.0, body.Amount)

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})

	token, err := client.InitiatePayment(context.Background(), 250.0, "Course enrollment", "PT-1700000000000")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestInitiatePaymentMissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.InitiatePayment(context.Background(), 100.0, "desc", "PT-1")
	assert.Error(t, err)
}

func TestInitiatePaymentGatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "merchant suspended", http.StatusForbidden)
	})

	_, err := client.InitiatePayment(context.Background(), 100.0, "desc", "PT-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestVerifyPayment(t *testing.T) {
	tests := []struct {
		gatewayStatus string
		want          Status
	}{
		{"completed", StatusCompleted},
		{"COMPLETED", StatusCompleted},
		{"pending", StatusPending},
		{"failed", StatusFailed},
		{"something-else", StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.gatewayStatus, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/payments/verify/tok-123", r.URL.Path)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": tt.gatewayStatus})
			})

			status, err := client.VerifyPayment(context.Background(), "tok-123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestRefundPayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/refund", r.URL.Path)

		var body refundRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PT-1700000000000", body.TransactionReference)
		assert.Equal(t, 250.0, body.Amount)

		w.WriteHeader(http.StatusOK)
	})

	err := client.RefundPayment(context.Background(), "PT-1700000000000", 250.0)
	assert.NoError(t, err)
}

func TestNewTransactionReference(t *testing.T) {
	ref := NewTransactionReference(time.UnixMilli(1700000000000))
	assert.Equal(t, "PT-1700000000000", ref)
}
