package tilopay_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/providers/tilopay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *tilopay.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return tilopay.New(tilopay.Config{
		BaseURL:       server.URL,
		APIKey:        "key-1",
		APIUser:       "api-user",
		Password:      "secret",
		WebhookSecret: "whsec",
	})
}

func TestCreateIntent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "tok-1",
				"expires_in":   3600,
			})
		case "/processPayment":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "order-1", body["orderNumber"])
			assert.Equal(t, "25.00", body["amount"])
			json.NewEncoder(w).Encode(map[string]string{
				"type": "100",
				"url":  "https://pay.tilopay.test/abc",
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	intent, err := client.CreateIntent(context.Background(), &domain.CreateIntentRequest{
		OrderID:  "order-1",
		Amount:   25,
		Currency: "USD",
		Customer: domain.Customer{Name: "Ana", Email: "ana@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "order-1", intent.ProviderRef)
	assert.Equal(t, "https://pay.tilopay.test/abc", intent.HostedURL)
}

func TestCreateIntentRequiresEmail(t *testing.T) {
	client := tilopay.New(tilopay.Config{BaseURL: "http://unused"})

	_, err := client.CreateIntent(context.Background(), &domain.CreateIntentRequest{
		OrderID: "order-1",
		Amount:  25,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestConfirmOrCapture(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok-1", "expires_in": 3600})
		case "/consult":
			json.NewEncoder(w).Encode(map[string]string{
				"code":           "1",
				"transaction_id": "txn-9",
				"amount":         "25.00",
				"currency":       "USD",
				"payment_method": "card",
			})
		}
	})

	result, err := client.ConfirmOrCapture(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, domain.ResultSucceeded, result.Status)
	assert.Equal(t, "txn-9", result.TransactionID)
	assert.Equal(t, 25.0, result.Amount)
}

func TestConfirmOrCaptureDeclined(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok-1", "expires_in": 3600})
		case "/consult":
			json.NewEncoder(w).Encode(map[string]string{"code": "9", "description": "declined"})
		}
	})

	result, err := client.ConfirmOrCapture(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ResultFailed, result.Status)
}

func TestProviderDown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ConfirmOrCapture(context.Background(), "order-1")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyNotification(t *testing.T) {
	client := tilopay.New(tilopay.Config{WebhookSecret: "whsec"})
	payload := []byte(`{"orderNumber":"order-1","code":"1"}`)

	headers := http.Header{}
	headers.Set(tilopay.SignatureHeader, sign("whsec", payload))
	assert.True(t, client.VerifyNotification(payload, headers))

	// tampered body
	assert.False(t, client.VerifyNotification([]byte(`{"orderNumber":"order-2"}`), headers))

	// wrong secret
	headers.Set(tilopay.SignatureHeader, sign("other", payload))
	assert.False(t, client.VerifyNotification(payload, headers))

	// missing header
	assert.False(t, client.VerifyNotification(payload, http.Header{}))
}

func TestParseNotification(t *testing.T) {
	client := tilopay.New(tilopay.Config{})

	note, err := client.ParseNotification([]byte(`{
		"orderNumber": "order-1",
		"code": "1",
		"transactionId": "txn-5",
		"amount": "42.50",
		"currency": "USD",
		"paymentMethod": "card"
	}`))
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderTilopay, note.Provider)
	assert.Equal(t, "order-1", note.OrderID)
	assert.Equal(t, "txn-5", note.PaymentID)
	assert.Equal(t, domain.ResultSucceeded, note.Status)
	assert.Equal(t, 42.5, note.Amount)
}

func TestParseNotificationFailure(t *testing.T) {
	client := tilopay.New(tilopay.Config{})

	note, err := client.ParseNotification([]byte(`{"orderNumber":"order-1","code":"05"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.ResultFailed, note.Status)

	_, err = client.ParseNotification([]byte(`{"code":"1"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
