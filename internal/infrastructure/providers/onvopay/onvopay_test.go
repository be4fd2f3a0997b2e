package onvopay_test

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
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/providers/onvopay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *onvopay.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return onvopay.New(onvopay.Config{
		BaseURL:       server.URL,
		SecretKey:     "sk_test_1",
		WebhookSecret: "whsec",
	})
}

func TestCreateIntent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment-intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_1", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// amounts go over the wire in cents
		assert.Equal(t, float64(2550), body["amount"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "pi_1",
			"status": "requires_confirmation",
		})
	})

	intent, err := client.CreateIntent(context.Background(), &domain.CreateIntentRequest{
		OrderID:  "order-1",
		Amount:   25.50,
		Currency: "USD",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_1", intent.ProviderRef)
	assert.Empty(t, intent.HostedURL)
}

func TestCreateIntentRejectsZeroAmount(t *testing.T) {
	client := onvopay.New(onvopay.Config{BaseURL: "http://unused"})

	_, err := client.CreateIntent(context.Background(), &domain.CreateIntentRequest{OrderID: "order-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestConfirmOrCapture(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment-intents/pi_1/confirm", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "pi_1",
			"status":   "succeeded",
			"amount":   2550,
			"currency": "USD",
			"charges":  []map[string]string{{"id": "ch_1", "status": "succeeded"}},
		})
	})

	result, err := client.ConfirmOrCapture(context.Background(), "pi_1")
	require.NoError(t, err)

	assert.Equal(t, domain.ResultSucceeded, result.Status)
	assert.Equal(t, "pi_1", result.PaymentID)
	assert.Equal(t, "ch_1", result.TransactionID)
	assert.Equal(t, 25.50, result.Amount)
}

func TestConfirmOrCaptureAlreadySettled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":"already_succeeded"}}`))
		default:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":       "pi_1",
				"status":   "succeeded",
				"amount":   2550,
				"currency": "USD",
			})
		}
	})

	// confirming twice reports the prior success instead of failing
	result, err := client.ConfirmOrCapture(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.ResultSucceeded, result.Status)
}

func TestConfirmOrCaptureDeclined(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"code":"card_declined"}}`))
	})

	_, err := client.ConfirmOrCapture(context.Background(), "pi_1")
	assert.ErrorIs(t, err, domain.ErrProviderRejected)
}

func TestCheckStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment-intents/pi_1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "pi_1", "status": "processing"})
	})

	result, err := client.CheckStatus(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.ResultPending, result)
}

func TestVerifyNotification(t *testing.T) {
	client := onvopay.New(onvopay.Config{WebhookSecret: "whsec"})
	payload := []byte(`{"type":"payment_intent.succeeded"}`)

	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	headers := http.Header{}
	headers.Set(onvopay.SignatureHeader, signature)
	assert.True(t, client.VerifyNotification(payload, headers))
	assert.False(t, client.VerifyNotification([]byte(`{}`), headers))
	assert.False(t, client.VerifyNotification(payload, http.Header{}))
}

func TestParseNotification(t *testing.T) {
	client := onvopay.New(onvopay.Config{})

	note, err := client.ParseNotification([]byte(`{
		"type": "payment_intent.succeeded",
		"data": {
			"id": "pi_1",
			"status": "succeeded",
			"amount": 2550,
			"currency": "USD",
			"metadata": {"orderId": "order-1"},
			"charges": [{"id": "ch_1", "status": "succeeded"}]
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "order-1", note.OrderID)
	assert.Equal(t, "pi_1", note.PaymentID)
	assert.Equal(t, domain.ResultSucceeded, note.Status)
	assert.Equal(t, 25.50, note.Amount)
	assert.Equal(t, "ch_1", note.TransactionID)
}

func TestParseNotificationIgnoresOtherEvents(t *testing.T) {
	client := onvopay.New(onvopay.Config{})

	note, err := client.ParseNotification([]byte(`{"type":"payment_intent.created","data":{"id":"pi_1"}}`))
	require.NoError(t, err)
	assert.Nil(t, note)
}
