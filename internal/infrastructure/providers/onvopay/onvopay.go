// Package onvopay implements the direct-charge provider variant on top
// of Onvopay's payment-intent API: the client attaches a tokenized
// payment method and the server confirms the intent synchronously.
package onvopay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
)

const SignatureHeader = "X-Onvopay-Signature"

type Config struct {
	BaseURL       string
	SecretKey     string
	WebhookSecret string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Name() domain.Provider {
	return domain.ProviderOnvopay
}

type intentRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type charge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type intentResponse struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
	Charges  []charge          `json:"charges"`
}

func (c *Client) CreateIntent(ctx context.Context, req *domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount", domain.ErrInvalidRequest)
	}

	var resp intentResponse
	err := c.do(ctx, http.MethodPost, "/payment-intents", intentRequest{
		Amount:   toCents(req.Amount),
		Currency: req.Currency,
		Metadata: map[string]string{"orderId": req.OrderID},
	}, &resp)
	if err != nil {
		return nil, err
	}

	// direct charge: the client confirms with the publishable key, no
	// hosted page exists
	return &domain.PaymentIntent{ProviderRef: resp.ID}, nil
}

func (c *Client) ConfirmOrCapture(ctx context.Context, providerRef string) (*domain.CaptureResult, error) {
	var resp intentResponse
	err := c.do(ctx, http.MethodPost, "/payment-intents/"+providerRef+"/confirm", struct{}{}, &resp)
	if err != nil {
		// confirming a settled intent reports the prior outcome
		if strings.Contains(err.Error(), "already_succeeded") {
			return c.retrieveResult(ctx, providerRef)
		}
		return nil, err
	}

	return resultFromIntent(&resp), nil
}

func (c *Client) retrieveResult(ctx context.Context, providerRef string) (*domain.CaptureResult, error) {
	var resp intentResponse
	if err := c.do(ctx, http.MethodGet, "/payment-intents/"+providerRef, nil, &resp); err != nil {
		return nil, err
	}
	return resultFromIntent(&resp), nil
}

func resultFromIntent(intent *intentResponse) *domain.CaptureResult {
	result := &domain.CaptureResult{
		Status:        mapStatus(intent.Status),
		PaymentID:     intent.ID,
		Amount:        fromCents(intent.Amount),
		Currency:      intent.Currency,
		PaymentMethod: "card",
	}
	if len(intent.Charges) > 0 {
		result.TransactionID = intent.Charges[0].ID
	}
	return result
}

func (c *Client) CheckStatus(ctx context.Context, providerRef string) (domain.PaymentResult, error) {
	var resp intentResponse
	if err := c.do(ctx, http.MethodGet, "/payment-intents/"+providerRef, nil, &resp); err != nil {
		return "", err
	}
	return mapStatus(resp.Status), nil
}

func mapStatus(status string) domain.PaymentResult {
	switch status {
	case "succeeded":
		return domain.ResultSucceeded
	case "canceled", "failed":
		return domain.ResultFailed
	default:
		// requires_payment_method, requires_confirmation, processing
		return domain.ResultPending
	}
}

func (c *Client) VerifyNotification(payload []byte, headers http.Header) bool {
	signature := strings.TrimSpace(headers.Get(SignatureHeader))
	if signature == "" || c.cfg.WebhookSecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.cfg.WebhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

type webhookEvent struct {
	Type string         `json:"type"`
	Data intentResponse `json:"data"`
}

func (c *Client) ParseNotification(payload []byte) (*domain.Notification, error) {
	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	var status domain.PaymentResult
	switch event.Type {
	case "payment_intent.succeeded":
		status = domain.ResultSucceeded
	case "payment_intent.payment_failed", "payment_intent.canceled":
		status = domain.ResultFailed
	default:
		return nil, nil
	}

	note := &domain.Notification{
		Provider:      domain.ProviderOnvopay,
		OrderID:       event.Data.Metadata["orderId"],
		ProviderRef:   event.Data.ID,
		PaymentID:     event.Data.ID,
		Status:        status,
		Amount:        fromCents(event.Data.Amount),
		Currency:      event.Data.Currency,
		PaymentMethod: "card",
	}
	if len(event.Data.Charges) > 0 {
		note.TransactionID = event.Data.Charges[0].ID
	}
	return note, nil
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out != nil && len(respBody) > 0 {
			return json.Unmarshal(respBody, out)
		}
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, strings.TrimSpace(string(respBody)))
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrProviderRejected, strings.TrimSpace(string(respBody)))
	default:
		return fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, resp.Status)
	}
}
