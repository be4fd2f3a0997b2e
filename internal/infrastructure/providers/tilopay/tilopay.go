// Package tilopay implements the hosted-page provider variant: the
// server creates a payment URL, the client pays on Tilopay's page and
// Tilopay pushes a signed webhook on completion. There is no capture
// step, so ConfirmOrCapture only reports the state already known to
// the provider.
package tilopay

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"context"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
)

// SignatureHeader carries the hex HMAC-SHA256 of the webhook body.
const SignatureHeader = "X-Tilopay-Signature"

type Config struct {
	BaseURL       string
	APIKey        string
	APIUser       string
	Password      string
	WebhookSecret string
}

type Client struct {
	cfg  Config
	http *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func New(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Name() domain.Provider {
	return domain.ProviderTilopay
}

type loginRequest struct {
	APIUser  string `json:"apiuser"`
	Password string `json:"password"`
	Key      string `json:"key"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) login(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	var resp loginResponse
	if err := c.post(ctx, "/login", "", loginRequest{
		APIUser:  c.cfg.APIUser,
		Password: c.cfg.Password,
		Key:      c.cfg.APIKey,
	}, &resp); err != nil {
		return "", err
	}

	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", domain.ErrProviderUnavailable)
	}

	expires := resp.ExpiresIn
	if expires <= 60 {
		expires = 300
	}
	c.token = resp.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(expires-60) * time.Second)
	return c.token, nil
}

type processPaymentRequest struct {
	Redirect        string `json:"redirect"`
	Key             string `json:"key"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	OrderNumber     string `json:"orderNumber"`
	BillToFirstName string `json:"billToFirstName"`
	BillToEmail     string `json:"billToEmail"`
}

type processPaymentResponse struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func (c *Client) CreateIntent(ctx context.Context, req *domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	// Tilopay refuses hosted payments without billing contact details
	if req.Customer.Email == "" {
		return nil, fmt.Errorf("%w: customer email is required", domain.ErrInvalidRequest)
	}

	token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	var resp processPaymentResponse
	err = c.post(ctx, "/processPayment", token, processPaymentRequest{
		Redirect:        req.Redirect.SuccessURL,
		Key:             c.cfg.APIKey,
		Amount:          fmt.Sprintf("%.2f", req.Amount),
		Currency:        req.Currency,
		OrderNumber:     req.OrderID,
		BillToFirstName: req.Customer.Name,
		BillToEmail:     req.Customer.Email,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.URL == "" {
		return nil, fmt.Errorf("%w: no payment url returned", domain.ErrProviderRejected)
	}

	// Tilopay keys the payment by our order number; it doubles as the
	// provider reference for later status lookups.
	return &domain.PaymentIntent{
		ProviderRef: req.OrderID,
		HostedURL:   resp.URL,
	}, nil
}

type consultRequest struct {
	OrderNumber string `json:"orderNumber"`
}

type consultResponse struct {
	Code          string `json:"code"`
	Description   string `json:"description"`
	Auth          string `json:"auth"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`
}

// ConfirmOrCapture is the hosted-page no-op: it consults the payment and
// reports the outcome Tilopay already settled.
func (c *Client) ConfirmOrCapture(ctx context.Context, providerRef string) (*domain.CaptureResult, error) {
	token, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	var resp consultResponse
	if err := c.post(ctx, "/consult", token, consultRequest{OrderNumber: providerRef}, &resp); err != nil {
		return nil, err
	}

	result := &domain.CaptureResult{
		Status:        mapCode(resp.Code),
		PaymentID:     resp.TransactionID,
		TransactionID: resp.TransactionID,
		Currency:      resp.Currency,
		PaymentMethod: resp.PaymentMethod,
	}
	if v, err := strconv.ParseFloat(resp.Amount, 64); err == nil {
		result.Amount = v
	}
	return result, nil
}

func (c *Client) CheckStatus(ctx context.Context, providerRef string) (domain.PaymentResult, error) {
	result, err := c.ConfirmOrCapture(ctx, providerRef)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

func mapCode(code string) domain.PaymentResult {
	switch code {
	case "1":
		return domain.ResultSucceeded
	case "":
		return domain.ResultPending
	default:
		return domain.ResultFailed
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

type webhookPayload struct {
	OrderNumber   string `json:"orderNumber"`
	Code          string `json:"code"`
	Description   string `json:"description"`
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"paymentMethod"`
}

func (c *Client) ParseNotification(payload []byte) (*domain.Notification, error) {
	var event webhookPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if event.OrderNumber == "" {
		return nil, fmt.Errorf("%w: missing order number", domain.ErrInvalidRequest)
	}

	note := &domain.Notification{
		Provider:      domain.ProviderTilopay,
		OrderID:       event.OrderNumber,
		ProviderRef:   event.OrderNumber,
		PaymentID:     event.TransactionID,
		TransactionID: event.TransactionID,
		Status:        mapCode(event.Code),
		Currency:      event.Currency,
		PaymentMethod: event.PaymentMethod,
	}
	if v, err := strconv.ParseFloat(event.Amount, 64); err == nil {
		note.Amount = v
	}
	return note, nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

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
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrProviderRejected, strings.TrimSpace(string(respBody)))
	default:
		return fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, resp.Status)
	}
}
