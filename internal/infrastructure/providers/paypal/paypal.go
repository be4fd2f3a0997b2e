// Package paypal implements the redirect-and-capture provider variant:
// the client approves the payment on PayPal's site and returns with an
// order reference the server must capture.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
)

type Config struct {
	BaseURL   string
	ClientID  string
	Secret    string
	WebhookID string
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
	return domain.ProviderPayPal
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned %s", domain.ErrProviderUnavailable, resp.Status)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	c.token = tok.AccessToken
	// refresh one minute before the advertised expiry
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.token, nil
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount amount `json:"amount"`
}

type unitPayments struct {
	Captures []capture `json:"captures"`
}

type purchaseUnit struct {
	ReferenceID string        `json:"reference_id,omitempty"`
	CustomID    string        `json:"custom_id,omitempty"`
	Amount      amount        `json:"amount"`
	Payments    *unitPayments `json:"payments,omitempty"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Links         []link         `json:"links"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type applicationContext struct {
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

type createOrderRequest struct {
	Intent             string              `json:"intent"`
	PurchaseUnits      []purchaseUnit      `json:"purchase_units"`
	ApplicationContext *applicationContext `json:"application_context,omitempty"`
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Details []struct {
		Issue string `json:"issue"`
	} `json:"details"`
}

func (e *apiError) issue() string {
	if len(e.Details) > 0 {
		return e.Details[0].Issue
	}
	return e.Name
}

func (c *Client) CreateIntent(ctx context.Context, req *domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			ReferenceID: req.OrderID,
			CustomID:    req.OrderID,
			Amount: amount{
				CurrencyCode: req.Currency,
				Value:        fmt.Sprintf("%.2f", req.Amount),
			},
		}},
	}
	if req.Redirect.SuccessURL != "" || req.Redirect.CancelURL != "" {
		body.ApplicationContext = &applicationContext{
			ReturnURL: req.Redirect.SuccessURL,
			CancelURL: req.Redirect.CancelURL,
		}
	}

	var created orderResponse
	if err := c.post(ctx, "/v2/checkout/orders", body, &created); err != nil {
		return nil, err
	}

	intent := &domain.PaymentIntent{ProviderRef: created.ID}
	for _, l := range created.Links {
		if l.Rel == "approve" {
			intent.HostedURL = l.Href
		}
	}
	return intent, nil
}

func (c *Client) ConfirmOrCapture(ctx context.Context, providerRef string) (*domain.CaptureResult, error) {
	var captured orderResponse
	err := c.post(ctx, "/v2/checkout/orders/"+providerRef+"/capture", struct{}{}, &captured)
	if err != nil {
		// a redelivered capture is reported as the prior success
		if strings.Contains(err.Error(), "ORDER_ALREADY_CAPTURED") {
			return c.fetchCaptureResult(ctx, providerRef)
		}
		return nil, err
	}

	return captureResultFromOrder(&captured), nil
}

func (c *Client) fetchCaptureResult(ctx context.Context, providerRef string) (*domain.CaptureResult, error) {
	var order orderResponse
	if err := c.get(ctx, "/v2/checkout/orders/"+providerRef, &order); err != nil {
		return nil, err
	}
	return captureResultFromOrder(&order), nil
}

func captureResultFromOrder(order *orderResponse) *domain.CaptureResult {
	result := &domain.CaptureResult{
		Status:        mapOrderStatus(order.Status),
		PaymentMethod: "paypal",
	}
	for _, unit := range order.PurchaseUnits {
		if unit.Payments == nil || len(unit.Payments.Captures) == 0 {
			continue
		}
		cap := unit.Payments.Captures[0]
		result.PaymentID = cap.ID
		result.TransactionID = cap.ID
		result.Currency = cap.Amount.CurrencyCode
		if v, err := strconv.ParseFloat(cap.Amount.Value, 64); err == nil {
			result.Amount = v
		}
		if cap.Status == "COMPLETED" {
			result.Status = domain.ResultSucceeded
		} else if cap.Status == "DECLINED" || cap.Status == "FAILED" {
			result.Status = domain.ResultFailed
		}
	}
	return result
}

func (c *Client) CheckStatus(ctx context.Context, providerRef string) (domain.PaymentResult, error) {
	var order orderResponse
	if err := c.get(ctx, "/v2/checkout/orders/"+providerRef, &order); err != nil {
		return "", err
	}
	return mapOrderStatus(order.Status), nil
}

func mapOrderStatus(status string) domain.PaymentResult {
	switch status {
	case "COMPLETED":
		return domain.ResultSucceeded
	case "VOIDED", "DECLINED":
		return domain.ResultFailed
	default:
		// CREATED, SAVED, APPROVED, PAYER_ACTION_REQUIRED
		return domain.ResultPending
	}
}

type verifyRequest struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifyResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerifyNotification asks PayPal's verification endpoint whether the
// transmission headers match the payload. Anything short of an explicit
// SUCCESS is treated as unauthentic.
func (c *Client) VerifyNotification(payload []byte, headers http.Header) bool {
	transmissionID := headers.Get("Paypal-Transmission-Id")
	transmissionSig := headers.Get("Paypal-Transmission-Sig")
	transmissionTime := headers.Get("Paypal-Transmission-Time")
	if transmissionID == "" || transmissionSig == "" || transmissionTime == "" {
		return false
	}

	body := verifyRequest{
		AuthAlgo:         headers.Get("Paypal-Auth-Algo"),
		CertURL:          headers.Get("Paypal-Cert-Url"),
		TransmissionID:   transmissionID,
		TransmissionSig:  transmissionSig,
		TransmissionTime: transmissionTime,
		WebhookID:        c.cfg.WebhookID,
		WebhookEvent:     json.RawMessage(payload),
	}

	var verdict verifyResponse
	if err := c.post(context.Background(), "/v1/notifications/verify-webhook-signature", body, &verdict); err != nil {
		return false
	}
	return verdict.VerificationStatus == "SUCCESS"
}

type webhookResource struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	CustomID          string `json:"custom_id"`
	Amount            amount `json:"amount"`
	SupplementaryData struct {
		RelatedIDs struct {
			OrderID string `json:"order_id"`
		} `json:"related_ids"`
	} `json:"supplementary_data"`
}

type webhookEvent struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Resource  webhookResource `json:"resource"`
}

func (c *Client) ParseNotification(payload []byte) (*domain.Notification, error) {
	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	var status domain.PaymentResult
	switch event.EventType {
	case "PAYMENT.CAPTURE.COMPLETED":
		status = domain.ResultSucceeded
	case "PAYMENT.CAPTURE.DENIED", "PAYMENT.CAPTURE.DECLINED":
		status = domain.ResultFailed
	default:
		// approval and intermediate events carry no settlement outcome
		return nil, nil
	}

	note := &domain.Notification{
		Provider:      domain.ProviderPayPal,
		OrderID:       event.Resource.CustomID,
		ProviderRef:   event.Resource.SupplementaryData.RelatedIDs.OrderID,
		PaymentID:     event.Resource.ID,
		TransactionID: event.Resource.ID,
		Status:        status,
		Currency:      event.Resource.Amount.CurrencyCode,
		PaymentMethod: "paypal",
	}
	if v, err := strconv.ParseFloat(event.Resource.Amount.Value, 64); err == nil {
		note.Amount = v
	}
	return note, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
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

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(respBody) > 0 {
			return json.Unmarshal(respBody, out)
		}
		return nil
	}

	var apiErr apiError
	_ = json.Unmarshal(respBody, &apiErr)

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrProviderRejected, apiErr.issue())
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, apiErr.issue())
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, resp.Status)
	default:
		return fmt.Errorf("%w: %s %s", domain.ErrProviderUnavailable, resp.Status, apiErr.issue())
	}
}
