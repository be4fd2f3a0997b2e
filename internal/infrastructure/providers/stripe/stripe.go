// Package stripe adapts Stripe's payment-intent API as a second
// direct-charge variant. The official SDK handles both the API calls
// and the webhook signature scheme.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	stripego "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
}

type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	stripego.Key = cfg.SecretKey
	return &Client{cfg: cfg}
}

func (c *Client) Name() domain.Provider {
	return domain.ProviderStripe
}

func (c *Client) CreateIntent(ctx context.Context, req *domain.CreateIntentRequest) (*domain.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(int64(math.Round(req.Amount * 100))),
		Currency: stripego.String(strings.ToLower(req.Currency)),
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	if req.Customer.Email != "" {
		params.ReceiptEmail = stripego.String(req.Customer.Email)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, translateErr(err)
	}

	// the client confirms with the publishable key; no hosted page
	return &domain.PaymentIntent{ProviderRef: pi.ID}, nil
}

func (c *Client) ConfirmOrCapture(ctx context.Context, providerRef string) (*domain.CaptureResult, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(providerRef, params)
	if err != nil {
		return nil, translateErr(err)
	}

	return resultFromIntent(pi), nil
}

func (c *Client) CheckStatus(ctx context.Context, providerRef string) (domain.PaymentResult, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(providerRef, params)
	if err != nil {
		return "", translateErr(err)
	}
	return mapStatus(pi.Status), nil
}

func resultFromIntent(pi *stripego.PaymentIntent) *domain.CaptureResult {
	result := &domain.CaptureResult{
		Status:        mapStatus(pi.Status),
		PaymentID:     pi.ID,
		Amount:        float64(pi.Amount) / 100,
		Currency:      strings.ToUpper(string(pi.Currency)),
		PaymentMethod: "card",
	}
	if pi.LatestCharge != nil {
		result.TransactionID = pi.LatestCharge.ID
	}
	return result
}

func mapStatus(status stripego.PaymentIntentStatus) domain.PaymentResult {
	switch status {
	case stripego.PaymentIntentStatusSucceeded:
		return domain.ResultSucceeded
	case stripego.PaymentIntentStatusCanceled:
		return domain.ResultFailed
	default:
		return domain.ResultPending
	}
}

func (c *Client) VerifyNotification(payload []byte, headers http.Header) bool {
	signature := headers.Get("Stripe-Signature")
	if signature == "" {
		return false
	}
	_, err := webhook.ConstructEvent(payload, signature, c.cfg.WebhookSecret)
	return err == nil
}

func (c *Client) ParseNotification(payload []byte) (*domain.Notification, error) {
	var event stripego.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	var status domain.PaymentResult
	switch string(event.Type) {
	case "payment_intent.succeeded":
		status = domain.ResultSucceeded
	case "payment_intent.payment_failed", "payment_intent.canceled":
		status = domain.ResultFailed
	default:
		return nil, nil
	}

	var pi stripego.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	note := &domain.Notification{
		Provider:      domain.ProviderStripe,
		OrderID:       pi.Metadata["order_id"],
		ProviderRef:   pi.ID,
		PaymentID:     pi.ID,
		Status:        status,
		Amount:        float64(pi.Amount) / 100,
		Currency:      strings.ToUpper(string(pi.Currency)),
		PaymentMethod: "card",
	}
	if pi.LatestCharge != nil {
		note.TransactionID = pi.LatestCharge.ID
	}
	return note, nil
}

func translateErr(err error) error {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripego.ErrorTypeCard:
			return fmt.Errorf("%w: %s", domain.ErrProviderRejected, stripeErr.Code)
		case stripego.ErrorTypeInvalidRequest:
			return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, stripeErr.Code)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
}
