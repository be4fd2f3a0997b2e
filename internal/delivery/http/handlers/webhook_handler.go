package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/logger"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/metrics"
	usecase "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	Usecase   usecase.OrderUsecase
	Providers usecase.ProviderRegistry
	Metrics   *metrics.OrderMetrics
}

func NewWebhookHandler(uc usecase.OrderUsecase, providers usecase.ProviderRegistry, m *metrics.OrderMetrics) *WebhookHandler {
	return &WebhookHandler{Usecase: uc, Providers: providers, Metrics: m}
}

// Handle processes POST /api/webhooks/:provider. Status codes drive the
// provider's redelivery: 2xx acknowledges, 4xx tells it to stop, 5xx
// asks for a retry.
func (h *WebhookHandler) Handle(c *gin.Context) {
	providerName := c.Param("provider")
	provider, err := h.Providers.Get(domain.Provider(providerName))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown payment provider"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if !provider.VerifyNotification(payload, c.Request.Header) {
		h.Metrics.WebhooksRejectedTotal.WithLabelValues(providerName).Inc()
		logger.Log.Warn("webhook signature rejected",
			zap.String("provider", providerName),
			zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature verification failed"})
		return
	}

	note, err := provider.ParseNotification(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed notification"})
		return
	}
	if note == nil {
		// Event type we do not act on; acknowledge so it is not redelivered.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	if note.Status == domain.ResultPending {
		c.JSON(http.StatusOK, gin.H{"status": "pending"})
		return
	}

	order, err := h.Usecase.Reconcile(c.Request.Context(), &usecase.ReconcileEvent{
		Source:        usecase.SourceWebhook,
		Provider:      note.Provider,
		OrderID:       note.OrderID,
		ProviderRef:   note.ProviderRef,
		PaymentID:     note.PaymentID,
		Status:        note.Status,
		TransactionID: note.TransactionID,
		Amount:        note.Amount,
		Currency:      note.Currency,
		PaymentMethod: note.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrOrderHasNoItems):
			// Nothing to apply this to and a retry will not change that.
			logger.Log.Warn("webhook references no resolvable order",
				zap.String("provider", providerName),
				zap.String("order_id", note.OrderID),
				zap.String("provider_ref", note.ProviderRef))
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		default:
			logger.Log.Error("webhook reconciliation failed",
				zap.String("provider", providerName),
				zap.String("order_id", note.OrderID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "processed",
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
	})
}
