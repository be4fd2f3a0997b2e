package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/logger"
	orderdto "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/dto/order"
	usecase "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	Usecase   usecase.OrderUsecase
	Providers usecase.ProviderRegistry
}

func NewAdminHandler(uc usecase.OrderUsecase, providers usecase.ProviderRegistry) *AdminHandler {
	return &AdminHandler{Usecase: uc, Providers: providers}
}

// ListOrders handles GET /api/admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filters := domain.OrderFilters{
		UserID:        c.Query("user_id"),
		Status:        domain.OrderStatus(c.Query("status")),
		PaymentStatus: domain.PaymentStatus(c.Query("payment_status")),
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = t
		}
	}

	out, err := h.Usecase.ListOrders(c.Request.Context(), &orderdto.ListOrdersInput{
		Page:    page,
		Limit:   limit,
		Filters: filters,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// CancelOrder handles POST /api/admin/orders/:id/cancel
func (h *AdminHandler) CancelOrder(c *gin.Context) {
	orderID := c.Param("id")
	if err := h.Usecase.CancelOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "order_id": orderID})
}

// RefundOrder handles POST /api/admin/orders/:id/refund
func (h *AdminHandler) RefundOrder(c *gin.Context) {
	out, err := h.Usecase.RefundOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type reconcileRequest struct {
	Provider    string `json:"provider" binding:"required"`
	ProviderRef string `json:"provider_ref" binding:"required"`
}

// ReconcileOrder handles POST /api/admin/orders/:id/reconcile. It asks
// the provider for the current payment state and applies it, for orders
// whose webhook never arrived.
func (h *AdminHandler) ReconcileOrder(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and provider_ref are required"})
		return
	}

	provider, err := h.Providers.Get(domain.Provider(req.Provider))
	if err != nil {
		respondError(c, err)
		return
	}

	capture, err := provider.ConfirmOrCapture(c.Request.Context(), req.ProviderRef)
	if err != nil {
		logger.Log.Error("admin reconcile: provider lookup failed",
			zap.String("provider", req.Provider),
			zap.String("provider_ref", req.ProviderRef),
			zap.Error(err))
		respondError(c, err)
		return
	}
	if capture.Status == domain.ResultPending {
		c.JSON(http.StatusAccepted, gin.H{"status": "pending"})
		return
	}

	order, err := h.Usecase.Reconcile(c.Request.Context(), &usecase.ReconcileEvent{
		Source:        usecase.SourceAdmin,
		Provider:      provider.Name(),
		OrderID:       c.Param("id"),
		ProviderRef:   req.ProviderRef,
		PaymentID:     capture.PaymentID,
		Status:        capture.Status,
		TransactionID: capture.TransactionID,
		Amount:        capture.Amount,
		Currency:      capture.Currency,
		PaymentMethod: capture.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderdto.ToOrderOutput(order))
}
