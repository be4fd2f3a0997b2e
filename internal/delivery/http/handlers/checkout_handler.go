package handlers

import (
	"net/http"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/Zaheeroo/tejidosyami-sub000/internal/infrastructure/logger"
	orderdto "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/dto/order"
	usecase "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	Usecase usecase.OrderUsecase
}

func NewCheckoutHandler(uc usecase.OrderUsecase) *CheckoutHandler {
	return &CheckoutHandler{Usecase: uc}
}

// InitiateCheckout handles POST /api/checkout
func (h *CheckoutHandler) InitiateCheckout(c *gin.Context) {
	var input orderdto.InitiateCheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if input.Provider == "" || input.Currency == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and currency are required"})
		return
	}

	out, err := h.Usecase.InitiateCheckout(c.Request.Context(), &input)
	if err != nil {
		logger.Log.Error("checkout failed",
			zap.String("provider", input.Provider),
			zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// HandleReturn handles POST /api/payments/return
func (h *CheckoutHandler) HandleReturn(c *gin.Context) {
	var input orderdto.ClientReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if input.Provider == "" || input.ProviderRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and provider_ref are required"})
		return
	}

	out, err := h.Usecase.HandleClientReturn(c.Request.Context(), &input)
	if err != nil {
		logger.Log.Error("client return failed",
			zap.String("provider", input.Provider),
			zap.String("provider_ref", input.ProviderRef),
			zap.Error(err))
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if out.State == string(domain.ResultPending) {
		status = http.StatusAccepted
	}
	c.JSON(status, out)
}

// CheckStatus handles GET /api/payments/status
func (h *CheckoutHandler) CheckStatus(c *gin.Context) {
	var input orderdto.PaymentStatusInput
	if err := c.ShouldBindQuery(&input); err != nil || input.Provider == "" || input.ProviderRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and provider_ref are required"})
		return
	}

	out, err := h.Usecase.CheckPayment(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
