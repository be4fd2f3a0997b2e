package handlers

import (
	"net/http"

	usecase "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/order"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Usecase usecase.OrderUsecase
}

func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{Usecase: uc}
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	out, err := h.Usecase.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
