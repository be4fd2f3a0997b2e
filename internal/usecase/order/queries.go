package usecase

import (
	"context"

	orderdto "github.com/Zaheeroo/tejidosyami-sub000/internal/usecase/dto/order"
)

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*orderdto.OrderOutput, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return orderdto.ToOrderOutput(order), nil
}

func (uc *DefaultOrderUsecase) ListOrders(ctx context.Context, input *orderdto.ListOrdersInput) (*orderdto.ListOrdersOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := uc.OrderRepo.ListOrders(ctx, input.Filters, page, limit)
	if err != nil {
		return nil, err
	}

	out := &orderdto.ListOrdersOutput{
		Orders: make([]*orderdto.OrderOutput, 0, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for _, order := range orders {
		out.Orders = append(out.Orders, orderdto.ToOrderOutput(order))
	}
	return out, nil
}
