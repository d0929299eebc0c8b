package service

import (
	"context"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/transport"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func (s *OrderService) PlaceOrder(ctx context.Context, userID uint) (*models.Order, []models.OrderItem, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	order, items, err := s.Repo.PlaceOrder(ctx, userID)
	if err != nil {
		l.Warn("place_order_failed", "error", err)
		return nil, nil, err
	}

	l.Info("place_order_success", "order_id", order.ID, "total", order.Total, "items", len(items))
	return order, items, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]transport.OrderWithItems, error) {
	return s.Repo.ListOrders(ctx, userID)
}
