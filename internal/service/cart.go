package service

import (
	"context"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo

	// MergeLines keeps one cart line per product and bumps its quantity on
	// repeated adds. With it off, every add appends a new line.
	MergeLines bool
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uint, quantity uint) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	return s.Repo.AddCartItem(ctx, userID, productID, quantity, s.MergeLines)
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]transport.CartLine, error) {
	return s.Repo.GetCart(ctx, userID)
}
