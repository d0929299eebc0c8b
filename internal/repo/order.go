package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/transport"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type cartRow struct {
	ProductID uint
	Quantity  uint
	Price     float64
}

// PlaceOrder converts the user's cart into an order inside a single
// transaction: load cart with current prices, insert the order and its
// items, decrement stock and clear the cart. Stock is decremented with a
// conditional UPDATE so two concurrent placements can never oversell; the
// loser rolls back with ErrInsufficientStock.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uint) (*models.Order, []models.OrderItem, error) {
	var (
		order models.Order
		items []models.OrderItem
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []cartRow
		if err := tx.
			Table("cart_items").
			Select("cart_items.product_id, cart_items.quantity, products.price").
			Joins("JOIN products ON products.id = cart_items.product_id").
			Where("cart_items.user_id = ?", userID).
			Scan(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrEmptyCart
		}

		var total float64
		for _, row := range rows {
			total += float64(row.Quantity) * row.Price
		}

		order = models.Order{
			UserID: userID,
			Total:  total,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items = make([]models.OrderItem, 0, len(rows))
		for _, row := range rows {
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: row.ProductID,
				Quantity:  row.Quantity,
				Price:     row.Price,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		for _, row := range rows {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", row.ProductID, row.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", row.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %d", ErrInsufficientStock, row.ProductID)
			}
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

// ListOrders returns the user's orders newest first, each with its line
// items joined with product names. The per-order fetch is fine at this
// scale.
func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]transport.OrderWithItems, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	out := make([]transport.OrderWithItems, 0, len(orders))
	for _, o := range orders {
		lines := make([]transport.OrderLine, 0)
		if err := r.DB.WithContext(ctx).
			Table("order_items").
			Select("order_items.product_id, products.name, order_items.quantity, order_items.price").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("order_items.order_id = ?", o.ID).
			Scan(&lines).Error; err != nil {
			return nil, err
		}

		out = append(out, transport.OrderWithItems{
			ID:        o.ID,
			UserID:    o.UserID,
			Total:     o.Total,
			CreatedAt: o.CreatedAt,
			Items:     lines,
		})
	}

	return out, nil
}
