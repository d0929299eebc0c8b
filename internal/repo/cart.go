package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/transport"
)

// AddCartItem inserts a cart line for the user. With merge set, a line for
// the same product is incremented instead of duplicated.
func (r *GormRepo) AddCartItem(ctx context.Context, userID, productID uint, quantity uint, merge bool) (*models.CartItem, error) {
	if err := r.DB.WithContext(ctx).First(&models.Product{}, productID).Error; err != nil {
		return nil, err
	}

	if merge {
		var item models.CartItem
		tx := r.DB.WithContext(ctx).
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&item)
		if tx.Error == nil {
			item.Quantity += quantity
			if err := r.DB.WithContext(ctx).Save(&item).Error; err != nil {
				return nil, err
			}
			return &item, nil
		}
		if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, tx.Error
		}
	}

	newItem := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := r.DB.WithContext(ctx).Create(&newItem).Error; err != nil {
		return nil, err
	}
	return &newItem, nil
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]transport.CartLine, error) {
	lines := make([]transport.CartLine, 0)
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id, products.name, products.price, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
