package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type Product struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"not null"                 json:"name"`
	Price    float64 `gorm:"not null"                 json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
	Stock    int     `gorm:"not null;default:0"       json:"stock"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

type Order struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Total     float64   `gorm:"not null"       json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderItem keeps the unit price at the moment of purchase, so historical
// orders are immune to later price changes.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                  json:"id"`
	OrderID   uint    `gorm:"index;not null"              json:"order_id"`
	ProductID uint    `gorm:"not null"                    json:"product_id"`
	Quantity  uint    `gorm:"default:1;check:quantity>0"  json:"quantity"`
	Price     float64 `gorm:"not null"                    json:"price"`
}
