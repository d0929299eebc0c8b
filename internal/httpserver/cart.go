package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *events.Producer
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_to_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	publish(c, h.Producer, events.TopicCartEvents, userID, map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Added to cart"})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	lines, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	return c.JSON(http.StatusOK, lines)
}
