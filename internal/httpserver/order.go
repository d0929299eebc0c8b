package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/service"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer *events.Producer
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	order, items, err := h.Svc.PlaceOrder(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEmptyCart):
			return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, repo.ErrInsufficientStock):
			return echo.NewHTTPError(http.StatusConflict, "insufficient stock")
		default:
			l.Error("place_order_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "server error")
		}
	}

	publish(c, h.Producer, events.TopicOrderEvents, userID, map[string]any{
		"type":     "order_placed",
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.Total,
		"items":    len(items),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Order placed successfully",
		"order_id": order.ID,
		"total":    order.Total,
	})
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		l.Error("list_orders_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	return c.JSON(http.StatusOK, orders)
}
