package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/middleware"
)

// GetID reads the authenticated user id placed into the context by the auth
// middleware.
func GetID(c echo.Context) (uint, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint)
	if !ok || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "token required")
	}
	return id, nil
}

func publish(c echo.Context, p *events.Producer, topic string, key uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "topic", topic, "error", err)
	}
}
