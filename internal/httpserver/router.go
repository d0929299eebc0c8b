package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backend/internal/middleware"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := middleware.NewSimpleAuth(d.JWTSecret)

	api := e.Group("/api")

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/search", d.CatalogHandler.Search)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)

	private := api.Group("", authMw.RequireAuth)
	private.POST("/cart", d.CartHandler.AddToCart)
	private.GET("/cart", d.CartHandler.GetCart)
	private.POST("/place-order", d.OrderHandler.PlaceOrder)
	private.GET("/my-orders", d.OrderHandler.MyOrders)

	admin := api.Group("/admin", authMw.RequireAdmin)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PATCH("/products/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
}
