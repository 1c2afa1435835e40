package routes

import (
	"partsdesk/attributes"
	"partsdesk/cart"
	"partsdesk/catalog"
	"partsdesk/compat"
	"partsdesk/dashboard"
	"partsdesk/documents"
	"partsdesk/exports"
	"partsdesk/orders"
	"partsdesk/ratelim"

	"github.com/julienschmidt/httprouter"
)

// Deps carries every handler group the router serves.
type Deps struct {
	Catalog    *catalog.Handler
	Cart       *cart.Handler
	Compat     *compat.Handler
	Orders     *orders.Handler
	Dashboard  *dashboard.Handler
	Documents  *documents.Handler
	Attributes *attributes.Handler
	Exports    *exports.Handler
	Limiter    *ratelim.RateLimiter
}

func AddDashboardRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/dashboard", d.Dashboard.GetDashboard)
}

func AddCategoryRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/categories/all", d.Catalog.ListCategories)
	router.POST("/api/categories/create", d.Limiter.Limit(d.Catalog.CreateCategory))
	router.PUT("/api/categories/update/:id", d.Limiter.Limit(d.Catalog.UpdateCategory))
	router.DELETE("/api/categories/delete/:id", d.Limiter.Limit(d.Catalog.DeleteCategory))
}

func AddProductRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/products/all", d.Catalog.ListProducts)
	router.POST("/api/products/create", d.Limiter.Limit(d.Catalog.CreateProduct))
	router.PUT("/api/products/update/:id", d.Limiter.Limit(d.Catalog.UpdateProduct))
	router.DELETE("/api/products/delete/:id", d.Limiter.Limit(d.Catalog.DeleteProduct))
	router.GET("/api/products/compatible/:id", d.Compat.DirectMatches)
	router.GET("/api/products/export/csv", d.Exports.Products)
}

func AddCartRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/cart", d.Cart.GetCart)
	router.POST("/api/cart/items", d.Limiter.Limit(d.Cart.AddItem))
	router.PUT("/api/cart/items/:id", d.Limiter.Limit(d.Cart.UpdateItem))
	router.DELETE("/api/cart/items/:id", d.Limiter.Limit(d.Cart.RemoveItem))
	router.DELETE("/api/cart", d.Limiter.Limit(d.Cart.Clear))
	router.GET("/api/cart/suggestions", d.Cart.Suggestions)
}

func AddOrderRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/orders/get", d.Orders.List)
	router.POST("/api/orders/create", d.Limiter.Limit(d.Orders.Create))
	router.PUT("/api/orders/update/:id", d.Limiter.Limit(d.Orders.Update))
	router.DELETE("/api/orders/delete/:id", d.Limiter.Limit(d.Orders.Delete))
	router.PUT("/api/orders/convert/:id", d.Limiter.Limit(d.Orders.Convert))
	router.GET("/api/orders/document/:id", d.Documents.PrintDocument)
	router.GET("/api/orders/export/csv", d.Exports.Orders)
	router.GET("/api/orders/quotations/export/csv", d.Exports.Quotations)
}

func AddAttributeRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/attributes/category/:id/attributes", d.Attributes.CategoryAttributes)
	router.POST("/api/attributes/extract-from-image", d.Limiter.Limit(d.Attributes.ExtractFromImage))
}
