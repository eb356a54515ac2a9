package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jafarshop/storefront/internal/domain"
)

// HandleShippingMethods handles GET /v1/catalog/shipping-methods
func HandleShippingMethods() gin.HandlerFunc {
	return func(c *gin.Context) {
		methods := domain.ShippingMethods()
		out := make([]gin.H, 0, len(methods))
		for _, m := range methods {
			out = append(out, gin.H{
				"id":       m.ID,
				"name":     m.Name,
				"price":    m.Price.StringFixed(2),
				"estimate": m.Estimate,
			})
		}
		c.JSON(http.StatusOK, gin.H{"shipping_methods": out})
	}
}

// HandlePaymentMethods handles GET /v1/catalog/payment-methods
func HandlePaymentMethods() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"payment_methods": domain.PaymentOptions()})
	}
}
