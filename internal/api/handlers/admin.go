package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/service"
)

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// HandleListOrders handles GET /v1/admin/orders
func HandleListOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := domain.OrderStatus(c.Query("status"))
		if status != "" && !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		limit, offset := pageParams(c)
		list, err := orders.List(c.Request.Context(), status, limit, offset)
		if err != nil {
			logger.Error("Failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, newOrderListResponse(list, limit, offset))
	}
}

// HandleUpdateOrderStatus handles POST /v1/admin/orders/:id/status
func HandleUpdateOrderStatus(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestBody(c, err)
			return
		}
		if !req.Status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, admin.ID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":     order.ID,
			"status": order.Status,
		})
	}
}

// HandleStats handles GET /v1/admin/stats
func HandleStats(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := orders.Stats(c.Request.Context())
		if err != nil {
			logger.Error("Failed to load order stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		byStatus := make(map[domain.OrderStatus]int, len(domain.AllOrderStatuses))
		for _, s := range domain.AllOrderStatuses {
			byStatus[s] = stats.ByStatus[s]
		}

		c.JSON(http.StatusOK, gin.H{
			"order_count": stats.OrderCount,
			"revenue":     stats.Revenue.StringFixed(2),
			"by_status":   byStatus,
		})
	}
}
