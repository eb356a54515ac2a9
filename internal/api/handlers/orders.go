package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/service"
)

// OrderResponse represents the order response
type OrderResponse struct {
	ID              string              `json:"id"`
	Status          domain.OrderStatus  `json:"status"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	ShippingAddress domain.Address      `json:"shipping_address"`
	ShippingMethod  string              `json:"shipping_method"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentSummary  string              `json:"payment_summary"`
	Totals          TotalsResponse      `json:"totals"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.StringFixed(2),
			Quantity:  item.Quantity,
			Image:     item.Image,
		}
	}

	return OrderResponse{
		ID:              order.ID,
		Status:          order.Status,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		ShippingAddress: order.ShippingAddress,
		ShippingMethod:  string(order.ShippingMethod),
		PaymentMethod:   string(order.PaymentMethod),
		PaymentSummary:  order.PaymentSummary,
		Totals:          newTotalsResponse(order.Totals),
		Items:           items,
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       order.UpdatedAt.Format(time.RFC3339),
	}
}

func newOrderListResponse(orders []*domain.Order, limit, offset int) gin.H {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = newOrderResponse(o)
	}
	return gin.H{
		"orders": out,
		"limit":  limit,
		"offset": offset,
	}
}

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return service.Page(limit, offset)
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		order, err := orders.GetForUser(c.Request.Context(), c.Param("id"), user)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, newOrderResponse(order))
	}
}

// HandleListMyOrders handles GET /v1/orders
func HandleListMyOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit, offset := pageParams(c)
		list, err := orders.ListForUser(c.Request.Context(), user.ID, limit, offset)
		if err != nil {
			logger.Error("Failed to list orders", zap.String("user_id", user.ID.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, newOrderListResponse(list, limit, offset))
	}
}
