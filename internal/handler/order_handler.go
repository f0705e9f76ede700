package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/models"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/service"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/utils"
)

// OrderHandler serves order placement, tracking, and the admin order API.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder handles POST /order/create.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, 400, "Invalid request data")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Error creating order")
		return
	}

	utils.OK(c, gin.H{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"message":      "Order created successfully",
	})
}

// TrackOrders handles POST /track-order.
func (h *OrderHandler) TrackOrders(c *gin.Context) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, 400, "Invalid request data")
		return
	}

	orders, err := h.orderService.TrackOrders(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err, "Error tracking order")
		return
	}
	utils.OK(c, gin.H{"orders": orders})
}

// ListOrders handles GET /admin/orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, "Unable to load orders")
		return
	}
	utils.OK(c, gin.H{"orders": orders})
}

// GetOrder handles GET /admin/orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error retrieving order")
		return
	}
	utils.OK(c, gin.H{"order": order})
}

// UpdateOrder handles POST /admin/orders/:id/update.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var patch models.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.Fail(c, 400, "Invalid request data")
		return
	}
	if patch.IsEmpty() {
		utils.Fail(c, 400, "No updatable fields provided")
		return
	}

	if err := h.orderService.UpdateOrder(c.Request.Context(), id, &patch); err != nil {
		respondError(c, err, "Error updating order")
		return
	}
	utils.OKMessage(c, "Order updated successfully")
}

// DeleteOrder handles DELETE /admin/orders/:id.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error deleting order")
		return
	}
	utils.OKMessage(c, "Order deleted successfully")
}

func orderID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Fail(c, 400, "Invalid order id")
		return 0, false
	}
	return id, true
}
