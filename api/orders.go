package api

import (
	"net/http"

	"github.com/example/fulfillment/pkg/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) createOrder(c *gin.Context) {
	var order models.Order
	if err := c.BindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.orders.Create(c.Request.Context(), &order); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	order, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (s *Server) listOrdersByCustomer(c *gin.Context) {
	customerID := c.Param("customerId")

	orders, err := s.orders.GetByCustomer(c.Request.Context(), customerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no orders found for customer " + customerID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (s *Server) updateOrder(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	var patch models.Order
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.orders.Update(c.Request.Context(), id, &patch); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully."})
}

func (s *Server) cancelOrder(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.orders.Cancel(c.Request.Context(), id, req.Note); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully."})
}

func (s *Server) deliverOrder(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	// The acting user is established by the auth layer in front of this
	// service and forwarded in a header.
	actorID := c.GetHeader("X-Actor-Id")

	if err := s.orders.MarkDelivered(c.Request.Context(), id, actorID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order marked as delivered successfully."})
}

func (s *Server) deleteOrder(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	if err := s.orders.Remove(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully."})
}
