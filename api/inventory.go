package api

import (
	"net/http"

	"github.com/example/fulfillment/pkg/models"
	"github.com/gin-gonic/gin"
)

// inventoryDefaults seeds the fields the store treats as enabled-by-default
// before binding, so omitting them in the request keeps the defaults.
func inventoryDefaults() models.Inventory {
	return models.Inventory{
		IsLowStockAlertEnabled: true,
		LowStockThreshold:      10,
	}
}

func (s *Server) createInventory(c *gin.Context) {
	inv := inventoryDefaults()
	if err := c.BindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.inventory.Create(c.Request.Context(), &inv); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (s *Server) getInventory(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	inv, err := s.inventory.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) listInventory(c *gin.Context) {
	records, err := s.inventory.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": records, "total": len(records)})
}

func (s *Server) listLowStock(c *gin.Context) {
	records, err := s.inventory.GetLowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": records, "total": len(records)})
}

func (s *Server) updateInventory(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	inv := inventoryDefaults()
	if err := c.BindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.inventory.Update(c.Request.Context(), id, &inv); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory updated successfully."})
}

func (s *Server) updateStock(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	var req struct {
		StockQuantity int `json:"stock_quantity"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock quantity cannot be negative"})
		return
	}

	if err := s.inventory.UpdateStock(c.Request.Context(), id, req.StockQuantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully."})
}

func (s *Server) updateLowStockAlert(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.inventory.UpdateLowStockAlert(c.Request.Context(), id, req.Enabled); err != nil {
		writeError(c, err)
		return
	}

	message := "Low stock alert disabled."
	if req.Enabled {
		message = "Low stock alert enabled."
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (s *Server) deleteInventory(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	if err := s.inventory.Remove(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory deleted successfully."})
}
