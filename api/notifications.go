package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listNotificationsByVendor(c *gin.Context) {
	notifications, err := s.notifications.ListByVendor(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "total": len(notifications)})
}

func (s *Server) markNotificationRead(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	if err := s.notifications.MarkRead(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read."})
}

func (s *Server) deleteNotification(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	if err := s.notifications.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully."})
}
