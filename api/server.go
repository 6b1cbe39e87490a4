package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/example/fulfillment/pkg/config"
	"github.com/example/fulfillment/pkg/metrics"
	"github.com/example/fulfillment/pkg/repository"
	"github.com/example/fulfillment/pkg/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Server struct {
	config        *config.Config
	logger        *zap.Logger
	router        *gin.Engine
	orders        *service.OrderService
	inventory     *service.InventoryService
	notifications *service.NotificationService
	audit         *repository.AuditStore
}

func NewServer(cfg *config.Config, logger *zap.Logger, orders *service.OrderService, inventory *service.InventoryService, notifications *service.NotificationService, audit *repository.AuditStore, m *metrics.ServerMetrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	if m != nil {
		router.Use(metricsMiddleware(m))
	}

	s := &Server{
		config:        cfg,
		logger:        logger,
		router:        router,
		orders:        orders,
		inventory:     inventory,
		notifications: notifications,
		audit:         audit,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", s.createOrder)
			orders.GET("", s.listOrders)
			orders.GET("/:id", s.getOrder)
			orders.GET("/customer/:customerId", s.listOrdersByCustomer)
			orders.PUT("/:id", s.updateOrder)
			orders.PUT("/:id/cancel", s.cancelOrder)
			orders.PUT("/:id/deliver", s.deliverOrder)
			orders.DELETE("/:id", s.deleteOrder)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("", s.createInventory)
			inventory.GET("", s.listInventory)
			inventory.GET("/lowstock", s.listLowStock)
			inventory.GET("/:id", s.getInventory)
			inventory.PUT("/:id", s.updateInventory)
			inventory.PUT("/:id/stock", s.updateStock)
			inventory.PUT("/:id/alert", s.updateLowStockAlert)
			inventory.DELETE("/:id", s.deleteInventory)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("/vendor/:vendorId", s.listNotificationsByVendor)
			notifications.PUT("/:id/read", s.markNotificationRead)
			notifications.DELETE("/:id", s.deleteNotification)
		}

		v1.GET("/audit/:entityId", s.listAudit)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("HTTP server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the gin engine for in-process testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) listAudit(c *gin.Context) {
	if s.audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "auditing is not enabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	entries, err := s.audit.Recent(c.Param("entityId"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// documentID validates the 24-hex-character identifier in the path before
// anything touches the store.
func documentID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier must be 24 hex characters"})
		return "", false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	var validation *service.ValidationError
	var notFound *service.NotFoundError
	var conflict *service.StateConflictError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func metricsMiddleware(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}
