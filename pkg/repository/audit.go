package repository

import (
	"fmt"
	"time"

	"github.com/example/fulfillment/pkg/config"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// AuditLog is one row of the mutation trail kept in MySQL, next to (not
// inside) the document store.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Action    string    `gorm:"type:varchar(50);index" json:"action"`
	EntityID  string    `gorm:"type:varchar(24);index" json:"entity_id"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type AuditStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAuditStore(cfg *config.MySQLConfig, logger *zap.Logger) (*AuditStore, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	if err := db.AutoMigrate(&AuditLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit table: %w", err)
	}

	return &AuditStore{db: db, logger: logger}, nil
}

// Record writes asynchronously; a failed audit write never fails the
// operation that produced it.
func (a *AuditStore) Record(action, entityID, detail string) {
	go func() {
		entry := &AuditLog{
			Action:    action,
			EntityID:  entityID,
			Detail:    detail,
			CreatedAt: time.Now().UTC(),
		}
		if err := a.db.Create(entry).Error; err != nil {
			a.logger.Warn("audit write failed",
				zap.String("action", action),
				zap.String("entity_id", entityID),
				zap.Error(err))
		}
	}()
}

func (a *AuditStore) Recent(entityID string, limit int) ([]AuditLog, error) {
	var entries []AuditLog
	err := a.db.Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
