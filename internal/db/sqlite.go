// Package db owns the SQLite request audit log.
package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dexbridge/dexbridge/internal/db/models"
)

// InitDB opens the SQLite database and runs migrations.
func InitDB(dbPath string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := gdb.AutoMigrate(&models.RequestLog{}); err != nil {
		return nil, err
	}
	return gdb, nil
}

// LogRequest appends one audit row.
func LogRequest(gdb *gorm.DB, method, path string, status int, duration time.Duration, remoteAddr, errMsg string) error {
	return gdb.Create(&models.RequestLog{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UnixMilli(),
		Method:     method,
		Path:       path,
		Status:     status,
		DurationMs: duration.Milliseconds(),
		RemoteAddr: remoteAddr,
		Error:      errMsg,
	}).Error
}

// RecentRequests returns the newest n audit rows.
func RecentRequests(gdb *gorm.DB, n int) ([]models.RequestLog, error) {
	var logs []models.RequestLog
	err := gdb.Order("timestamp DESC").Limit(n).Find(&logs).Error
	return logs, err
}
