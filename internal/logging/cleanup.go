package logging

import (
	"log/slog"
	"time"

	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/gorm"
)

const logRetention = 30 * 24 * time.Hour

// StartCleanup prunes system_logs beyond the retention window, once at
// startup and then daily, until done is closed.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		sweepLogs(db)
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweepLogs(db)
			case <-done:
				return
			}
		}
	}()
}

func sweepLogs(db *gorm.DB) {
	cutoff := time.Now().Add(-logRetention)
	res := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	switch {
	case res.Error != nil:
		slog.Error("log cleanup failed", "error", res.Error)
	case res.RowsAffected > 0:
		slog.Info("pruned old system logs", "deleted", res.RowsAffected, "cutoff", cutoff)
	}
}
