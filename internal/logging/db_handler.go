package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	flushEvery = 5 * time.Second
	flushBatch = 50
)

// DBHandler persists ERROR and above into system_logs without blocking the
// caller: records go through a buffered channel and a single goroutine
// writes them in batches. When the channel is full the record is dropped
// rather than stalling the request that produced it.
type DBHandler struct {
	db      *gorm.DB
	records chan models.SystemLog
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	h := &DBHandler{
		db:      db,
		records: make(chan models.SystemLog, 256),
		done:    make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *DBHandler) run() {
	defer h.wg.Done()

	batch := make([]models.SystemLog, 0, flushBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := h.db.CreateInBatches(batch, flushBatch).Error; err != nil {
			// Warn stays below this handler's threshold, so no recursion.
			slog.Warn("system log flush failed", "error", err, "count", len(batch))
		}
		batch = batch[:0]
	}

	ticker := time.NewTicker(flushEvery)
	defer ticker.Stop()

	for {
		select {
		case rec := <-h.records:
			batch = append(batch, rec)
			if len(batch) >= flushBatch {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.done:
			for {
				select {
				case rec := <-h.records:
					batch = append(batch, rec)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Stop drains buffered records and waits for the final batch to land.
func (h *DBHandler) Stop() {
	close(h.done)
	h.wg.Wait()
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	rest := map[string]any{}
	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "method":
			entry.Method = a.Value.String()
		case "path":
			entry.Path = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			rest[a.Key] = a.Value.Any()
		}
		return true
	})
	if len(rest) > 0 {
		if raw, err := json.Marshal(rest); err == nil {
			entry.Extra = datatypes.JSON(raw)
		}
	}

	select {
	case h.records <- entry:
	default:
	}
	return nil
}

func (h *DBHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *DBHandler) WithGroup(string) slog.Handler { return h }
