package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/tutor-system2025/tutor-system/internal/metrics"
	"github.com/tutor-system2025/tutor-system/internal/models"
	"gorm.io/gorm"
)

const (
	maxAttempts  = 5
	sendTimeout  = 30 * time.Second
	pollInterval = 5 * time.Second
	batchSize    = 20
)

// Worker drains the email outbox: pending rows whose SendAfter has passed
// are delivered; failures back off exponentially and give up after
// maxAttempts. Delivery never touches the request path.
type Worker struct {
	db     *gorm.DB
	sender Sender
	done   chan struct{}
}

func NewWorker(db *gorm.DB, sender Sender) *Worker {
	return &Worker{db: db, sender: sender, done: make(chan struct{})}
}

func (w *Worker) Start() {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.DrainOnce(context.Background())
			case <-w.done:
				return
			}
		}
	}()
}

func (w *Worker) Stop() {
	close(w.done)
}

// DrainOnce processes one batch of due messages.
func (w *Worker) DrainOnce(ctx context.Context) {
	var due []models.EmailMessage
	err := w.db.
		Where("status = ? AND send_after <= ?", models.EmailPending, time.Now()).
		Order("created_at").
		Limit(batchSize).
		Find(&due).Error
	if err != nil {
		slog.Error("outbox query failed", "error", err)
		return
	}

	for i := range due {
		w.deliver(ctx, &due[i])
	}
}

func (w *Worker) deliver(ctx context.Context, msg *models.EmailMessage) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	err := w.sender.Send(sendCtx, msg)
	cancel()

	if err == nil {
		now := time.Now()
		updates := map[string]interface{}{
			"status":   models.EmailSent,
			"attempts": msg.Attempts + 1,
			"sent_at":  &now,
		}
		if dbErr := w.db.Model(msg).Updates(updates).Error; dbErr != nil {
			slog.Error("outbox status update failed", "error", dbErr, "message_id", msg.ID)
		}
		metrics.IncEmail("sent")
		return
	}

	attempts := msg.Attempts + 1
	updates := map[string]interface{}{
		"attempts":   attempts,
		"last_error": err.Error(),
	}
	if attempts >= maxAttempts {
		updates["status"] = models.EmailFailed
		metrics.IncEmail("failed")
		slog.Error("outbox message failed permanently",
			"message_id", msg.ID, "subject", msg.Subject, "error", err)
	} else {
		updates["send_after"] = time.Now().Add(backoff(attempts))
		metrics.IncEmail("retry")
		slog.Warn("outbox delivery failed, will retry",
			"message_id", msg.ID, "attempt", attempts, "error", err)
	}
	if dbErr := w.db.Model(msg).Updates(updates).Error; dbErr != nil {
		slog.Error("outbox status update failed", "error", dbErr, "message_id", msg.ID)
	}
}

// backoff doubles per attempt: 30s, 1m, 2m, 4m.
func backoff(attempt int) time.Duration {
	d := 30 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}
