package worker

// notification_worker.go
// Processes customer-notification jobs from QueueNotification.
// Delivery goes through the sidecar that owns the messaging gateway session;
// transient failures get an in-process retry, exhausted jobs stay pending in
// the DB for the retry cron.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/infra"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/model"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationJob is the job envelope sent to QueueNotification.
type NotificationJob struct {
	TenantID    string            `json:"tenant_id"`
	Recipient   string            `json:"recipient"`
	Event       string            `json:"event"`
	Params      map[string]string `json:"params,omitempty"`
	ReferenceID *string           `json:"reference_id,omitempty"`
}

// NotificationWorker delivers notifications through the sidecar and records
// the outcome for auditing and retries.
type NotificationWorker struct {
	client *infra.NotifyClient
	repo   repository.NotificationRepository
}

func NewNotificationWorker(client *infra.NotifyClient, repo repository.NotificationRepository) *NotificationWorker {
	return &NotificationWorker{client: client, repo: repo}
}

// Process handles a single notification job:
//  1. Record the notification as pending
//  2. Call the sidecar with backoff (max 3 in-process attempts)
//  3. Mark sent, or schedule the retry cron to pick it up
func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) {
	var job NotificationJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return
	}

	tenantID, err := uuid.Parse(job.TenantID)
	if err != nil {
		log.Error().Str("tenant_id", job.TenantID).Msg("notification_worker: invalid tenant_id")
		return
	}

	params, _ := json.Marshal(job.Params)
	n := &model.Notification{
		TenantID:  tenantID,
		Recipient: job.Recipient,
		Event:     job.Event,
		Params:    string(params),
		Status:    "pending",
	}
	if job.ReferenceID != nil {
		if ref, err := uuid.Parse(*job.ReferenceID); err == nil {
			n.ReferenceID = &ref
		}
	}
	if err := w.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).Msg("notification_worker: failed to record notification")
		return
	}

	var resp *infra.NotifyResponse
	sendErr := withRetry(ctx, 3, func(attempt int) error {
		r, err := w.client.Send(ctx, infra.NotifyPayload{
			TenantID:  job.TenantID,
			Recipient: job.Recipient,
			Event:     job.Event,
			Params:    job.Params,
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("event", job.Event).
				Msg("notification_worker: send attempt failed, retrying")
			return err
		}
		r2 := r
		if r2.Status == "failed" {
			return fmt.Errorf("sidecar rejected: %s", r2.Error)
		}
		resp = r2
		return nil
	})

	if sendErr != nil {
		// Leave the row pending; the retry cron takes over from here.
		n.RetryCount = 3
		msg := sendErr.Error()
		n.LastError = &msg
		next := time.Now().Add(computeRetryBackoff(n.RetryCount))
		n.NextRetryAt = &next
		_ = w.repo.Update(ctx, n)
		log.Error().
			Err(sendErr).
			Str("event", job.Event).
			Time("next_retry_at", next).
			Msg("notification_worker: delivery failed, handed to retry cron")
		return
	}

	now := time.Now()
	n.Status = "sent"
	n.SentAt = &now
	n.MessageID = &resp.MessageID
	_ = w.repo.Update(ctx, n)
	log.Info().
		Str("event", job.Event).
		Str("message_id", resp.MessageID).
		Msg("notification_worker: delivered")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
