package worker

// retry_cron.go
// Background goroutine that periodically re-attempts sidecar delivery for
// notifications stuck in status='pending' with a next_retry_at in the past.
// Uses the circuit breaker to avoid hammering a downed sidecar.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/infra"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxNotificationRetries counts cron retries after the worker's own
	// in-process attempts are spent.
	MaxNotificationRetries = 8
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	NotificationRepo repository.NotificationRepository
	Client           *infra.NotifyClient
	CB               *infra.CircuitBreaker
	RDB              *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending notifications, and re-attempts delivery through the CB.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If the CB is open, skip the whole tick.
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	pending, err := cfg.NotificationRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Info().Int("count", len(pending)).Msg("retry_cron: processing pending notifications")

	for i := range pending {
		n := &pending[i]

		// The CB may have tripped mid-batch.
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		var params map[string]string
		_ = json.Unmarshal([]byte(n.Params), &params)

		var resp *infra.NotifyResponse
		cbErr := cfg.CB.Execute(func() error {
			r, err := cfg.Client.Send(ctx, infra.NotifyPayload{
				TenantID:  n.TenantID.String(),
				Recipient: n.Recipient,
				Event:     n.Event,
				Params:    params,
			})
			if err != nil {
				return err
			}
			resp = r
			return nil
		})

		if cbErr != nil {
			n.RetryCount++
			msg := cbErr.Error()
			n.LastError = &msg

			if n.RetryCount >= MaxNotificationRetries {
				n.Status = "failed"
				n.NextRetryAt = nil
				log.Error().
					Str("notification_id", n.ID.String()).
					Int("retries", n.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to DLQ")

				payload, _ := json.Marshal(NotificationJob{
					TenantID:  n.TenantID.String(),
					Recipient: n.Recipient,
					Event:     n.Event,
					Params:    params,
				})
				SendToDLQ(ctx, cfg.RDB, QueueNotification, "notification", payload,
					"max retries exceeded: "+msg, n.RetryCount)
			} else {
				next := time.Now().Add(computeRetryBackoff(n.RetryCount))
				n.NextRetryAt = &next
				log.Warn().
					Str("notification_id", n.ID.String()).
					Int("retry_count", n.RetryCount).
					Time("next_retry_at", next).
					Msg("retry_cron: delivery failed, scheduled next attempt")
			}

			_ = cfg.NotificationRepo.Update(ctx, n)
			continue
		}

		sentAt := time.Now()
		n.Status = "sent"
		n.SentAt = &sentAt
		n.NextRetryAt = nil
		n.LastError = nil
		if resp != nil {
			n.MessageID = &resp.MessageID
		}
		_ = cfg.NotificationRepo.Update(ctx, n)

		log.Info().
			Str("notification_id", n.ID.String()).
			Int("total_retries", n.RetryCount).
			Msg("retry_cron: delivered after retry")
	}
}

// computeRetryBackoff doubles the wait per retry, capped at 30 minutes.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount > 10 {
		retryCount = 10
	}
	d := time.Duration(1<<uint(retryCount)) * time.Minute
	if d > 30*time.Minute {
		d = 30 * time.Minute
	}
	return d
}
