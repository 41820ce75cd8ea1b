package worker

// alert_sweep.go
// Background goroutine that periodically enqueues one digest of every product
// at or below its reorder level, so shortages are reported even when no sale
// triggered an alert (stock edited by hand, alerts lost while Redis was down).

import (
	"context"
	"time"

	"stockdesk/internal/model"

	"github.com/rs/zerolog/log"
)

// ReorderLister is satisfied by repository.ProductRepository.
type ReorderLister interface {
	ListBelowReorder(ctx context.Context) ([]model.Product, error)
}

type digestEnqueuer interface {
	EnqueueDigest(ctx context.Context, payload DigestPayload) error
}

// AlertSweepConfig holds all dependencies for the sweep goroutine.
type AlertSweepConfig struct {
	Products   ReorderLister
	Dispatcher *Dispatcher
	Interval   time.Duration
}

// StartAlertSweep is a no-op when Interval is zero. It respects ctx for
// graceful shutdown.
func StartAlertSweep(ctx context.Context, cfg AlertSweepConfig) {
	if cfg.Interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("alert_sweep: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alert_sweep: shutting down")
				return
			case now := <-ticker.C:
				sweepOnce(ctx, cfg.Products, cfg.Dispatcher, now)
			}
		}
	}()
}

func sweepOnce(ctx context.Context, products ReorderLister, d digestEnqueuer, now time.Time) {
	low, err := products.ListBelowReorder(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alert_sweep: failed to list products")
		return
	}
	if len(low) == 0 {
		return
	}

	digest := DigestPayload{GeneratedAt: now.UTC(), Products: make([]StockAlertPayload, 0, len(low))}
	for _, p := range low {
		digest.Products = append(digest.Products, StockAlertPayload{
			ProductID:    p.ID,
			Name:         p.Name,
			CurrentStock: p.CurrentStock,
			ReorderLevel: p.ReorderLevel,
		})
	}
	if err := d.EnqueueDigest(ctx, digest); err != nil {
		log.Error().Err(err).Msg("alert_sweep: enqueue digest failed")
		return
	}
	log.Info().Int("count", len(low)).Msg("alert_sweep: digest enqueued")
}
