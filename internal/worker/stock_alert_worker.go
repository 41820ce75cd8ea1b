package worker

// stock_alert_worker.go
// Mails reorder alerts produced by recorded sales and by the periodic sweep.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockdesk/internal/infra"

	"github.com/rs/zerolog/log"
)

type StockAlertPayload struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
}

type DigestPayload struct {
	Products    []StockAlertPayload `json:"products"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Notifier delivers an alert message; *infra.Mailer satisfies it.
type Notifier interface {
	SendAlert(subject, body, attachPath string) error
}

type StockAlertWorker struct {
	notifier Notifier
	breaker  *infra.CircuitBreaker
	shopName string
}

func NewStockAlertWorker(notifier Notifier, breaker *infra.CircuitBreaker, shopName string) *StockAlertWorker {
	return &StockAlertWorker{notifier: notifier, breaker: breaker, shopName: shopName}
}

// Handlers maps the alert job types onto this worker.
func (w *StockAlertWorker) Handlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		JobStockAlert:    w.ProcessAlert,
		JobReorderDigest: w.ProcessDigest,
	}
}

func (w *StockAlertWorker) ProcessAlert(_ context.Context, raw json.RawMessage) error {
	var p StockAlertPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("stock_alert_worker: invalid payload")
		return nil // malformed payloads never succeed on retry
	}
	subject := fmt.Sprintf("[%s] Reorder %s", w.shopName, p.Name)
	body := fmt.Sprintf("%s (#%d) is down to %d units; reorder level is %d.\n",
		p.Name, p.ProductID, p.CurrentStock, p.ReorderLevel)
	return w.send(subject, body, p.ProductID)
}

func (w *StockAlertWorker) ProcessDigest(_ context.Context, raw json.RawMessage) error {
	var p DigestPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("stock_alert_worker: invalid digest payload")
		return nil
	}
	if len(p.Products) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d products are at or below their reorder level:\n\n", len(p.Products))
	for _, item := range p.Products {
		fmt.Fprintf(&b, "  #%-5d %-40s stock %4d  reorder at %d\n", item.ProductID, item.Name, item.CurrentStock, item.ReorderLevel)
	}
	subject := fmt.Sprintf("[%s] Reorder digest: %d products", w.shopName, len(p.Products))
	return w.send(subject, b.String(), 0)
}

func (w *StockAlertWorker) send(subject, body string, productID uint) error {
	err := w.breaker.Execute(func() error {
		return w.notifier.SendAlert(subject, body, "")
	})
	if errors.Is(err, infra.ErrMailerNotConfigured) {
		log.Warn().Uint("product_id", productID).Msg("stock_alert_worker: SMTP not configured, alert dropped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("stock_alert_worker: send: %w", err)
	}
	log.Info().Uint("product_id", productID).Str("subject", subject).Msg("stock_alert_worker: alert sent")
	return nil
}
