// Package worker processes queued transaction export messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"updash/internal/amqp"
	"updash/internal/export"
)

// ExportWorker pushes queued transactions to the configured export target.
// The queue message is the only copy of the transaction, so a failed append
// returns an error and the delivery is requeued by the consumer.
type ExportWorker struct {
	exporter export.TransactionExporter
}

func NewExportWorker(exporter export.TransactionExporter) *ExportWorker {
	return &ExportWorker{exporter: exporter}
}

// HandleExportMessage processes a single transaction export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	tx := msg.Transaction

	slog.InfoContext(ctx, "Processing export message",
		"transaction_id", tx.ID,
		"requested_at", msg.RequestedAt)

	ref, err := w.exporter.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append transaction %s: %w", tx.ID, err)
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"transaction_id", tx.ID,
		"export_ref", ref,
		"description", tx.Description,
		"amount", tx.Amount.Value)

	return nil
}
