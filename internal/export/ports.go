// Package export defines the outbound ports for pushing transactions to an
// external destination, plus the factory selecting the concrete target.
package export

import (
	"context"

	"updash/internal/core"
)

// TransactionExporter is the port for outbound export adapters.
type TransactionExporter interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
