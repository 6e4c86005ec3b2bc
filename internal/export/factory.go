package export

import (
	"context"
	"fmt"
	"log/slog"
)

// Target selects the concrete export destination.
type Target string

const (
	SheetsTarget Target = "sheets"
	MemoryTarget Target = "memory"
)

func (t Target) IsValid() bool {
	switch t {
	case SheetsTarget, MemoryTarget:
		return true
	}
	return false
}

func (t Target) String() string {
	return string(t)
}

// Factory builds the exporter for a target. The sheets constructor is
// injected so this package stays import-cycle free with the adapters.
type Factory struct {
	logger    *slog.Logger
	newSheets func(ctx context.Context) (TransactionExporter, error)
	newMemory func() TransactionExporter
}

func NewFactory(logger *slog.Logger, newSheets func(ctx context.Context) (TransactionExporter, error), newMemory func() TransactionExporter) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		logger:    logger,
		newSheets: newSheets,
		newMemory: newMemory,
	}
}

// Create builds the exporter for the target.
func (f *Factory) Create(ctx context.Context, target Target) (TransactionExporter, error) {
	switch target {
	case SheetsTarget:
		exporter, err := f.newSheets(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
		}
		f.logger.Info("Initialized Google Sheets export target")
		return exporter, nil
	case MemoryTarget:
		f.logger.Info("Initialized in-memory export target")
		return f.newMemory(), nil
	default:
		return nil, fmt.Errorf("invalid export target: %s", target)
	}
}
