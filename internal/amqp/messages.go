package amqp

import (
	"encoding/json"
	"time"

	"updash/internal/core"
)

// TransactionExportMessage carries one full transaction to the export
// worker. The pipeline keeps no storage, so the message is the only copy
// the worker ever sees: it must be self-contained.
type TransactionExportMessage struct {
	Transaction core.Transaction `json:"transaction"`
	RequestedAt time.Time        `json:"requestedAt"`
}

func NewTransactionExportMessage(tx core.Transaction) *TransactionExportMessage {
	return &TransactionExportMessage{
		Transaction: tx,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func TransactionExportMessageFromJSON(data []byte) (*TransactionExportMessage, error) {
	var msg TransactionExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
