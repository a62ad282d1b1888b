package amqp

import (
	"encoding/json"
	"time"
)

// Operation is the kind of mutation a change message reports.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// LedgerChangeMessage announces one successful ledger mutation. Consumers
// re-read the store for current state; the message carries only the key and
// the value that was written.
type LedgerChangeMessage struct {
	Collection   string    `json:"collection"`
	Operation    Operation `json:"operation"`
	Category     string    `json:"category,omitempty"`
	Amount       float64   `json:"amount"`
	ID           int64     `json:"id,omitempty"`
	RowsAffected int64     `json:"rows_affected"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewLedgerChangeMessage creates a message stamped with the current time.
func NewLedgerChangeMessage(collection string, op Operation, category string, amount float64) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Collection: collection,
		Operation:  op,
		Category:   category,
		Amount:     amount,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON decodes a message body.
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
