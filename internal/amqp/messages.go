package amqp

import (
	"encoding/json"
	"time"
)

// MirrorSyncMessage asks the worker to copy one ledger row to the mirror.
// It carries only the row ID; the worker reads the full expense from the
// ledger so the queue never holds stale field values.
type MirrorSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMirrorSyncMessage(id int64) *MirrorSyncMessage {
	return &MirrorSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *MirrorSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MirrorSyncMessageFromJSON(data []byte) (*MirrorSyncMessage, error) {
	var msg MirrorSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
