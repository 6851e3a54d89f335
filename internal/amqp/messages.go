package amqp

import (
	"encoding/json"
	"time"
)

// DocumentChangedMessage announces that the document at Path was rewritten.
// It carries no payload; consumers fetch the current document from the store,
// so a burst of changes collapses into one recompute of the latest state.
type DocumentChangedMessage struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDocumentChangedMessage(path string) *DocumentChangedMessage {
	return &DocumentChangedMessage{
		Path:      path,
		Timestamp: time.Now(),
	}
}

func (m *DocumentChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DocumentChangedMessageFromJSON(data []byte) (*DocumentChangedMessage, error) {
	var msg DocumentChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
