package models

import (
	"time"

	"github.com/ruralpay/ledgersim/internal/validation"
)

// SwiftMessage is an opaque interbank message. Content is never parsed.
type SwiftMessage struct {
	MessageID   string    `json:"message_id" validate:"required"`
	SenderBIC   string    `json:"sender_bic"`
	ReceiverBIC string    `json:"receiver_bic"`
	MessageType string    `json:"message_type"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	Processed   bool      `json:"processed"`
}

func NewSwiftMessage(id, senderBIC, receiverBIC, messageType, content string, now time.Time) (*SwiftMessage, error) {
	m := &SwiftMessage{
		MessageID:   id,
		SenderBIC:   senderBIC,
		ReceiverBIC: receiverBIC,
		MessageType: messageType,
		Content:     content,
		CreatedAt:   now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SwiftMessage) Validate() error {
	return validation.Default.Check(m)
}
