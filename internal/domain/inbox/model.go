package inbox

import (
	"time"

	"github.com/google/uuid"
)

// Message is a note sent between two clinic users.
type Message struct {
	ID            uuid.UUID `db:"id" json:"id"`
	SenderID      uuid.UUID `db:"sender_id" json:"sender_id"`
	SenderName    string    `db:"sender_name" json:"sender_name"`
	RecipientID   uuid.UUID `db:"recipient_id" json:"recipient_id"`
	RecipientName string    `db:"recipient_name" json:"recipient_name"`
	Subject       string    `db:"subject" json:"subject"`
	Body          string    `db:"body" json:"body"`
	Read          bool      `db:"read" json:"read"`
	SentAt        time.Time `db:"sent_at" json:"sent_at"`
}
