package notification

import (
	"encoding/json"
	"time"
)

// Categories
const (
	CategoryBulletin = "bulletin"
	CategoryNote     = "note"
	CategorySystem   = "systeme"
)

// Priorities
const (
	PriorityLow    = "basse"
	PriorityNormal = "normale"
	PriorityHigh   = "haute"
)

type Notification struct {
	ID          string          `json:"id"`
	RecipientID string          `json:"recipient_id"`
	ActorID     string          `json:"actor_id"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	Category    string          `json:"category"`
	Priority    string          `json:"priority"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Link        string          `json:"link,omitempty"`
	IsRead      bool            `json:"is_read"`
	CreatedAt   time.Time       `json:"created_at"` // UTC
}

// NewNotification contains what is needed to notify a user.
// Payload is marshalled to JSON when set. ActorID is empty for system notifications.
type NewNotification struct {
	RecipientID string      `validate:"required"`
	ActorID     string
	Title       string      `validate:"required"`
	Body        string      `validate:"required"`
	Category    string      `validate:"required,oneof=bulletin note systeme"`
	Priority    string      `validate:"required,oneof=basse normale haute"`
	Payload     interface{} `validate:"-"`
	Link        string
}

type QueryFilter struct {
	IsRead *bool `query:"is_read"`
}
