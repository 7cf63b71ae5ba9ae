package notification

import "time"

// Notification represents a notification in the system
type Notification struct {
	ID                int64     `json:"id"`
	RecipientID       int64     `json:"recipient_id"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Entity types a notification can point at
const (
	EntityExpense    = "EXPENSE"
	EntitySettlement = "SETTLEMENT"
	EntityGroup      = "GROUP"
)

// about builds an unsaved notification that points at an entity
func about(recipientID int64, message, entityType string, entityID int64) *Notification {
	return &Notification{
		RecipientID:       recipientID,
		Message:           message,
		RelatedEntityType: &entityType,
		RelatedEntityID:   &entityID,
	}
}

// Refers reports whether n points at the given entity
func (n *Notification) Refers(entityType string, entityID int64) bool {
	return n.RelatedEntityType != nil && *n.RelatedEntityType == entityType &&
		n.RelatedEntityID != nil && *n.RelatedEntityID == entityID
}
