package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InteractionStatus represents the terminal state of a chat interaction.
type InteractionStatus string

const (
	InteractionStatusCompleted InteractionStatus = "completed"
	InteractionStatusFailed    InteractionStatus = "failed"
)

// Interaction is the audit record of one completed (or failed) chat
// request. Written fire-and-forget after the response stream has ended.
type Interaction struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Message          string            `gorm:"type:text;not null" json:"message"`
	Response         string            `gorm:"type:text" json:"response"`
	Status           InteractionStatus `gorm:"type:varchar(50);not null;index" json:"status"`
	Error            string            `gorm:"type:text" json:"error,omitempty"`
	Streaming        bool              `gorm:"default:false" json:"streaming"`
	ResponseTimeMs   int64             `gorm:"default:0" json:"response_time_ms"`
	PromptTokens     int               `gorm:"default:0" json:"prompt_tokens"`
	CompletionTokens int               `gorm:"default:0" json:"completion_tokens"`
	CreatedAt        time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

// BeforeCreate hook for Interaction
func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for Interaction
func (Interaction) TableName() string {
	return "chat_interactions"
}

// RecordInteractionEvent is the async event carrying one interaction write.
type RecordInteractionEvent struct {
	Interaction Interaction `json:"interaction"`
}
