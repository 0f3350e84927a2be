package audit

import (
	"context"

	"github.com/google/uuid"
)

// InteractionRepository defines storage operations for interaction records.
type InteractionRepository interface {
	Create(ctx context.Context, entity *Interaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Interaction, error)
	FindRecent(ctx context.Context, limit int) ([]*Interaction, error)
	CountByStatus(ctx context.Context, status InteractionStatus) (int64, error)
}

// EventProcessor processes audit events asynchronously.
type EventProcessor interface {
	// Start begins processing events from the channel
	Start(ctx context.Context) error

	// Stop gracefully shuts down the event processor
	Stop() error

	// ProcessEvent sends an event to be processed asynchronously
	ProcessEvent(event interface{}) error

	// Health returns the health status of the processor
	Health() ProcessorHealth
}

// ProcessorHealth represents the health status of the event processor
type ProcessorHealth struct {
	IsRunning      bool  `json:"is_running"`
	QueueSize      int   `json:"queue_size"`
	ProcessedCount int64 `json:"processed_count"`
	ErrorCount     int64 `json:"error_count"`
}

// Sink is the fire-and-forget write surface the orchestrator uses. A
// failed or dropped write never fails the user-visible request.
type Sink interface {
	RecordCompleted(message, response string, responseTimeMs int64, promptTokens, completionTokens int, streaming bool)
	RecordFailed(message, errMsg string, responseTimeMs int64, streaming bool)
}

// DatabaseManager defines the interface for database management operations
type DatabaseManager interface {
	Connect(ctx context.Context, dsn string) error
	Close() error
	Migrate() error
	Health(ctx context.Context) error
	Interactions() InteractionRepository
}
