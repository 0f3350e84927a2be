package persistence

import (
	"context"
	"fmt"

	"coffee-chat/domain/audit"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InteractionRepository implements audit.InteractionRepository
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) audit.InteractionRepository {
	return &InteractionRepository{db: db}
}

// Create creates a new interaction record
func (r *InteractionRepository) Create(ctx context.Context, entity *audit.Interaction) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create interaction record: %w", err)
	}
	return nil
}

// FindByID finds an interaction record by ID
func (r *InteractionRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.Interaction, error) {
	var record audit.Interaction
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interaction record not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find interaction record: %w", err)
	}
	return &record, nil
}

// FindRecent returns the most recent interactions, newest first.
func (r *InteractionRepository) FindRecent(ctx context.Context, limit int) ([]*audit.Interaction, error) {
	var records []*audit.Interaction
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find recent interactions: %w", err)
	}
	return records, nil
}

// CountByStatus counts interactions in the given terminal state.
func (r *InteractionRepository) CountByStatus(ctx context.Context, status audit.InteractionStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&audit.Interaction{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}
