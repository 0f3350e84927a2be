package persistence

import (
	"context"
	"testing"

	"coffee-chat/domain/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&audit.Interaction{}))
	return db
}

func TestInteractionRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	record := &audit.Interaction{
		Message:          "Is it raining near the shop?",
		Response:         "Light drizzle at 54F.",
		Status:           audit.InteractionStatusCompleted,
		Streaming:        true,
		ResponseTimeMs:   812,
		PromptTokens:     120,
		CompletionTokens: 34,
	}

	require.NoError(t, repo.Create(ctx, record))
	assert.NotEmpty(t, record.ID)

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Message, found.Message)
	assert.Equal(t, record.Response, found.Response)
	assert.Equal(t, audit.InteractionStatusCompleted, found.Status)
	assert.Equal(t, 120, found.PromptTokens)
}

func TestInteractionRepository_FindRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &audit.Interaction{
			Message: "message",
			Status:  audit.InteractionStatusCompleted,
		}))
	}

	records, err := repo.FindRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestInteractionRepository_CountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &audit.Interaction{Message: "a", Status: audit.InteractionStatusCompleted}))
	require.NoError(t, repo.Create(ctx, &audit.Interaction{Message: "b", Status: audit.InteractionStatusCompleted}))
	require.NoError(t, repo.Create(ctx, &audit.Interaction{Message: "c", Status: audit.InteractionStatusFailed, Error: "boom"}))

	completed, err := repo.CountByStatus(ctx, audit.InteractionStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(2), completed)

	failed, err := repo.CountByStatus(ctx, audit.InteractionStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), failed)
}

func TestInteractionRepository_FindByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInteractionRepository(db)

	record := &audit.Interaction{Message: "x", Status: audit.InteractionStatusCompleted}
	require.NoError(t, repo.Create(context.Background(), record))

	other := *record
	other.ID[0] ^= 0xff
	_, err := repo.FindByID(context.Background(), other.ID)
	assert.Error(t, err)
}
