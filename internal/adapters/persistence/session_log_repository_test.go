package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/adapters/persistence"
	"github.com/warelog/handheld-go/internal/domain/shared"
	"github.com/warelog/handheld-go/test/helpers"
)

func newLogRepoFixture(t *testing.T) (*persistence.GormSessionLogRepository, *shared.MockClock) {
	t.Helper()
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	return persistence.NewGormSessionLogRepository(helpers.NewTestDB(t), clock), clock
}

func TestSessionLogRepository_RepeatedMessageCollapsesWithinWindow(t *testing.T) {
	// Arrange
	repo, clock := newLogRepoFixture(t)
	ctx := context.Background()

	// Act: the scanner fires the same warning three times in a minute
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Log(ctx, "task-1", "action-1", "WARN", "unknown barcode", nil))
		clock.Advance(10 * time.Second)
	}

	// Assert
	entries, err := repo.GetLogs(ctx, "action-1", 0, nil, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSessionLogRepository_MessageRepeatsAfterWindow(t *testing.T) {
	// Arrange
	repo, clock := newLogRepoFixture(t)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, "task-1", "action-1", "WARN", "unknown barcode", nil))
	clock.Advance(61 * time.Second)
	require.NoError(t, repo.Log(ctx, "task-1", "action-1", "WARN", "unknown barcode", nil))

	// Assert
	entries, err := repo.GetLogs(ctx, "action-1", 0, nil, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSessionLogRepository_GetLogsFiltersByLevel(t *testing.T) {
	// Arrange
	repo, clock := newLogRepoFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Log(ctx, "task-1", "action-1", "INFO", "step advanced", nil))
	clock.Advance(time.Second)
	require.NoError(t, repo.Log(ctx, "task-1", "action-1", "ERROR", "submission failed",
		map[string]interface{}{"reason": "lot 77 already fully booked"}))

	// Act
	level := "ERROR"
	entries, err := repo.GetLogs(ctx, "action-1", 10, &level, nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "submission failed", entries[0].Message)
	assert.Equal(t, "lot 77 already fully booked", entries[0].Fields["reason"])
}

func TestSessionLogRepository_DistinctActionsDoNotDeduplicate(t *testing.T) {
	// Arrange
	repo, _ := newLogRepoFixture(t)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Log(ctx, "task-1", "action-1", "WARN", "unknown barcode", nil))
	require.NoError(t, repo.Log(ctx, "task-1", "action-2", "WARN", "unknown barcode", nil))

	// Assert
	first, err := repo.GetLogs(ctx, "action-1", 0, nil, nil)
	require.NoError(t, err)
	second, err := repo.GetLogs(ctx, "action-2", 0, nil, nil)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}
