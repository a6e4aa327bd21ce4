package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/warelog/handheld-go/internal/domain/shared"
)

// SessionLogEntry represents a session log entry
type SessionLogEntry struct {
	ID        int
	TaskID    string
	ActionID  string
	Timestamp time.Time
	Level     string
	Message   string
	Fields    map[string]interface{}
}

// GormSessionLogRepository persists wizard session logs.
//
// Identical messages within the dedup window collapse into one row:
// scanner-driven flows repeat the same warning many times per minute and
// the device database is small.
type GormSessionLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormSessionLogRepository creates a new session log repository.
// If clock is nil, uses RealClock.
func NewGormSessionLogRepository(db *gorm.DB, clock shared.Clock) *GormSessionLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSessionLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  60 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry, deduplicating repeats within the window
func (r *GormSessionLogRepository) Log(ctx context.Context, taskID, actionID, level, message string, fields map[string]interface{}) error {
	now := r.clock.Now()

	key := taskID + "|" + actionID + "|" + message
	r.dedupMu.Lock()
	if last, seen := r.dedupCache[key]; seen && now.Sub(last) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.dedupCache = make(map[string]time.Time)
	}
	r.dedupCache[key] = now
	r.dedupMu.Unlock()

	var payload string
	if len(fields) > 0 {
		if encoded, err := json.Marshal(fields); err == nil {
			payload = string(encoded)
		}
	}

	model := &SessionLogModel{
		TaskID:    taskID,
		ActionID:  actionID,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Fields:    payload,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// GetLogs retrieves logs for an action, newest first
func (r *GormSessionLogRepository) GetLogs(ctx context.Context, actionID string, limit int, level *string, since *time.Time) ([]SessionLogEntry, error) {
	query := r.db.WithContext(ctx).Model(&SessionLogModel{}).Where("action_id = ?", actionID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	if since != nil {
		query = query.Where("timestamp >= ?", *since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []SessionLogModel
	if err := query.Order("timestamp DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]SessionLogEntry, 0, len(models))
	for _, model := range models {
		entry := SessionLogEntry{
			ID:        model.ID,
			TaskID:    model.TaskID,
			ActionID:  model.ActionID,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
		}
		if model.Fields != "" {
			_ = json.Unmarshal([]byte(model.Fields), &entry.Fields)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SessionLoggerAdapter bridges the repository to the context logger used
// by the application layer. Persistence failures are swallowed: logging
// must never break the wizard.
type SessionLoggerAdapter struct {
	repo     *GormSessionLogRepository
	taskID   string
	actionID string
}

// NewSessionLoggerAdapter creates a logger bound to one session
func NewSessionLoggerAdapter(repo *GormSessionLogRepository, taskID, actionID string) *SessionLoggerAdapter {
	return &SessionLoggerAdapter{repo: repo, taskID: taskID, actionID: actionID}
}

// Log satisfies common.SessionLogger
func (a *SessionLoggerAdapter) Log(level, message string, metadata map[string]interface{}) {
	_ = a.repo.Log(context.Background(), a.taskID, a.actionID, level, message, metadata)
}
