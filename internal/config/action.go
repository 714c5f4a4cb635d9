// Path: internal/config/action.go
package config

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ActionStatus represents the current state of a recorded bulk action
type ActionStatus string

const (
	ActionStatusPending    ActionStatus = "pending"
	ActionStatusProcessing ActionStatus = "processing"
	ActionStatusCompleted  ActionStatus = "completed"
	ActionStatusFailed     ActionStatus = "failed"
)

// ActionRecord is the audit entry of one bulk action request.
type ActionRecord struct {
	// ID is the unique identifier returned in the X-Bulk-Action-Id header
	ID string
	// Action is the bulk action type, e.g. "edit" or "delete"
	Action string
	// DryRun is true when the action was only simulated
	DryRun bool
	// Status is the current state (pending, processing, completed, or failed)
	Status    ActionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	// Succeeded, Skipped, Failed and Total mirror the response summary
	Succeeded int
	Skipped   int
	Failed    int
	Total     int
	// Message is a human-readable status message
	Message string
}

// ActionStore keeps the most recent bulk action records in memory. Once it
// holds its limit, creating a record evicts the oldest one.
type ActionStore struct {
	// mu guards the records themselves; the cache locks its own index.
	mu      sync.RWMutex
	actions *lru.Cache[string, *ActionRecord]
}

// NewActionStore creates a store that keeps DefaultActionHistory records
func NewActionStore() *ActionStore {
	return NewBoundedActionStore(DefaultActionHistory)
}

// NewBoundedActionStore creates a store holding at most maxRecords records.
// Values below one are raised to one.
func NewBoundedActionStore(maxRecords int) *ActionStore {
	actions, _ := lru.New[string, *ActionRecord](max(maxRecords, 1))
	return &ActionStore{actions: actions}
}

// CreateAction records a new action with pending status
func (s *ActionStore) CreateAction(id, action string, dryRun bool) *ActionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	record := &ActionRecord{
		ID:        id,
		Action:    action,
		DryRun:    dryRun,
		Status:    ActionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Message:   "Bulk action received",
	}
	s.actions.Add(id, record)
	return record
}

// Len returns the number of records currently held
func (s *ActionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actions.Len()
}

// GetAction returns a copy of the record so callers never race with updates
func (s *ActionStore) GetAction(id string) (ActionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Peek leaves the eviction order untouched.
	record, exists := s.actions.Peek(id)
	if !exists {
		return ActionRecord{}, false
	}
	return *record, true
}

// UpdateAction updates a record's status and data
func (s *ActionStore) UpdateAction(id string, updateFn func(*ActionRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.actions.Peek(id)
	if !exists {
		return fmt.Errorf("bulk action %s not found", id)
	}
	updateFn(record)
	record.UpdatedAt = time.Now()
	return nil
}
