// Package cascade removes the tasks of deleted lists as tracked background jobs.
package cascade

import (
	"context"
	"sync"
	"time"
)

// Status is the lifecycle state of a cascade job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Record is the observable outcome of one cascade job.
type Record struct {
	JobID     string    `json:"jobId" bson:"jobId"`
	ListID    string    `json:"listId" bson:"listId"`
	Backend   string    `json:"backend" bson:"backend"`
	Status    Status    `json:"status" bson:"status"`
	Deleted   int64     `json:"deleted" bson:"deleted"`
	Error     string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Store persists job records. Get returns (nil, nil) for unknown ids.
type Store interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, jobID string) (*Record, error)
}

func touch(r *Record) {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// MemoryStore keeps records in process; used with the local backend when no
// shared store is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Save(ctx context.Context, r *Record) error {
	touch(r)
	m.mu.Lock()
	m.records[r.JobID] = *r
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, jobID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[jobID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}
