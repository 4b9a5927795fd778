package repository

import (
	"context"
	"sync"
	"time"

	"github.com/tasklists/tasklists-api/internal/lists"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Repository used for tests and when no database
// is configured. Insertion order is preserved.
type MemoryRepo struct {
	mu    sync.RWMutex
	lists []*lists.List
	tasks []*lists.Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func cloneList(l *lists.List) *lists.List { cp := *l; return &cp }
func cloneTask(t *lists.Task) *lists.Task { cp := *t; return &cp }

func (m *MemoryRepo) ListsByUser(ctx context.Context, userID primitive.ObjectID) ([]*lists.List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*lists.List{}
	for _, l := range m.lists {
		if l.UserID == userID {
			out = append(out, cloneList(l))
		}
	}
	return out, nil
}

func (m *MemoryRepo) CreateList(ctx context.Context, l *lists.List) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt
	m.lists = append(m.lists, cloneList(l))
	return nil
}

func (m *MemoryRepo) findList(listID, userID primitive.ObjectID) int {
	for i, l := range m.lists {
		if l.ID == listID && l.UserID == userID {
			return i
		}
	}
	return -1
}

func (m *MemoryRepo) FindList(ctx context.Context, listID, userID primitive.ObjectID) (*lists.List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.findList(listID, userID); i >= 0 {
		return cloneList(m.lists[i]), nil
	}
	return nil, nil
}

func (m *MemoryRepo) UpdateList(ctx context.Context, listID, userID primitive.ObjectID, p lists.ListPatch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findList(listID, userID)
	if i < 0 {
		return false, nil
	}
	if p.Title != nil {
		m.lists[i].Title = *p.Title
	}
	m.lists[i].UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MemoryRepo) DeleteList(ctx context.Context, listID, userID primitive.ObjectID) (*lists.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findList(listID, userID)
	if i < 0 {
		return nil, nil
	}
	removed := m.lists[i]
	m.lists = append(m.lists[:i], m.lists[i+1:]...)
	return removed, nil
}

func (m *MemoryRepo) TasksByList(ctx context.Context, listID primitive.ObjectID) ([]*lists.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*lists.Task{}
	for _, t := range m.tasks {
		if t.ListID == listID {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

func (m *MemoryRepo) CreateTask(ctx context.Context, t *lists.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	m.tasks = append(m.tasks, cloneTask(t))
	return nil
}

func (m *MemoryRepo) findTask(taskID, listID primitive.ObjectID) int {
	for i, t := range m.tasks {
		if t.ID == taskID && t.ListID == listID {
			return i
		}
	}
	return -1
}

func (m *MemoryRepo) UpdateTask(ctx context.Context, taskID, listID primitive.ObjectID, p lists.TaskPatch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findTask(taskID, listID)
	if i < 0 {
		return false, nil
	}
	if p.Title != nil {
		m.tasks[i].Title = *p.Title
	}
	if p.Completed != nil {
		m.tasks[i].Completed = *p.Completed
	}
	m.tasks[i].UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MemoryRepo) DeleteTask(ctx context.Context, taskID, listID primitive.ObjectID) (*lists.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findTask(taskID, listID)
	if i < 0 {
		return nil, nil
	}
	removed := m.tasks[i]
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return removed, nil
}

func (m *MemoryRepo) DeleteTasksByList(ctx context.Context, listID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tasks[:0]
	var n int64
	for _, t := range m.tasks {
		if t.ListID == listID {
			n++
			continue
		}
		kept = append(kept, t)
	}
	m.tasks = kept
	return n, nil
}
