package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tasklists/tasklists-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-process user store used when no database is
// configured and in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[primitive.ObjectID]*models.User
	email map[string]primitive.ObjectID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[primitive.ObjectID]*models.User),
		email: make(map[string]primitive.ObjectID),
	}
}

func (m *MemoryRepository) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.email[u.Email]; ok {
		return ErrDuplicateEmail
	}
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	m.byID[u.ID] = u.Clone()
	m.email[u.Email] = u.ID
	return nil
}

func (m *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return nil, nil
	}
	return m.byID[id].Clone(), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		delete(m.email, u.Email)
		delete(m.byID, id)
	}
	return nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return u.Clone(), nil
}

func (m *MemoryRepository) AppendSession(ctx context.Context, id primitive.ObjectID, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.Hex())
	}
	u.Sessions = append(u.Sessions, s)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepository) FindByIDAndToken(ctx context.Context, id primitive.ObjectID, token string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	for _, s := range u.Sessions {
		if s.Token == token {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) RemoveSession(ctx context.Context, id primitive.ObjectID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil
	}
	kept := make([]models.Session, 0, len(u.Sessions))
	for _, s := range u.Sessions {
		if s.Token != token {
			kept = append(kept, s)
		}
	}
	u.Sessions = kept
	u.UpdatedAt = time.Now().UTC()
	return nil
}
