package sessions

import (
	"context"

	"github.com/tasklists/tasklists-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository persists sessions embedded in user documents.
// Implemented by the user repositories.
type Repository interface {
	// AppendSession adds s to the user's sessions without touching existing entries.
	AppendSession(ctx context.Context, userID primitive.ObjectID, s models.Session) error
	// FindByIDAndToken returns the user whose id matches and whose sessions
	// contain token, or nil when there is none.
	FindByIDAndToken(ctx context.Context, userID primitive.ObjectID, token string) (*models.User, error)
	// RemoveSession drops every session carrying token.
	RemoveSession(ctx context.Context, userID primitive.ObjectID, token string) error
}
