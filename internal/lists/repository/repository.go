package repository

import (
	"context"

	"github.com/tasklists/tasklists-api/internal/lists"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the persistence contract for lists and tasks. Every list
// operation is filtered by owner; task operations are filtered by parent list
// and callers are expected to have checked list ownership first.
// Lookups that match nothing return (nil, nil).
type Repository interface {
	ListsByUser(ctx context.Context, userID primitive.ObjectID) ([]*lists.List, error)
	CreateList(ctx context.Context, l *lists.List) error
	FindList(ctx context.Context, listID, userID primitive.ObjectID) (*lists.List, error)
	UpdateList(ctx context.Context, listID, userID primitive.ObjectID, p lists.ListPatch) (bool, error)
	DeleteList(ctx context.Context, listID, userID primitive.ObjectID) (*lists.List, error)

	TasksByList(ctx context.Context, listID primitive.ObjectID) ([]*lists.Task, error)
	CreateTask(ctx context.Context, t *lists.Task) error
	UpdateTask(ctx context.Context, taskID, listID primitive.ObjectID, p lists.TaskPatch) (bool, error)
	DeleteTask(ctx context.Context, taskID, listID primitive.ObjectID) (*lists.Task, error)
	DeleteTasksByList(ctx context.Context, listID primitive.ObjectID) (int64, error)
}
