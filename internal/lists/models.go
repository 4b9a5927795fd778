package lists

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List belongs to exactly one user via UserID.
type List struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	UserID    primitive.ObjectID `json:"_userId" bson:"_userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Task belongs to a list; ownership is inherited from the list.
type Task struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	ListID    primitive.ObjectID `json:"_listId" bson:"_listId"`
	Completed bool               `json:"completed" bson:"completed"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ListPatch is the set of list fields a client may change.
type ListPatch struct {
	Title *string `json:"title" binding:"omitempty,min=1"`
}

func (p ListPatch) IsEmpty() bool { return p.Title == nil }

// TaskPatch is the set of task fields a client may change.
type TaskPatch struct {
	Title     *string `json:"title" binding:"omitempty,min=1"`
	Completed *bool   `json:"completed"`
}

func (p TaskPatch) IsEmpty() bool { return p.Title == nil && p.Completed == nil }
