package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tasklists/tasklists-api/internal/lists"
	"github.com/tasklists/tasklists-api/internal/lists/repository"
	"github.com/tasklists/tasklists-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyTitle = errors.New("title must not be empty")
	ErrEmptyPatch = errors.New("no updatable fields in request")
)

// Cascader schedules removal of a deleted list's tasks.
type Cascader interface {
	Enqueue(ctx context.Context, listID primitive.ObjectID) (string, error)
}

// Service defines the list and task operations used by the handler layer.
// userID is the hex id taken from a verified access token.
type Service interface {
	Lists(ctx context.Context, userID string) ([]*lists.List, error)
	CreateList(ctx context.Context, userID, title string) (*lists.List, error)
	UpdateList(ctx context.Context, userID, listID string, p lists.ListPatch) error
	DeleteList(ctx context.Context, userID, listID string) (*lists.List, error)

	Tasks(ctx context.Context, userID, listID string) ([]*lists.Task, error)
	CreateTask(ctx context.Context, userID, listID, title string) (*lists.Task, error)
	UpdateTask(ctx context.Context, userID, listID, taskID string, p lists.TaskPatch) error
	DeleteTask(ctx context.Context, userID, listID, taskID string) (*lists.Task, error)
}

// New returns a Service over repo. cascade may be nil, in which case tasks
// of deleted lists are left in place.
func New(repo repository.Repository, cascade Cascader) Service {
	return &listService{repo: repo, cascade: cascade}
}

type listService struct {
	repo    repository.Repository
	cascade Cascader
}

// parseIDs converts hex ids; ok is false when any of them is malformed, which
// callers treat the same as "no match".
func parseIDs(hex ...string) ([]primitive.ObjectID, bool) {
	out := make([]primitive.ObjectID, len(hex))
	for i, h := range hex {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, false
		}
		out[i] = id
	}
	return out, true
}

func cleanTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ErrEmptyTitle
	}
	return t, nil
}

func (s *listService) Lists(ctx context.Context, userID string) ([]*lists.List, error) {
	ids, ok := parseIDs(userID)
	if !ok {
		return []*lists.List{}, nil
	}
	return s.repo.ListsByUser(ctx, ids[0])
}

func (s *listService) CreateList(ctx context.Context, userID, title string) (*lists.List, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	ids, ok := parseIDs(userID)
	if !ok {
		return nil, fmt.Errorf("invalid user id %q", userID)
	}
	l := &lists.List{Title: title, UserID: ids[0]}
	if err := s.repo.CreateList(ctx, l); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return l, nil
}

// UpdateList applies p to the caller's list. A list that does not match is
// not an error.
func (s *listService) UpdateList(ctx context.Context, userID, listID string, p lists.ListPatch) error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Title != nil {
		t, err := cleanTitle(*p.Title)
		if err != nil {
			return err
		}
		p.Title = &t
	}
	ids, ok := parseIDs(listID, userID)
	if !ok {
		return nil
	}
	if _, err := s.repo.UpdateList(ctx, ids[0], ids[1], p); err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

// DeleteList removes the caller's list and schedules its tasks for deletion.
// Returns nil when nothing matched; no job is scheduled then.
func (s *listService) DeleteList(ctx context.Context, userID, listID string) (*lists.List, error) {
	ids, ok := parseIDs(listID, userID)
	if !ok {
		return nil, nil
	}
	removed, err := s.repo.DeleteList(ctx, ids[0], ids[1])
	if err != nil {
		return nil, fmt.Errorf("delete list: %w", err)
	}
	if removed == nil || s.cascade == nil {
		return removed, nil
	}
	jobID, err := s.cascade.Enqueue(ctx, removed.ID)
	if err != nil {
		logger.Errorf("cascade: enqueue for list %s failed: %v", removed.ID.Hex(), err)
		return removed, nil
	}
	logger.Debugf("cascade: job %s scheduled for list %s", jobID, removed.ID.Hex())
	return removed, nil
}

// ownedList resolves listID to an ObjectID when the list belongs to userID.
func (s *listService) ownedList(ctx context.Context, userID, listID string) (primitive.ObjectID, error) {
	ids, ok := parseIDs(listID, userID)
	if !ok {
		return primitive.NilObjectID, ErrNotFound
	}
	l, err := s.repo.FindList(ctx, ids[0], ids[1])
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("find list: %w", err)
	}
	if l == nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return l.ID, nil
}

func (s *listService) Tasks(ctx context.Context, userID, listID string) ([]*lists.Task, error) {
	lid, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	return s.repo.TasksByList(ctx, lid)
}

func (s *listService) CreateTask(ctx context.Context, userID, listID, title string) (*lists.Task, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	lid, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	t := &lists.Task{Title: title, ListID: lid}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *listService) UpdateTask(ctx context.Context, userID, listID, taskID string, p lists.TaskPatch) error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Title != nil {
		t, err := cleanTitle(*p.Title)
		if err != nil {
			return err
		}
		p.Title = &t
	}
	lid, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return err
	}
	ids, ok := parseIDs(taskID)
	if !ok {
		return nil
	}
	if _, err := s.repo.UpdateTask(ctx, ids[0], lid, p); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// DeleteTask returns the removed task, or nil when the owned list has no such task.
func (s *listService) DeleteTask(ctx context.Context, userID, listID, taskID string) (*lists.Task, error) {
	lid, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	ids, ok := parseIDs(taskID)
	if !ok {
		return nil, nil
	}
	removed, err := s.repo.DeleteTask(ctx, ids[0], lid)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return removed, nil
}
