package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tasklists/tasklists-api/internal/lists"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on two collections. Indexes on _userId and
// _listId are created by database.EnsureIndexes.
type MongoRepo struct {
	lists *mongo.Collection
	tasks *mongo.Collection
}

func NewMongoRepo(listsCol, tasksCol *mongo.Collection) *MongoRepo {
	return &MongoRepo{lists: listsCol, tasks: tasksCol}
}

var byID = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

func (m *MongoRepo) ListsByUser(ctx context.Context, userID primitive.ObjectID) ([]*lists.List, error) {
	cur, err := m.lists.Find(ctx, bson.M{"_userId": userID}, byID)
	if err != nil {
		return nil, err
	}
	out := []*lists.List{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) CreateList(ctx context.Context, l *lists.List) error {
	now := time.Now().UTC()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	l.CreatedAt = now
	l.UpdatedAt = now
	_, err := m.lists.InsertOne(ctx, l)
	return err
}

func (m *MongoRepo) FindList(ctx context.Context, listID, userID primitive.ObjectID) (*lists.List, error) {
	var l lists.List
	err := m.lists.FindOne(ctx, bson.M{"_id": listID, "_userId": userID}).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (m *MongoRepo) UpdateList(ctx context.Context, listID, userID primitive.ObjectID, p lists.ListPatch) (bool, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	res, err := m.lists.UpdateOne(ctx, bson.M{"_id": listID, "_userId": userID}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoRepo) DeleteList(ctx context.Context, listID, userID primitive.ObjectID) (*lists.List, error) {
	var l lists.List
	err := m.lists.FindOneAndDelete(ctx, bson.M{"_id": listID, "_userId": userID}).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (m *MongoRepo) TasksByList(ctx context.Context, listID primitive.ObjectID) ([]*lists.Task, error) {
	cur, err := m.tasks.Find(ctx, bson.M{"_listId": listID}, byID)
	if err != nil {
		return nil, err
	}
	out := []*lists.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) CreateTask(ctx context.Context, t *lists.Task) error {
	now := time.Now().UTC()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := m.tasks.InsertOne(ctx, t)
	return err
}

func (m *MongoRepo) UpdateTask(ctx context.Context, taskID, listID primitive.ObjectID, p lists.TaskPatch) (bool, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Completed != nil {
		set["completed"] = *p.Completed
	}
	res, err := m.tasks.UpdateOne(ctx, bson.M{"_id": taskID, "_listId": listID}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoRepo) DeleteTask(ctx context.Context, taskID, listID primitive.ObjectID) (*lists.Task, error) {
	var t lists.Task
	err := m.tasks.FindOneAndDelete(ctx, bson.M{"_id": taskID, "_listId": listID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (m *MongoRepo) DeleteTasksByList(ctx context.Context, listID primitive.ObjectID) (int64, error) {
	res, err := m.tasks.DeleteMany(ctx, bson.M{"_listId": listID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
