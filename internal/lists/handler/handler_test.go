package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tasklists/tasklists-api/internal/lists/repository"
	"github.com/tasklists/tasklists-api/internal/lists/service"
	"github.com/tasklists/tasklists-api/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testUserHeader = "X-Test-User"

type noopCascade struct{ listIDs []primitive.ObjectID }

func (n *noopCascade) Enqueue(ctx context.Context, listID primitive.ObjectID) (string, error) {
	n.listIDs = append(n.listIDs, listID)
	return "job", nil
}

// newEngine stands in for Authenticate by trusting a test header.
func newEngine(cascade service.Cascader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	rg := g.Group("/", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, c.GetHeader(testUserHeader))
		c.Next()
	})
	RegisterListRoutes(rg, service.New(repository.NewMemoryRepo(), cascade))
	return g
}

func do(t *testing.T, g *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(testUserHeader, user)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestListHandler_CRUD(t *testing.T) {
	cascade := &noopCascade{}
	g := newEngine(cascade)
	user := primitive.NewObjectID().Hex()

	w := do(t, g, http.MethodPost, "/lists", user, `{"title":"groceries"}`)
	require.Equal(t, http.StatusOK, w.Code)
	created := decode(t, w)
	id := created["_id"].(string)
	require.Equal(t, "groceries", created["title"])
	require.Equal(t, user, created["_userId"])

	w = do(t, g, http.MethodGet, "/lists", user, "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)

	w = do(t, g, http.MethodPatch, "/lists/"+id, user, `{"title":"food","_userId":"ignored"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"Updated successfully"}`, w.Body.String())

	w = do(t, g, http.MethodGet, "/lists", user, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Equal(t, "food", all[0]["title"])
	require.Equal(t, user, all[0]["_userId"])

	w = do(t, g, http.MethodDelete, "/lists/"+id, user, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, id, decode(t, w)["_id"])
	require.Len(t, cascade.listIDs, 1)

	w = do(t, g, http.MethodDelete, "/lists/"+id, user, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "null", w.Body.String())
	require.Len(t, cascade.listIDs, 1)
}

func TestListHandler_Validation(t *testing.T) {
	g := newEngine(nil)
	user := primitive.NewObjectID().Hex()

	w := do(t, g, http.MethodPost, "/lists", user, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	require.Equal(t, map[string]interface{}{"title": "required"}, body["fields"])

	w = do(t, g, http.MethodPost, "/lists", user, `{"title":"   "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, g, http.MethodPost, "/lists", user, `{"title":"ok"}`)
	id := decode(t, w)["_id"].(string)

	w = do(t, g, http.MethodPatch, "/lists/"+id, user, `{"color":"red"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, g, http.MethodPatch, "/lists/"+id, user, `{"title":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_OwnershipAndCRUD(t *testing.T) {
	g := newEngine(nil)
	alice, bob := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	w := do(t, g, http.MethodPost, "/lists", alice, `{"title":"work"}`)
	listID := decode(t, w)["_id"].(string)

	w = do(t, g, http.MethodPost, "/lists/"+listID+"/tasks", bob, `{"title":"steal"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Empty(t, w.Body.String())

	w = do(t, g, http.MethodGet, "/lists/"+listID+"/tasks", bob, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, g, http.MethodPost, "/lists/"+listID+"/tasks", alice, `{"title":"report"}`)
	require.Equal(t, http.StatusOK, w.Code)
	task := decode(t, w)
	taskID := task["_id"].(string)
	require.Equal(t, listID, task["_listId"])
	require.Equal(t, false, task["completed"])

	w = do(t, g, http.MethodPatch, "/lists/"+listID+"/tasks/"+taskID, bob, `{"completed":true}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, g, http.MethodPatch, "/lists/"+listID+"/tasks/"+taskID, alice, `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, g, http.MethodGet, "/lists/"+listID+"/tasks", alice, "")
	var tasks []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, true, tasks[0]["completed"])

	w = do(t, g, http.MethodDelete, "/lists/"+listID+"/tasks/"+taskID, bob, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, g, http.MethodDelete, "/lists/"+listID+"/tasks/"+taskID, alice, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, taskID, decode(t, w)["_id"])

	w = do(t, g, http.MethodDelete, "/lists/"+listID+"/tasks/"+taskID, alice, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "null", w.Body.String())
}

func TestListHandler_MalformedIDs(t *testing.T) {
	g := newEngine(nil)
	user := primitive.NewObjectID().Hex()

	w := do(t, g, http.MethodGet, "/lists/zzz/tasks", user, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, g, http.MethodDelete, "/lists/zzz", user, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "null", w.Body.String())

	w = do(t, g, http.MethodPatch, "/lists/zzz", user, `{"title":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
}
