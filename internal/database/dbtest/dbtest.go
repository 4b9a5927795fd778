// Package dbtest provides disposable MongoDB databases for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tasklists/tasklists-api/internal/database"
	"go.mongodb.org/mongo-driver/mongo"
)

// Open connects to MONGODB_TEST_URI and returns a fresh, indexed
// database that is dropped when the test ends. The test is skipped when the
// variable is unset.
func Open(t testing.TB) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := database.ConnectMongo(ctx, uri, 5*time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database(fmt.Sprintf("tasklists_it_%s", uuid.NewString()[:8]))
	if err := database.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
