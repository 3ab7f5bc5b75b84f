package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestMongo represents a MongoDB test instance
type TestMongo struct {
	Container *mongodb.MongoDBContainer
	Client    *mongo.Client
	URI       string
}

// SetupTestMongo starts a MongoDB test container and connects a client to it
func SetupTestMongo(t *testing.T) *TestMongo {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx,
		"mongo:7",
		testcontainers.WithLabels(containerLabels(t, "xenory-mongostore")),
	)
	require.NoError(t, err)

	tm := &TestMongo{Container: container}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if tm.Client != nil {
			_ = tm.Client.Disconnect(ctx)
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: Failed to terminate mongo container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	tm.Client = client
	tm.URI = uri
	return tm
}
