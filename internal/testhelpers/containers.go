package testhelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func startContainer(t *testing.T, image, port string, strategy wait.Strategy) (host string, mapped string) {
	t.Helper()
	RequireDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port},
			WaitingFor:   strategy,
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start %s container: %v", image, err)
	}
	terminateOnCleanup(t, container)

	host, err = container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	p, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}
	return host, p.Port()
}

// SetupTestRedis starts a Redis container and returns a connected client.
func SetupTestRedis(t *testing.T) *redis.Client {
	host, port := startContainer(t, "redis:7-alpine", "6379/tcp",
		wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second))

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port)})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("failed to ping redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// SetupTestMongo starts a MongoDB container and returns an empty database.
func SetupTestMongo(t *testing.T) *mongo.Database {
	host, port := startContainer(t, "mongo:7", "27017/tcp",
		wait.ForListeningPort("27017/tcp").WithStartupTimeout(60*time.Second))

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(fmt.Sprintf("mongodb://%s:%s", host, port)))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("ecochef_test")
}
