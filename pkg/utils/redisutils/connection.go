// The redisutils package simplifies and automates recurring operations like
// connecting to, formatting for, and parsing from Redis.
package redisutils

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
)

const (
	defaultProdAddress string = "localhost:6379"
	defaultTestAddress string = "localhost:6380"
)

// SetupProdClient() initializes a new Redis client for production.
// The address is read from REDIS_ADDRESS when set.
func SetupProdClient() *redis.Client {
	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		address = defaultProdAddress
	}

	return redis.NewClient(&redis.Options{
		Addr: address,
	})
}

// SetupTestClient() initializes a new Redis client for tests.
func SetupTestClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: defaultTestAddress,
	})
}

// CleanupRedis() cleans up the Redis database between tests to ensure isolation.
func CleanupRedis(client *redis.Client) {
	client.FlushAll(context.Background())
}

// Available() reports whether the client can reach its Redis server.
// Tests use it to skip when no test server is running.
func Available(client *redis.Client) bool {
	return client.Ping(context.Background()).Err() == nil
}
