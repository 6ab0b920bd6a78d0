package credstore

import (
	"context"
	"fmt"
	"time"

	"sealgate/pkg/models"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the credential pair in a single Redis hash. HSET writes
// both fields in one command and DEL drops the whole key, so the pair
// invariant holds without client-side locking.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisStoreConfig holds configuration for the Redis-backed store
type RedisStoreConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// NewRedisStore creates a Redis-backed credential store and verifies the
// connection.
func NewRedisStore(config RedisStoreConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := config.Key
	if key == "" {
		key = "sealgate:credential"
	}

	return &RedisStore{client: client, key: key}, nil
}

// Get reads the stored pair. A missing key means no credential.
func (s *RedisStore) Get(ctx context.Context) (models.Credential, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to read credential: %w", err)
	}

	cred := models.Credential{Token: fields["token"], Email: fields["email"]}
	if cred.Token == "" || cred.Email == "" {
		return models.Credential{}, nil
	}
	return cred, nil
}

// Set writes the token/email pair in a single HSET.
func (s *RedisStore) Set(ctx context.Context, token, email string) error {
	if token == "" || email == "" {
		return models.ErrIncompleteCredential
	}

	if err := s.client.HSet(ctx, s.key, "token", token, "email", email).Err(); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Clear deletes the credential key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
