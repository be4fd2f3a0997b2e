package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Zaheeroo/tejidosyami-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CheckoutSession maps a provider reference back to the order it pays.
// Webhooks that carry only a provider reference are resolved through it,
// and the cart snapshot lets a webhook-first delivery create the order
// lazily.
type CheckoutSession struct {
	OrderID   string               `json:"order_id"`
	Provider  string               `json:"provider"`
	Amount    float64              `json:"amount"`
	Currency  string               `json:"currency"`
	UserID    string               `json:"user_id,omitempty"`
	Cart      *domain.CartSnapshot `json:"cart,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// NewRedisClient initializes and returns a Redis client.
func NewRedisClient(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Invalid Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	return client
}

func (s *Store) key(providerRef string) string {
	return fmt.Sprintf("checkout:ref:%s", providerRef)
}

func (s *Store) Save(ctx context.Context, providerRef string, sess *CheckoutSession) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.key(providerRef), data, s.ttl).Err()
}

// Get returns nil, nil when no session exists for the reference.
func (s *Store) Get(ctx context.Context, providerRef string) (*CheckoutSession, error) {
	data, err := s.client.Get(ctx, s.key(providerRef)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess CheckoutSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, providerRef string) error {
	return s.client.Del(ctx, s.key(providerRef)).Err()
}
