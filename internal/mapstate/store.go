package mapstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("no saved map session")

// ViewState is the camera position restored when a surveyor returns to the map
// after completing a survey.
type ViewState struct {
	Center [2]float64 `json:"center"`
	Zoom   float64    `json:"zoom"`
}

// MapSession is the ephemeral per-login map state that survives navigation.
type MapSession struct {
	ViewState *ViewState `json:"view_state,omitempty"`
	Basemap   string     `json:"basemap,omitempty"`
	Task      string     `json:"task,omitempty"`
	SavedAt   time.Time  `json:"saved_at"`
}

// Store keeps map sessions in Redis, keyed by auth session ID so the saved
// camera follows the login, not the device.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore connects a Redis-backed map session store.
func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewStoreWithClient(client), nil
}

// NewStoreWithClient creates a store from an existing Redis client.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{
		client: client,
		prefix: "mapsession:",
		// Matches the auth session lifetime
		ttl: 6 * time.Hour,
	}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save stores the map session for one login, refreshing its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, ms MapSession) error {
	ms.SavedAt = time.Now()

	data, err := json.Marshal(ms)
	if err != nil {
		return fmt.Errorf("marshal map session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save map session: %w", err)
	}
	return nil
}

// Load returns the saved map session, or ErrNoSession when nothing is stored.
func (s *Store) Load(ctx context.Context, sessionID string) (MapSession, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return MapSession{}, ErrNoSession
	}
	if err != nil {
		return MapSession{}, fmt.Errorf("load map session: %w", err)
	}

	var ms MapSession
	if err := json.Unmarshal([]byte(data), &ms); err != nil {
		return MapSession{}, fmt.Errorf("unmarshal map session: %w", err)
	}
	return ms, nil
}

// Clear drops the saved map session, typically on logout.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear map session: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks whether Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
