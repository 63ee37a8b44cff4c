package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
	"github.com/iamasit07/four-in-a-row-bot/pkg/uid"
)

const gameKeyPrefix = "game:"

var ErrGameNotFound = errors.New("game not found")

// CacheRepository is satisfied by the Redis wrapper and the in-memory cache.
// Get returns domain.ErrNotFound for a missing or expired key.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Store keeps game states as JSON with a sliding TTL.
type Store struct {
	cache CacheRepository
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*gameLock
}

// gameLock is shared by every caller currently holding or waiting on one
// game. The entry is dropped when refs falls to zero.
type gameLock struct {
	mu   sync.Mutex
	refs int
}

func NewStore(cache CacheRepository, ttl time.Duration) *Store {
	return &Store{
		cache: cache,
		ttl:   ttl,
		locks: make(map[string]*gameLock),
	}
}

// Create stores a fresh state under a new game id.
func (s *Store) Create(ctx context.Context, state State) (string, error) {
	gameID, err := uid.NewGameID()
	if err != nil {
		return "", err
	}
	if err := s.Save(ctx, gameID, state); err != nil {
		return "", err
	}
	return gameID, nil
}

func (s *Store) Load(ctx context.Context, gameID string) (State, error) {
	raw, err := s.cache.Get(ctx, gameKeyPrefix+gameID)
	if errors.Is(err, domain.ErrNotFound) {
		return State{}, ErrGameNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, fmt.Errorf("failed to decode game %s: %w", gameID, err)
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, gameID string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode game %s: %w", gameID, err)
	}
	if err := s.cache.Set(ctx, gameKeyPrefix+gameID, string(data), s.ttl); err != nil {
		return fmt.Errorf("failed to save game %s: %w", gameID, err)
	}
	return nil
}

// Delete removes the game. Callers that race with HandleLine must hold
// Lock(gameID).
func (s *Store) Delete(ctx context.Context, gameID string) error {
	return s.cache.Del(ctx, gameKeyPrefix+gameID)
}

// Lock serialises load-handle-save cycles on one game within this process
// and returns the unlock function, which must be called exactly once.
func (s *Store) Lock(gameID string) func() {
	s.mu.Lock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &gameLock{}
		s.locks[gameID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, gameID)
		}
		s.mu.Unlock()
	}
}
