package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"uid-intake-bot/internal/constants"
	"uid-intake-bot/internal/models"
)

// userLock is a user's mutex plus the number of holders and waiters
type userLock struct {
	mu   sync.Mutex
	refs int
}

// UserStateService manages user conversation states
type UserStateService struct {
	cache  *cache.Cache
	locksM sync.Mutex
	locks  map[int64]*userLock
	logger *logrus.Logger
}

// NewUserStateService creates a new user state service.
// A ttl of zero keeps states until they are cleared.
func NewUserStateService(ttl time.Duration, logger *logrus.Logger) *UserStateService {
	expiration := ttl
	if ttl == 0 {
		expiration = cache.NoExpiration
	}

	return &UserStateService{
		cache:  cache.New(expiration, constants.StateCleanupInterval*time.Minute),
		locks:  make(map[int64]*userLock),
		logger: logger,
	}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("user_state_%d", userID)
}

// GetState gets a user's state; found is false when the user has no active flow
func (s *UserStateService) GetState(userID int64) (models.UserState, bool) {
	if data, found := s.cache.Get(stateKey(userID)); found {
		if state, ok := data.(models.UserState); ok {
			return state, true
		}
		s.logger.Warnf("Invalid state type for user %d, treating as idle", userID)
	}

	return models.UserState{State: models.Idle}, false
}

// SetState sets a user's state
func (s *UserStateService) SetState(userID int64, state models.UserState) {
	if state.State == models.Idle {
		s.ClearState(userID)
		return
	}

	s.cache.Set(stateKey(userID), state, cache.DefaultExpiration)
	s.logger.Debugf("Set state for user %d: %s", userID, state.State)
}

// ClearState clears a user's state
func (s *UserStateService) ClearState(userID int64) {
	s.cache.Delete(stateKey(userID))
	s.logger.Debugf("Cleared state for user %d", userID)
}

// Lock serializes handling for one user and returns the unlock function.
// Different users never wait on each other; a lock is dropped once nobody holds or waits for it.
func (s *UserStateService) Lock(userID int64) func() {
	s.locksM.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.locksM.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			s.locksM.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, userID)
			}
			s.locksM.Unlock()
		})
	}
}

// lockCount returns the number of users holding or waiting for a lock
func (s *UserStateService) lockCount() int {
	s.locksM.Lock()
	defer s.locksM.Unlock()
	return len(s.locks)
}

// ActiveCount returns the number of users with an open flow
func (s *UserStateService) ActiveCount() int {
	return s.cache.ItemCount()
}
