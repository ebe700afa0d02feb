// Package session holds the client's belief about the current user: an
// in-memory record mirrored to durable storage so it survives restarts.
// There are exactly two states, anonymous and authenticated, and exactly
// two writers, Login and Logout.
package session

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pybo-board/pybo-client/internal/models"
)

// Persistence is the durable backend behind the store. Implementations:
// a JSON file under the user config dir, and an in-memory fake for tests.
type Persistence interface {
	// Load returns the serialized record, or an error satisfying
	// errors.Is(err, ErrNoRecord) when nothing is persisted.
	Load() ([]byte, error)
	Save(data []byte) error
	Remove() error
}

// ErrNoRecord reports that no session record is persisted.
var ErrNoRecord = errors.New("session: no persisted record")

// record is the wire form of the persisted session.
type record struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type Store struct {
	mu      sync.RWMutex
	user    *models.User
	token   string
	persist Persistence
	log     *logrus.Logger
}

func NewStore(persist Persistence, log *logrus.Logger) *Store {
	return &Store{persist: persist, log: log}
}

// Restore loads the persisted record once at startup. The store enters the
// authenticated state only when both user and token are present and
// well-formed; anything else degrades silently to anonymous. Malformed
// persisted data is never surfaced as an error.
func (s *Store) Restore() {
	data, err := s.persist.Load()
	if err != nil {
		if !errors.Is(err, ErrNoRecord) {
			s.log.WithError(err).Debug("session restore failed, staying anonymous")
		}
		return
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.WithError(err).Debug("discarding malformed session record")
		return
	}
	if rec.User == nil || rec.User.Username == "" || rec.Token == "" {
		s.log.Debug("discarding partial session record")
		return
	}

	s.mu.Lock()
	s.user = rec.User
	s.token = rec.Token
	s.mu.Unlock()
}

// Login moves the store to the authenticated state, overwriting any
// previous session, and persists the full record.
func (s *Store) Login(user *models.User, token string) error {
	if user == nil || user.Username == "" || token == "" {
		return errors.New("session: login requires both user and token")
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()

	return s.persistState()
}

// Logout returns the store to the anonymous state. The cleared record is
// written out and then removed outright so absence is explicit.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.persistState(); err != nil {
		return err
	}
	return s.persist.Remove()
}

// Current returns the authenticated user and token, or (nil, "") when
// anonymous.
func (s *Store) Current() (*models.User, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) persistState() error {
	s.mu.RLock()
	rec := record{
		User:            s.user,
		Token:           s.token,
		IsAuthenticated: s.user != nil && s.token != "",
	}
	s.mu.RUnlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.persist.Save(data)
}
