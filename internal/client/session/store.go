package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/skillswap/internal/client/client"
	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/logging"
)

// TokenStore persists the session token between runs.
// metadata.Repository satisfies it.
type TokenStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Authenticator is the part of client.Client the store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*client.AuthResult, error)
	Register(ctx context.Context, r models.Registration) (*client.AuthResult, error)
}

// Change describes a token transition.
type Change struct {
	Epoch    uint64
	Previous models.SessionState
	Current  models.SessionState
}

// Listener is called synchronously after a token transition has been
// applied. It must not block and must not call back into SignOut.
type Listener func(ctx context.Context, ch Change)

type Store struct {
	auth   Authenticator
	tokens TokenStore
	log    logging.Logger

	// transition serializes Login/Register/SignOut so that the persisted
	// token always matches the in-memory one.
	transition sync.Mutex

	mu        sync.RWMutex
	token     string
	identity  *models.User
	subject   int64
	epoch     uint64
	listeners []Listener
}

// NewStore restores a persisted token, if any, into a token-only session.
func NewStore(ctx context.Context, auth Authenticator, tokens TokenStore, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}
	s := &Store{auth: auth, tokens: tokens, log: log.With("component", "session")}

	saved, err := tokens.Get(ctx, common.TokenMetadataKey)
	if err != nil {
		return nil, fmt.Errorf("restore session token: %w", err)
	}
	if len(saved) > 0 {
		s.token = string(saved)
		s.subject = subjectFromToken(s.token)
		s.log.Info(ctx, "restored persisted session", "state", models.TokenOnly.String(), "subject", s.subject)
	}
	return s, nil
}

// OnChange registers l for token transitions.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Current returns a copy of the in-memory session.
func (s *Store) Current() models.Session {
	sess, _ := s.Snapshot()
	return sess
}

// Snapshot returns the session together with its epoch. The epoch changes
// on every token transition.
func (s *Store) Snapshot() (models.Session, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Session{Token: s.token, Identity: cloneUser(s.identity)}, s.epoch
}

// Epoch returns the current session epoch.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Login authenticates with email and password. On failure the previous
// session is left untouched and an *client.AuthError is returned.
func (s *Store) Login(ctx context.Context, email, password string) (models.Session, error) {
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "login rejected", "email", email, "error", err)
		return s.Current(), &client.AuthError{Err: err}
	}
	return s.establish(ctx, res)
}

// Register creates an account and signs in as it. Failure semantics match
// Login.
func (s *Store) Register(ctx context.Context, r models.Registration) (models.Session, error) {
	res, err := s.auth.Register(ctx, r)
	if err != nil {
		s.log.Warn(ctx, "registration rejected", "email", r.Email, "error", err)
		return s.Current(), &client.AuthError{Err: err}
	}
	return s.establish(ctx, res)
}

func (s *Store) establish(ctx context.Context, res *client.AuthResult) (models.Session, error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	if err := s.tokens.Set(ctx, common.TokenMetadataKey, []byte(res.Token)); err != nil {
		return s.Current(), fmt.Errorf("persist session token: %w", err)
	}

	user := res.User
	s.mu.Lock()
	prev := s.stateLocked()
	s.token = res.Token
	s.identity = cloneUser(&user)
	s.subject = user.ID
	s.epoch++
	ch := Change{Epoch: s.epoch, Previous: prev, Current: models.SignedIn}
	sess := models.Session{Token: s.token, Identity: cloneUser(s.identity)}
	listeners := s.listeners
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user_id", user.ID, "epoch", ch.Epoch)
	notify(ctx, listeners, ch)
	return sess, nil
}

// SignOut clears token and identity and removes the persisted token. It is
// safe to call when already signed out. The in-memory session is cleared
// even if removing the persisted token fails; that error is returned.
func (s *Store) SignOut(ctx context.Context) error {
	s.transition.Lock()
	defer s.transition.Unlock()
	return s.signOutLocked(ctx)
}

// Expire signs out only if the session is still at epoch. It is used when
// the server rejects the token of a refresh started at that epoch.
func (s *Store) Expire(ctx context.Context, epoch uint64) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	if s.Epoch() != epoch {
		return nil
	}
	s.log.Warn(ctx, "session token rejected by server", "epoch", epoch)
	return s.signOutLocked(ctx)
}

func (s *Store) signOutLocked(ctx context.Context) error {
	s.mu.Lock()
	prev := s.stateLocked()
	var ch Change
	if prev != models.SignedOut {
		s.token = ""
		s.identity = nil
		s.subject = 0
		s.epoch++
		ch = Change{Epoch: s.epoch, Previous: prev, Current: models.SignedOut}
	}
	listeners := s.listeners
	s.mu.Unlock()

	err := s.tokens.Delete(ctx, common.TokenMetadataKey)
	if err != nil {
		err = fmt.Errorf("remove persisted session token: %w", err)
	}

	if prev != models.SignedOut {
		s.log.Info(ctx, "signed out", "epoch", ch.Epoch)
		notify(ctx, listeners, ch)
	}
	return err
}

// Resolve confirms or refreshes the identity from a users snapshot fetched
// at epoch. A token-only session becomes signed-in when users contains the
// id carried by the token; a signed-in session picks up the server copy of
// its own user. It reports whether the identity was set.
func (s *Store) Resolve(ctx context.Context, epoch uint64, users []models.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.token == "" {
		return false
	}
	want := s.subject
	if s.identity != nil {
		want = s.identity.ID
	}
	if want == 0 {
		return false
	}
	for i := range users {
		if users[i].ID == want {
			if s.identity == nil {
				s.log.Info(ctx, "session identity confirmed", "user_id", want)
			}
			s.identity = cloneUser(&users[i])
			return true
		}
	}
	return false
}

func (s *Store) stateLocked() models.SessionState {
	return models.Session{Token: s.token, Identity: s.identity}.State()
}

func notify(ctx context.Context, listeners []Listener, ch Change) {
	for _, l := range listeners {
		l(ctx, ch)
	}
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := u.Clone()
	return &c
}
