// Package session holds the authenticated identity client-side. The
// session moves between four states: signed out, loading while an
// authentication call is in flight, authenticated, and error with a
// retained message. The identity and its bearer token persist in two
// durable storage slots; both being present at startup means the
// previous session is still valid.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"instaclone/domain"
	"instaclone/errs"
	"instaclone/storage"
)

// The two persisted slots. They are written together on successful
// authentication and cleared together on logout.
const (
	userKey  = "instaclone_user"
	tokenKey = "instaclone_token"
)

// API is the part of the data service the session store drives.
type API interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, username, email, fullname, password string) (*domain.Session, error)
}

// Store is the client-side session store.
type Store struct {
	mu    sync.Mutex
	slots storage.Storage
	api   API

	user    *domain.Profile
	token   string
	loading bool
	errMsg  string
}

// New builds a session store over the given slot storage. If both the
// user and the token slot are present, the session starts out
// authenticated with the persisted identity.
func New(slots storage.Storage) *Store {
	s := &Store{slots: slots}
	userJSON, haveUser := slots.Get(userKey)
	token, haveToken := slots.Get(tokenKey)
	if haveUser && haveToken {
		var profile domain.Profile
		if err := json.Unmarshal([]byte(userJSON), &profile); err == nil {
			s.user = &profile
			s.token = token
		}
	}
	return s
}

// Use wires the data service in after construction. The data service
// and the session store reference each other (the service reads the
// current identity, the session store drives login), so one side has
// to bind late.
func (s *Store) Use(api API) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
}

// Authenticate logs the user in. On success the identity and token are
// persisted and the session becomes authenticated; on failure the
// error message is retained until ClearError and the authentication
// state is left as it was.
func (s *Store) Authenticate(ctx context.Context, email, password string) error {
	api := s.begin()
	sess, err := api.Authenticate(ctx, email, password)
	return s.finish(sess, err)
}

// Register creates a new account and, on success, signs it in exactly
// like Authenticate does.
func (s *Store) Register(ctx context.Context, username, email, fullname, password string) error {
	api := s.begin()
	sess, err := api.Register(ctx, username, email, fullname, password)
	return s.finish(sess, err)
}

func (s *Store) begin() API {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.errMsg = ""
	return s.api
}

func (s *Store) finish(sess *domain.Session, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = errs.ErrorMessage(err)
		return err
	}
	if err := s.persist(sess.User, sess.Token); err != nil {
		s.errMsg = errs.ErrorMessage(err)
		return err
	}
	user := sess.User
	s.user = &user
	s.token = sess.Token
	return nil
}

// persist writes both slots. Callers must hold the mutex.
func (s *Store) persist(user domain.Profile, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.slots.Set(userKey, string(data)); err != nil {
		return err
	}
	return s.slots.Set(tokenKey, token)
}

// Logout clears both persisted slots and returns to the signed-out
// state unconditionally.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots.Delete(userKey)
	s.slots.Delete(tokenKey)
	s.user = nil
	s.token = ""
	s.loading = false
	s.errMsg = ""
}

// ClearError drops the retained error message without touching the
// authentication state.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// Refresh replaces the session's profile in place, both in memory and
// in the persisted slot. It is a no-op unless the session is
// authenticated as the same account. The data service calls this after
// a profile update so the UI never shows stale identity data.
func (s *Store) Refresh(profile domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.ID != profile.ID {
		return
	}
	if data, err := json.Marshal(profile); err == nil {
		s.slots.Set(userKey, string(data))
	}
	s.user = &profile
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != ""
}

// Current returns a copy of the signed-in user's profile, or nil.
func (s *Store) Current() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Token returns the persisted bearer token, or the empty string.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Loading reports whether an authentication call is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the retained error message, or the empty string.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}
