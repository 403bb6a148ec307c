package session_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaclone/domain"
	"instaclone/errs"
	"instaclone/session"
	"instaclone/storage"
)

// fakeAPI returns a canned session or error and records what it was
// asked.
type fakeAPI struct {
	sess      *domain.Session
	err       error
	lastEmail string
}

func (f *fakeAPI) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	f.lastEmail = email
	return f.sess, f.err
}

func (f *fakeAPI) Register(ctx context.Context, username, email, fullname, password string) (*domain.Session, error) {
	f.lastEmail = email
	return f.sess, f.err
}

func aliceSession() *domain.Session {
	return &domain.Session{
		User:  domain.Profile{ID: "1", Username: "alice", Email: "a@x.com"},
		Token: "token-abc",
	}
}

func TestNewStartsSignedOut(t *testing.T) {
	s := session.New(storage.NewMemory())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
}

func TestNewResumesFromSlots(t *testing.T) {
	slots := storage.NewMemory()
	data, err := json.Marshal(domain.Profile{ID: "1", Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, slots.Set("instaclone_user", string(data)))
	require.NoError(t, slots.Set("instaclone_token", "token-abc"))

	s := session.New(slots)
	assert.True(t, s.IsAuthenticated())
	require.NotNil(t, s.Current())
	assert.Equal(t, "alice", s.Current().Username)
	assert.Equal(t, "token-abc", s.Token())
}

func TestNewIgnoresLoneSlot(t *testing.T) {
	slots := storage.NewMemory()
	require.NoError(t, slots.Set("instaclone_token", "token-abc"))

	s := session.New(slots)
	assert.False(t, s.IsAuthenticated())
}

func TestAuthenticatePersistsBothSlots(t *testing.T) {
	slots := storage.NewMemory()
	s := session.New(slots)
	s.Use(&fakeAPI{sess: aliceSession()})

	require.NoError(t, s.Authenticate(context.Background(), "a@x.com", "secret1"))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "token-abc", s.Token())
	assert.False(t, s.Loading())

	userJSON, ok := slots.Get("instaclone_user")
	require.True(t, ok)
	var persisted domain.Profile
	require.NoError(t, json.Unmarshal([]byte(userJSON), &persisted))
	assert.Equal(t, "alice", persisted.Username)

	token, ok := slots.Get("instaclone_token")
	require.True(t, ok)
	assert.Equal(t, "token-abc", token)
}

func TestAuthenticateFailureRetainsMessage(t *testing.T) {
	slots := storage.NewMemory()
	s := session.New(slots)
	s.Use(&fakeAPI{err: errs.Errorf(errs.EUNAUTHORIZED, "Invalid credentials")})

	err := s.Authenticate(context.Background(), "a@x.com", "wrong")
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "Invalid credentials", s.Err())
	_, ok := slots.Get("instaclone_token")
	assert.False(t, ok)

	s.ClearError()
	assert.Empty(t, s.Err())
	assert.False(t, s.IsAuthenticated())
}

func TestRegisterSignsIn(t *testing.T) {
	api := &fakeAPI{sess: aliceSession()}
	s := session.New(storage.NewMemory())
	s.Use(api)

	require.NoError(t, s.Register(context.Background(), "alice", "a@x.com", "Alice A", "secret1"))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "a@x.com", api.lastEmail)
}

func TestLogoutClearsEverything(t *testing.T) {
	slots := storage.NewMemory()
	s := session.New(slots)
	s.Use(&fakeAPI{sess: aliceSession()})
	require.NoError(t, s.Authenticate(context.Background(), "a@x.com", "secret1"))

	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
	_, ok := slots.Get("instaclone_user")
	assert.False(t, ok)
	_, ok = slots.Get("instaclone_token")
	assert.False(t, ok)
}

func TestRefreshOnlyUpdatesSameAccount(t *testing.T) {
	slots := storage.NewMemory()
	s := session.New(slots)
	s.Use(&fakeAPI{sess: aliceSession()})
	require.NoError(t, s.Authenticate(context.Background(), "a@x.com", "secret1"))

	// A different account's profile is ignored.
	s.Refresh(domain.Profile{ID: "2", Username: "imposter"})
	assert.Equal(t, "alice", s.Current().Username)

	s.Refresh(domain.Profile{ID: "1", Username: "alice_renamed"})
	assert.Equal(t, "alice_renamed", s.Current().Username)

	userJSON, ok := slots.Get("instaclone_user")
	require.True(t, ok)
	var persisted domain.Profile
	require.NoError(t, json.Unmarshal([]byte(userJSON), &persisted))
	assert.Equal(t, "alice_renamed", persisted.Username)
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := session.New(storage.NewMemory())
	s.Use(&fakeAPI{sess: aliceSession()})
	require.NoError(t, s.Authenticate(context.Background(), "a@x.com", "secret1"))

	first := s.Current()
	first.Username = "mutated"
	assert.Equal(t, "alice", s.Current().Username)
}
