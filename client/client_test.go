package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"instaclone/client"
	"instaclone/domain"
	"instaclone/errs"
	"instaclone/store"
)

// fakeSessions is the minimal session state the client reads.
type fakeSessions struct {
	current   *domain.Profile
	token     string
	refreshed *domain.Profile
}

func (f *fakeSessions) Current() *domain.Profile { return f.current }

func (f *fakeSessions) Token() string { return f.token }

func (f *fakeSessions) Refresh(profile domain.Profile) { f.refreshed = &profile }

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newLocalStore(t *testing.T) *store.Store {
	t.Helper()
	var tick int64
	return store.New(
		store.WithBcryptCost(bcrypt.MinCost),
		store.WithClock(func() int64 {
			tick++
			return tick
		}),
	)
}

// unreachableURL points at a server that has already been shut down, so
// every request fails at the transport layer.
func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	return url
}

func newOfflineClient(t *testing.T, local *store.Store, sessions *fakeSessions) *client.Client {
	t.Helper()
	return client.New(unreachableURL(t), local, sessions,
		client.WithLogger(quietLogger()),
		client.WithoutLatency(),
	)
}

func TestFallsBackWhenServerUnreachable(t *testing.T) {
	local := newLocalStore(t)
	c := newOfflineClient(t, local, &fakeSessions{})
	ctx := context.Background()

	sess, err := c.Register(ctx, "alice", "a@x.com", "Alice A", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "1", sess.User.ID)
	assert.Equal(t, domain.PlaceholderToken, sess.Token)

	again, err := c.Authenticate(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)
}

func TestFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	local := newLocalStore(t)
	c := client.New(srv.URL, local, &fakeSessions{},
		client.WithLogger(quietLogger()),
		client.WithoutLatency(),
	)

	sess, err := c.Register(context.Background(), "alice", "a@x.com", "Alice A", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "1", sess.User.ID)
}

func TestFallbackErrorsPropagate(t *testing.T) {
	local := newLocalStore(t)
	c := newOfflineClient(t, local, &fakeSessions{})
	ctx := context.Background()

	_, err := c.Authenticate(ctx, "nobody@x.com", "secret1")
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))

	_, err = c.User(ctx, "nobody")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestPrefersNetworkResponse(t *testing.T) {
	// The canned response differs from anything the local store could
	// produce, so seeing it proves the network path won.
	canned := []domain.PostDetails{{
		ID:      "42",
		Caption: "from the wire",
		User:    domain.Profile{ID: "7", Username: "remote"},
	}}
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/posts", r.URL.Path)
		sawAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(canned)
	}))
	defer srv.Close()

	local := newLocalStore(t)
	c := client.New(srv.URL, local, &fakeSessions{token: "token-abc"},
		client.WithLogger(quietLogger()),
		client.WithoutLatency(),
	)

	feed, err := c.Feed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "42", feed[0].ID)
	assert.Equal(t, "remote", feed[0].User.Username)
	assert.Equal(t, "Bearer token-abc", sawAuth)
}

func TestUpdateProfileRefreshesOwnSession(t *testing.T) {
	local := newLocalStore(t)
	sessions := &fakeSessions{}
	c := newOfflineClient(t, local, sessions)
	ctx := context.Background()

	sess, err := c.Register(ctx, "alice", "a@x.com", "Alice A", "secret1")
	require.NoError(t, err)
	sessions.current = &sess.User

	bio := "updated bio"
	updated, err := c.UpdateProfile(ctx, sess.User.ID, domain.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "updated bio", updated.Bio)
	require.NotNil(t, sessions.refreshed)
	assert.Equal(t, "updated bio", sessions.refreshed.Bio)
}

func TestUpdateProfileLeavesOtherSessionsAlone(t *testing.T) {
	local := newLocalStore(t)
	sessions := &fakeSessions{current: &domain.Profile{ID: "99"}}
	c := newOfflineClient(t, local, sessions)
	ctx := context.Background()

	sess, err := c.Register(ctx, "alice", "a@x.com", "Alice A", "secret1")
	require.NoError(t, err)

	bio := "updated bio"
	_, err = c.UpdateProfile(ctx, sess.User.ID, domain.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Nil(t, sessions.refreshed)
}

func TestFeedUsesSignedInViewer(t *testing.T) {
	local := newLocalStore(t)
	sessions := &fakeSessions{}
	c := newOfflineClient(t, local, sessions)
	ctx := context.Background()

	alice, err := c.Register(ctx, "alice", "a@x.com", "Alice A", "secret1")
	require.NoError(t, err)
	bob, err := c.Register(ctx, "bob", "b@x.com", "Bob B", "secret1")
	require.NoError(t, err)
	_, err = c.CreatePost(ctx, alice.User.ID, "img.jpg", "hello")
	require.NoError(t, err)
	require.NoError(t, c.Follow(ctx, bob.User.ID, alice.User.ID))

	// Signed out: no follow flag.
	feed, err := c.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.False(t, feed[0].User.IsFollowing)

	// Signed in as bob: the author is followed.
	sessions.current = &bob.User
	feed, err = c.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].User.IsFollowing)
}

func TestLikeAndCommentFallbacks(t *testing.T) {
	local := newLocalStore(t)
	c := newOfflineClient(t, local, &fakeSessions{})
	ctx := context.Background()

	alice, err := c.Register(ctx, "alice", "a@x.com", "Alice A", "secret1")
	require.NoError(t, err)
	post, err := c.CreatePost(ctx, alice.User.ID, "img.jpg", "hello")
	require.NoError(t, err)

	require.NoError(t, c.Like(ctx, alice.User.ID, post.ID))
	comment, err := c.AddComment(ctx, alice.User.ID, post.ID, "nice!")
	require.NoError(t, err)
	assert.Equal(t, "alice", comment.User.Username)

	posts, err := c.PostsByUser(ctx, alice.User.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].LikeCount)
	assert.Equal(t, []string{comment.ID}, posts[0].Comments)

	require.NoError(t, c.Unlike(ctx, alice.User.ID, post.ID))
	posts, err = c.PostsByUser(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, posts[0].LikeCount)
}

func TestSearchUsersFallback(t *testing.T) {
	local := newLocalStore(t)
	c := newOfflineClient(t, local, &fakeSessions{})
	ctx := context.Background()

	_, err := c.Register(ctx, "johndoe", "john@x.com", "John Doe", "secret1")
	require.NoError(t, err)
	_, err = c.Register(ctx, "janedoe", "jane@x.com", "Jane Doe", "secret1")
	require.NoError(t, err)

	results, err := c.SearchUsers(ctx, "doe")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = c.SearchUsers(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}
