package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaclone/errs"
)

func TestFollowIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := register(t, s, "alice", "a@x.com", "Alice A")
	bob := register(t, s, "bob", "b@x.com", "Bob B")

	require.NoError(t, s.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, s.Follow(ctx, alice.ID, bob.ID))

	a, err := s.ByUsername(ctx, "alice", "")
	require.NoError(t, err)
	b, err := s.ByUsername(ctx, "bob", "")
	require.NoError(t, err)
	assert.Equal(t, 1, a.FollowingCount)
	assert.Equal(t, 0, a.FollowerCount)
	assert.Equal(t, 1, b.FollowerCount)
	assert.Equal(t, 0, b.FollowingCount)
}

func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := register(t, s, "alice", "a@x.com", "Alice A")
	bob := register(t, s, "bob", "b@x.com", "Bob B")

	require.NoError(t, s.Unfollow(ctx, alice.ID, bob.ID))

	a, err := s.ByUsername(ctx, "alice", "")
	require.NoError(t, err)
	b, err := s.ByUsername(ctx, "bob", "")
	require.NoError(t, err)
	assert.Equal(t, 0, a.FollowingCount)
	assert.Equal(t, 0, b.FollowerCount)
}

func TestFollowUnknownUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := register(t, s, "alice", "a@x.com", "Alice A")

	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(s.Follow(ctx, alice.ID, "99")))
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(s.Follow(ctx, "99", alice.ID)))
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(s.Unfollow(ctx, alice.ID, "99")))
}

// TestCountersNeverDivergeFromEdgeSet runs a mixed sequence of follow
// and unfollow calls, including duplicates and no-ops, and checks that
// every counter equals the cardinality of the edge set filtered by
// that user.
func TestCountersNeverDivergeFromEdgeSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	users := []string{
		register(t, s, "u1", "u1@x.com", "User One").ID,
		register(t, s, "u2", "u2@x.com", "User Two").ID,
		register(t, s, "u3", "u3@x.com", "User Three").ID,
	}

	type op struct {
		unfollow           bool
		follower, followed int
	}
	ops := []op{
		{false, 0, 1},
		{false, 1, 0},
		{false, 0, 2},
		{false, 0, 1}, // duplicate
		{true, 0, 1},
		{true, 0, 1}, // already removed
		{false, 2, 0},
		{false, 1, 2},
		{true, 1, 0},
		{false, 0, 1}, // re-follow
	}

	edges := make(map[[2]int]bool)
	for _, o := range ops {
		if o.unfollow {
			require.NoError(t, s.Unfollow(ctx, users[o.follower], users[o.followed]))
			delete(edges, [2]int{o.follower, o.followed})
		} else {
			require.NoError(t, s.Follow(ctx, users[o.follower], users[o.followed]))
			edges[[2]int{o.follower, o.followed}] = true
		}

		for i, id := range users {
			var following, followers int
			for edge := range edges {
				if edge[0] == i {
					following++
				}
				if edge[1] == i {
					followers++
				}
			}
			profile, err := s.ByUsername(ctx, "u"+string(rune('1'+i)), "")
			require.NoError(t, err)
			assert.Equal(t, following, profile.FollowingCount, "following count of %s", id)
			assert.Equal(t, followers, profile.FollowerCount, "follower count of %s", id)
			assert.GreaterOrEqual(t, profile.FollowerCount, 0)
			assert.GreaterOrEqual(t, profile.FollowingCount, 0)
		}
	}
}
