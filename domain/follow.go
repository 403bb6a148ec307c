package domain

import "context"

// Follow represents a self-referential many-to-many relationship
// between two users. The FollowerID is the ID of the user that follows,
// and the FollowedID is the ID of the user that is being followed.
// At most one edge exists per ordered pair.
type Follow struct {
	FollowerID string `json:"follower_id"`
	FollowedID string `json:"followed_id"`
}

// FollowService manipulates the follow-edge set. Both operations are
// idempotent: following an already-followed user and unfollowing a
// never-followed user are no-ops. The denormalized follower/following
// counters on both accounts move together with the edge set and never
// drop below zero.
type FollowService interface {
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
}
