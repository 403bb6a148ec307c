package store

import (
	"context"

	"instaclone/domain"
	"instaclone/errs"
)

// Follow inserts a follow edge from followerID to followedID and
// increments both denormalized counters in the same critical section.
// Following an already-followed user is a no-op.
func (s *Store) Follow(ctx context.Context, followerID, followedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	follower := s.userByID(followerID)
	followed := s.userByID(followedID)
	if follower == nil || followed == nil {
		return errs.Errorf(errs.ENOTFOUND, "User not found")
	}
	if s.isFollowing(followerID, followedID) {
		return nil
	}

	s.follows = append(s.follows, domain.Follow{FollowerID: followerID, FollowedID: followedID})
	follower.FollowingCount++
	followed.FollowerCount++
	return nil
}

// Unfollow removes the follow edge from followerID to followedID and
// decrements both counters, clamped at zero. Unfollowing a user that
// was never followed is a no-op.
func (s *Store) Unfollow(ctx context.Context, followerID, followedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	follower := s.userByID(followerID)
	followed := s.userByID(followedID)
	if follower == nil || followed == nil {
		return errs.Errorf(errs.ENOTFOUND, "User not found")
	}

	for i, f := range s.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			s.follows = append(s.follows[:i], s.follows[i+1:]...)
			if follower.FollowingCount > 0 {
				follower.FollowingCount--
			}
			if followed.FollowerCount > 0 {
				followed.FollowerCount--
			}
			return nil
		}
	}
	return nil
}
