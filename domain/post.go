package domain

import "context"

// Post is the bare post record. Comments holds the ids of the post's
// comments in insertion order. CreatedAt is in milliseconds since the
// epoch. LikedByCurrentUser is a single flag on the record, not a
// per-viewer ledger; it reflects the most recent like/unlike only.
type Post struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"user_id"`
	Image              string   `json:"image"`
	Caption            string   `json:"caption"`
	LikeCount          int      `json:"like_count"`
	LikedByCurrentUser bool     `json:"liked_by_current_user"`
	Comments           []string `json:"comments"`
	CreatedAt          int64    `json:"created_at"`
}

// PostDetails is the fully joined projection of a post: the bare record
// plus its author's profile and its comments, each joined with their
// author. Feed returns this projection; ByUser returns bare Posts.
type PostDetails struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	Image              string           `json:"image"`
	Caption            string           `json:"caption"`
	LikeCount          int              `json:"like_count"`
	LikedByCurrentUser bool             `json:"liked_by_current_user"`
	CreatedAt          int64            `json:"created_at"`
	User               Profile          `json:"user"`
	Comments           []CommentDetails `json:"comments"`
}

// PostService is a set of methods to list, create and rate posts.
// Feed and ByUser both order newest-first by creation timestamp; equal
// timestamps keep their insertion order. The viewerID parameter on Feed
// identifies the account IsFollowing is computed for and may be empty.
type PostService interface {
	Feed(ctx context.Context, viewerID string) ([]PostDetails, error)
	ByUser(ctx context.Context, userID string) ([]Post, error)
	Create(ctx context.Context, userID, image, caption string) (*Post, error)
	Like(ctx context.Context, userID, postID string) error
	Unlike(ctx context.Context, userID, postID string) error
}
