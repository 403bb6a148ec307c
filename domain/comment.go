package domain

import "context"

// Comment belongs to a post. Comments are immutable once created; there
// is no edit or delete operation. CreatedAt is in milliseconds since
// the epoch.
type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// CommentDetails joins a comment with its author's profile.
type CommentDetails struct {
	Comment
	User Profile `json:"user"`
}

// CommentService creates comments. The new comment is appended to the
// end of its post's comment list.
type CommentService interface {
	CreateComment(ctx context.Context, userID, postID, content string) (*CommentDetails, error)
}
