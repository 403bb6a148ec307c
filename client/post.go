package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"instaclone/domain"
)

// Feed returns all posts newest-first, fully joined with their author
// and comments. IsFollowing on each author is computed for the
// signed-in user, if any.
func (c *Client) Feed(ctx context.Context) ([]domain.PostDetails, error) {
	var out []domain.PostDetails
	err := c.call(ctx, http.MethodGet, "/posts", nil, &out, writeDelay, func(ctx context.Context) error {
		feed, err := c.local.Feed(ctx, c.viewerID())
		if err != nil {
			return err
		}
		out = feed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PostsByUser returns the given user's bare posts, newest first.
func (c *Client) PostsByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	var out []domain.Post
	path := fmt.Sprintf("/users/%s/posts", url.PathEscape(userID))
	err := c.call(ctx, http.MethodGet, path, nil, &out, readDelay, func(ctx context.Context) error {
		posts, err := c.local.ByUser(ctx, userID)
		if err != nil {
			return err
		}
		out = posts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePost stores a new post with zero likes and no comments.
func (c *Client) CreatePost(ctx context.Context, userID, image, caption string) (*domain.Post, error) {
	body := map[string]string{"user_id": userID, "image": image, "caption": caption}
	var out domain.Post
	err := c.call(ctx, http.MethodPost, "/posts", body, &out, writeDelay, func(ctx context.Context) error {
		post, err := c.local.Create(ctx, userID, image, caption)
		if err != nil {
			return err
		}
		out = *post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Like increments the post's like counter and marks it liked.
func (c *Client) Like(ctx context.Context, userID, postID string) error {
	body := map[string]string{"user_id": userID}
	path := fmt.Sprintf("/posts/%s/like", url.PathEscape(postID))
	return c.call(ctx, http.MethodPost, path, body, nil, likeDelay, func(ctx context.Context) error {
		return c.local.Like(ctx, userID, postID)
	})
}

// Unlike decrements the post's like counter, clamped at zero, and
// clears the liked mark.
func (c *Client) Unlike(ctx context.Context, userID, postID string) error {
	body := map[string]string{"user_id": userID}
	path := fmt.Sprintf("/posts/%s/unlike", url.PathEscape(postID))
	return c.call(ctx, http.MethodPost, path, body, nil, likeDelay, func(ctx context.Context) error {
		return c.local.Unlike(ctx, userID, postID)
	})
}

// AddComment appends a comment to the post and returns it joined with
// its author's profile.
func (c *Client) AddComment(ctx context.Context, userID, postID, content string) (*domain.CommentDetails, error) {
	body := map[string]string{"user_id": userID, "content": content}
	path := fmt.Sprintf("/posts/%s/comments", url.PathEscape(postID))
	var out domain.CommentDetails
	err := c.call(ctx, http.MethodPost, path, body, &out, readDelay, func(ctx context.Context) error {
		comment, err := c.local.CreateComment(ctx, userID, postID, content)
		if err != nil {
			return err
		}
		out = *comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
