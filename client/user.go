package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"instaclone/domain"
)

// Authenticate logs in with an email address and password.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out domain.Session
	err := c.call(ctx, http.MethodPost, "/auth/login", body, &out, writeDelay, func(ctx context.Context) error {
		sess, err := c.local.Authenticate(ctx, email, password)
		if err != nil {
			return err
		}
		out = *sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account and returns its session.
func (c *Client) Register(ctx context.Context, username, email, fullname, password string) (*domain.Session, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"fullname": fullname,
		"password": password,
	}
	var out domain.Session
	err := c.call(ctx, http.MethodPost, "/auth/register", body, &out, writeDelay, func(ctx context.Context) error {
		sess, err := c.local.Register(ctx, username, email, fullname, password)
		if err != nil {
			return err
		}
		out = *sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// User retrieves a profile by username. IsFollowing on the result is
// computed for the signed-in user, if any.
func (c *Client) User(ctx context.Context, username string) (*domain.Profile, error) {
	var out domain.Profile
	err := c.call(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, &out, readDelay, func(ctx context.Context) error {
		profile, err := c.local.ByUsername(ctx, username, c.viewerID())
		if err != nil {
			return err
		}
		out = *profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial update to the given account. If it is
// the signed-in account, the persisted session profile is refreshed in
// place so the UI never shows stale identity data.
func (c *Client) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	var out domain.Profile
	err := c.call(ctx, http.MethodPut, "/users/"+url.PathEscape(id), upd, &out, writeDelay, func(ctx context.Context) error {
		profile, err := c.local.Update(ctx, id, upd)
		if err != nil {
			return err
		}
		out = *profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	if current := c.sessions.Current(); current != nil && current.ID == out.ID {
		c.sessions.Refresh(out)
	}
	return &out, nil
}

// SearchUsers returns all profiles whose username or fullname contains
// the query as a substring. An empty result is not an error.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.Profile, error) {
	var out []domain.Profile
	path := "/users/search?q=" + url.QueryEscape(query)
	err := c.call(ctx, http.MethodGet, path, nil, &out, readDelay, func(ctx context.Context) error {
		results, err := c.local.Search(ctx, query)
		if err != nil {
			return err
		}
		out = results
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Follow makes followerID follow followedID. Following an already
// followed user is a no-op.
func (c *Client) Follow(ctx context.Context, followerID, followedID string) error {
	path := fmt.Sprintf("/users/%s/follow/%s", url.PathEscape(followerID), url.PathEscape(followedID))
	return c.call(ctx, http.MethodPost, path, nil, nil, readDelay, func(ctx context.Context) error {
		return c.local.Follow(ctx, followerID, followedID)
	})
}

// Unfollow removes the follow edge from followerID to followedID.
// Unfollowing a never-followed user is a no-op.
func (c *Client) Unfollow(ctx context.Context, followerID, followedID string) error {
	path := fmt.Sprintf("/users/%s/unfollow/%s", url.PathEscape(followerID), url.PathEscape(followedID))
	return c.call(ctx, http.MethodPost, path, nil, nil, readDelay, func(ctx context.Context) error {
		return c.local.Unfollow(ctx, followerID, followedID)
	})
}
