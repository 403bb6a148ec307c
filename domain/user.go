package domain

import "context"

// PlaceholderToken is the bearer token handed out by backends that do
// not issue real signed tokens, such as the local in-memory store.
const PlaceholderToken = "mock-jwt-token"

// User represents a registered account, including its credential hash.
// The hash never leaves the process; everything user-facing works with
// the Profile projection instead. Username and Email are unique across
// all users. FollowerCount and FollowingCount are denormalized counters
// that mutate in lockstep with the follow-edge set.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Fullname       string `json:"fullname"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio"`
	PasswordHash   string `json:"-"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
}

// Profile is the credential-stripped projection of a User. IsFollowing
// expresses whether the viewer the projection was built for follows
// this user; it stays false when there is no viewer.
type Profile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Fullname       string `json:"fullname"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
}

// Profile returns the credential-stripped projection of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:             u.ID,
		Username:       u.Username,
		Fullname:       u.Fullname,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
	}
}

// ProfileUpdate is a partial update of a user's editable fields.
// Nil fields are left untouched. Counters and the credential cannot
// be updated through this type.
type ProfileUpdate struct {
	Username       *string `json:"username,omitempty"`
	Fullname       *string `json:"fullname,omitempty"`
	Email          *string `json:"email,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// Session is the result of a successful authentication: the account's
// profile plus a bearer token.
type Session struct {
	User  Profile `json:"user"`
	Token string  `json:"token"`
}

// UserService is a set of methods to authenticate, look up and modify
// user accounts. The viewerID parameter on ByUsername identifies the
// account the IsFollowing flag is computed for; it may be empty.
type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, username, email, fullname, password string) (*Session, error)
	ByUsername(ctx context.Context, username, viewerID string) (*Profile, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*Profile, error)
	Search(ctx context.Context, query string) ([]Profile, error)
}
