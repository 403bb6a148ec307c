// Package store holds the in-memory record collections that back the
// client's local fallback path. It emulates the remote API's data
// semantics: denormalized follow counters, a shared liked flag per
// post, credential-stripped projections and sequential string ids.
package store

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"instaclone/domain"
)

// Store owns the user, post, comment and follow-edge collections. A
// single mutex guards all of them, so every operation commits as one
// atomic unit: a follow edge and both counters, or a comment and its
// post's comment list, are never observable half-applied.
type Store struct {
	mu sync.Mutex

	users    []*domain.User
	posts    []*domain.Post
	comments []*domain.Comment
	follows  []domain.Follow

	// Per-collection id counters. Ids are the decimal string of the
	// counter at creation time, which matches collection length + 1 as
	// long as nothing is ever deleted, but stays unique if deletion is
	// ever added.
	nextUserID    int
	nextPostID    int
	nextCommentID int

	bcryptCost int
	now        func() int64
}

// Ensure Store implements the domain service interfaces.
var (
	_ domain.UserService    = &Store{}
	_ domain.FollowService  = &Store{}
	_ domain.PostService    = &Store{}
	_ domain.CommentService = &Store{}
)

// An Option configures a Store.
type Option func(*Store)

// WithBcryptCost overrides the password hashing cost. Tests pass
// bcrypt.MinCost to keep hashing cheap.
func WithBcryptCost(cost int) Option {
	return func(s *Store) {
		s.bcryptCost = cost
	}
}

// WithClock overrides the creation-timestamp source. The clock returns
// milliseconds since the epoch.
func WithClock(now func() int64) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		nextUserID:    1,
		nextPostID:    1,
		nextCommentID: 1,
		bcryptCost:    bcrypt.DefaultCost,
		now: func() int64 {
			return time.Now().UnixMilli()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextID returns the current value of the given counter as a decimal
// string and advances it. Callers must hold the mutex.
func nextID(counter *int) string {
	id := strconv.Itoa(*counter)
	*counter++
	return id
}

func (s *Store) userByID(id string) *domain.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) userByUsername(username string) *domain.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (s *Store) userByEmail(email string) *domain.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Store) postByID(id string) *domain.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// isFollowing reports whether an edge followerID -> followedID exists.
// Callers must hold the mutex.
func (s *Store) isFollowing(followerID, followedID string) bool {
	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			return true
		}
	}
	return false
}
