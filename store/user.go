package store

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"instaclone/domain"
	"instaclone/errs"
)

// Authenticate checks a submitted email address and password against
// the user collection. It returns the authenticated user's profile and
// the placeholder bearer token.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.userByEmail(email)
	if user == nil {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid credentials")
	}
	return &domain.Session{User: user.Profile(), Token: domain.PlaceholderToken}, nil
}

// Register creates a new user account. Username and email must not be
// taken yet; on conflict nothing is mutated. New accounts start with a
// generated avatar, an empty bio and zeroed counters.
func (s *Store) Register(ctx context.Context, username, email, fullname, password string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userByUsername(username) != nil {
		return nil, errs.Errorf(errs.ECONFLICT, "Username already taken")
	}
	if s.userByEmail(email) != nil {
		return nil, errs.Errorf(errs.ECONFLICT, "Email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:             nextID(&s.nextUserID),
		Username:       username,
		Fullname:       fullname,
		Email:          email,
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?img=%d", len(s.users)+10),
		PasswordHash:   string(hash),
	}
	s.users = append(s.users, user)
	return &domain.Session{User: user.Profile(), Token: domain.PlaceholderToken}, nil
}

// ByUsername retrieves a user's profile by username. If viewerID is not
// empty, IsFollowing is computed against the viewer's follow edges.
func (s *Store) ByUsername(ctx context.Context, username, viewerID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.userByUsername(username)
	if user == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
	}
	profile := user.Profile()
	if viewerID != "" {
		profile.IsFollowing = s.isFollowing(viewerID, user.ID)
	}
	return &profile, nil
}

// Update applies a partial update to the user with the given id. A
// username or email that belongs to a different account is a conflict,
// and nothing is mutated.
func (s *Store) Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.userByID(id)
	if user == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
	}
	if upd.Username != nil {
		if existing := s.userByUsername(*upd.Username); existing != nil && existing.ID != id {
			return nil, errs.Errorf(errs.ECONFLICT, "Username already taken")
		}
	}
	if upd.Email != nil {
		if existing := s.userByEmail(*upd.Email); existing != nil && existing.ID != id {
			return nil, errs.Errorf(errs.ECONFLICT, "Email already registered")
		}
	}

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Fullname != nil {
		user.Fullname = *upd.Fullname
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.ProfilePicture != nil {
		user.ProfilePicture = *upd.ProfilePicture
	}
	profile := user.Profile()
	return &profile, nil
}

// Search returns the profiles of all users whose username or fullname
// contains the query as a case-sensitive substring. There is no ranking
// and an empty match set is not an error.
func (s *Store) Search(ctx context.Context, query string) ([]domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]domain.Profile, 0)
	for _, u := range s.users {
		if strings.Contains(u.Username, query) || strings.Contains(u.Fullname, query) {
			results = append(results, u.Profile())
		}
	}
	return results, nil
}
