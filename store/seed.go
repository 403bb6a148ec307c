package store

import (
	"golang.org/x/crypto/bcrypt"

	"instaclone/domain"
)

// seedPassword is the shared password of all demo accounts.
const seedPassword = "password123"

// Seed populates an empty store with the demo fixtures: three users,
// five posts, five comments and four follow edges. The denormalized
// counters match the edge set.
func (s *Store) Seed() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = []*domain.User{
		{
			ID:             "1",
			Username:       "johndoe",
			Fullname:       "John Doe",
			Email:          "john@example.com",
			ProfilePicture: "https://i.pravatar.cc/150?img=1",
			Bio:            "Photographer | Traveler | Food Lover",
			PasswordHash:   string(hash),
			FollowerCount:  2,
			FollowingCount: 1,
		},
		{
			ID:             "2",
			Username:       "janedoe",
			Fullname:       "Jane Doe",
			Email:          "jane@example.com",
			ProfilePicture: "https://i.pravatar.cc/150?img=5",
			Bio:            "Digital Nomad | Adventure Seeker",
			PasswordHash:   string(hash),
			FollowerCount:  1,
			FollowingCount: 2,
		},
		{
			ID:             "3",
			Username:       "alex_smith",
			Fullname:       "Alex Smith",
			Email:          "alex@example.com",
			ProfilePicture: "https://i.pravatar.cc/150?img=8",
			Bio:            "Web Developer | Coffee Enthusiast",
			PasswordHash:   string(hash),
			FollowerCount:  1,
			FollowingCount: 1,
		},
	}

	s.posts = []*domain.Post{
		{
			ID:        "1",
			UserID:    "1",
			Image:     "https://picsum.photos/id/237/600/600",
			Caption:   "My awesome dog! 🐕 #dogsofinstagram",
			LikeCount: 2,
			Comments:  []string{"1", "2"},
			CreatedAt: 1680667200000,
		},
		{
			ID:        "2",
			UserID:    "1",
			Image:     "https://picsum.photos/id/25/600/600",
			Caption:   "Beautiful sunset at the beach 🌅 #sunset #beach",
			LikeCount: 1,
			Comments:  []string{"3"},
			CreatedAt: 1681099200000,
		},
		{
			ID:        "3",
			UserID:    "2",
			Image:     "https://picsum.photos/id/102/600/600",
			Caption:   "Morning hike with amazing views 🏔️ #hiking #nature",
			LikeCount: 2,
			Comments:  []string{"4"},
			CreatedAt: 1681531200000,
		},
		{
			ID:        "4",
			UserID:    "3",
			Image:     "https://picsum.photos/id/1005/600/600",
			Caption:   "Working on a new project! #coding #webdev",
			LikeCount: 1,
			Comments:  []string{},
			CreatedAt: 1681790400000,
		},
		{
			ID:        "5",
			UserID:    "3",
			Image:     "https://picsum.photos/id/1006/600/600",
			Caption:   "Coffee time ☕ #coffee #worklife",
			LikeCount: 1,
			Comments:  []string{"5"},
			CreatedAt: 1681963200000,
		},
	}

	s.comments = []*domain.Comment{
		{ID: "1", PostID: "1", UserID: "2", Content: "So cute! 😍", CreatedAt: 1714983000000},
		{ID: "2", PostID: "1", UserID: "3", Content: "What breed is he?", CreatedAt: 1714986600000},
		{ID: "3", PostID: "2", UserID: "2", Content: "Gorgeous view!", CreatedAt: 1715023700000},
		{ID: "4", PostID: "3", UserID: "1", Content: "Looks amazing! Where is this?", CreatedAt: 1715677200000},
		{ID: "5", PostID: "5", UserID: "2", Content: "Nothing better than a good cup of coffee!", CreatedAt: 1715850600000},
	}

	s.follows = []domain.Follow{
		{FollowerID: "1", FollowedID: "2"},
		{FollowerID: "2", FollowedID: "1"},
		{FollowerID: "2", FollowedID: "3"},
		{FollowerID: "3", FollowedID: "1"},
	}

	s.nextUserID = len(s.users) + 1
	s.nextPostID = len(s.posts) + 1
	s.nextCommentID = len(s.comments) + 1
	return nil
}
