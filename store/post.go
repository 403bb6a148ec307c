package store

import (
	"context"
	"sort"

	"instaclone/domain"
	"instaclone/errs"
)

// Feed returns all posts, newest first, each joined with its author's
// profile and its comments with their authors. IsFollowing on each
// author is computed against viewerID, which may be empty. Posts with
// equal timestamps keep their insertion order.
func (s *Store) Feed(ctx context.Context, viewerID string) ([]domain.PostDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := make([]*domain.Post, len(s.posts))
	copy(ordered, s.posts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt > ordered[j].CreatedAt
	})

	feed := make([]domain.PostDetails, 0, len(ordered))
	for _, post := range ordered {
		author := s.userByID(post.UserID)
		if author == nil {
			continue
		}
		user := author.Profile()
		if viewerID != "" {
			user.IsFollowing = s.isFollowing(viewerID, author.ID)
		}

		details := domain.PostDetails{
			ID:                 post.ID,
			UserID:             post.UserID,
			Image:              post.Image,
			Caption:            post.Caption,
			LikeCount:          post.LikeCount,
			LikedByCurrentUser: post.LikedByCurrentUser,
			CreatedAt:          post.CreatedAt,
			User:               user,
			Comments:           make([]domain.CommentDetails, 0),
		}
		for _, c := range s.comments {
			if c.PostID != post.ID {
				continue
			}
			commentAuthor := s.userByID(c.UserID)
			if commentAuthor == nil {
				continue
			}
			details.Comments = append(details.Comments, domain.CommentDetails{
				Comment: *c,
				User:    commentAuthor.Profile(),
			})
		}
		feed = append(feed, details)
	}
	return feed, nil
}

// ByUser returns the given user's bare posts, newest first, without
// author or comment joins. An unknown user yields an empty list, not
// an error.
func (s *Store) ByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]domain.Post, 0)
	for _, p := range s.posts {
		if p.UserID == userID {
			posts = append(posts, *p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
	return posts, nil
}

// Create stores a new post with zero likes, an empty comment list and
// the current time as its creation timestamp.
func (s *Store) Create(ctx context.Context, userID, image, caption string) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := &domain.Post{
		ID:        nextID(&s.nextPostID),
		UserID:    userID,
		Image:     image,
		Caption:   caption,
		Comments:  []string{},
		CreatedAt: s.now(),
	}
	s.posts = append(s.posts, post)
	created := *post
	return &created, nil
}

// Like increments the post's like counter and sets its shared liked
// flag. The flag is a single boolean on the record, so it reflects the
// most recent like/unlike regardless of which viewer issued it.
func (s *Store) Like(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.postByID(postID)
	if post == nil {
		return errs.Errorf(errs.ENOTFOUND, "Post not found")
	}
	post.LikeCount++
	post.LikedByCurrentUser = true
	return nil
}

// Unlike decrements the post's like counter, clamped at zero, and
// clears its shared liked flag.
func (s *Store) Unlike(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.postByID(postID)
	if post == nil {
		return errs.Errorf(errs.ENOTFOUND, "Post not found")
	}
	if post.LikeCount > 0 {
		post.LikeCount--
	}
	post.LikedByCurrentUser = false
	return nil
}

// CreateComment appends a new comment to the post's comment list and
// returns it joined with its author's profile. The comment record and
// the post's comment-id list are written in the same critical section.
func (s *Store) CreateComment(ctx context.Context, userID, postID, content string) (*domain.CommentDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.postByID(postID)
	if post == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "Post not found")
	}
	author := s.userByID(userID)
	if author == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
	}

	comment := &domain.Comment{
		ID:        nextID(&s.nextCommentID),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.comments = append(s.comments, comment)
	post.Comments = append(post.Comments, comment.ID)

	return &domain.CommentDetails{Comment: *comment, User: author.Profile()}, nil
}
