package database

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"instaclone/domain"
	"instaclone/errs"
)

// PostService manages post and comment records. It implements the
// domain.PostService and domain.CommentService interfaces.
type PostService struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

var (
	_ domain.PostService    = &PostService{}
	_ domain.CommentService = &PostService{}
)

// Feed returns all posts newest-first, each joined with its author's
// profile and its comments with their authors. Equal timestamps order
// by insertion (ascending id).
func (ps *PostService) Feed(ctx context.Context, viewerID string) ([]domain.PostDetails, error) {
	db := ps.db.WithContext(ctx)

	var posts []Post
	if err := db.Order("created_at DESC, id ASC").Find(&posts).Error; err != nil {
		return nil, err
	}

	users, err := ps.userMap(ctx)
	if err != nil {
		return nil, err
	}
	following, err := ps.followedSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	var comments []Comment
	if err := db.Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	byPost := make(map[int][]Comment)
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}

	feed := make([]domain.PostDetails, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		author, ok := users[post.UserID]
		if !ok {
			continue
		}
		profile := author.domain().Profile()
		profile.IsFollowing = following[post.UserID]

		details := domain.PostDetails{
			ID:                 strconv.Itoa(post.ID),
			UserID:             strconv.Itoa(post.UserID),
			Image:              post.Image,
			Caption:            post.Caption,
			LikeCount:          post.LikeCount,
			LikedByCurrentUser: post.LikedByCurrentUser,
			CreatedAt:          post.CreatedAt,
			User:               profile,
			Comments:           make([]domain.CommentDetails, 0),
		}
		for _, c := range byPost[post.ID] {
			commentAuthor, ok := users[c.UserID]
			if !ok {
				continue
			}
			details.Comments = append(details.Comments, domain.CommentDetails{
				Comment: c.domain(),
				User:    commentAuthor.domain().Profile(),
			})
		}
		feed = append(feed, details)
	}
	return feed, nil
}

// ByUser returns the given user's bare posts, newest first.
func (ps *PostService) ByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	id, ok := parseID(userID)
	if !ok {
		return []domain.Post{}, nil
	}

	var posts []Post
	err := ps.db.WithContext(ctx).
		Where("user_id = ?", id).
		Order("created_at DESC, id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	var comments []Comment
	err = ps.db.WithContext(ctx).
		Select("id", "post_id").
		Where("post_id IN (SELECT id FROM posts WHERE user_id = ?)", id).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	commentIDs := make(map[int][]string)
	for _, c := range comments {
		commentIDs[c.PostID] = append(commentIDs[c.PostID], strconv.Itoa(c.ID))
	}

	result := make([]domain.Post, 0, len(posts))
	for i := range posts {
		result = append(result, posts[i].domain(commentIDs[posts[i].ID]))
	}
	return result, nil
}

// Create stores a new post with zero likes and no comments.
func (ps *PostService) Create(ctx context.Context, userID, image, caption string) (*domain.Post, error) {
	id, ok := parseID(userID)
	if !ok {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
	}

	post := Post{
		UserID:    id,
		Image:     image,
		Caption:   caption,
		CreatedAt: nowMillis(),
	}
	if err := ps.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	created := post.domain(nil)
	return &created, nil
}

// Like increments the post's like counter and sets its shared liked
// flag.
func (ps *PostService) Like(ctx context.Context, userID, postID string) error {
	return ps.rate(ctx, postID, map[string]interface{}{
		"like_count":            gorm.Expr("like_count + 1"),
		"liked_by_current_user": true,
	})
}

// Unlike decrements the post's like counter, clamped at zero, and
// clears its shared liked flag.
func (ps *PostService) Unlike(ctx context.Context, userID, postID string) error {
	return ps.rate(ctx, postID, map[string]interface{}{
		"like_count":            gorm.Expr("GREATEST(like_count - 1, 0)"),
		"liked_by_current_user": false,
	})
}

func (ps *PostService) rate(ctx context.Context, postID string, changes map[string]interface{}) error {
	id, ok := parseID(postID)
	if !ok {
		return errs.Errorf(errs.ENOTFOUND, "Post not found")
	}
	res := ps.db.WithContext(ctx).Model(&Post{}).Where("id = ?", id).UpdateColumns(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "Post not found")
	}
	return nil
}

// CreateComment appends a comment to the post and returns it joined
// with its author's profile.
func (ps *PostService) CreateComment(ctx context.Context, userID, postID, content string) (*domain.CommentDetails, error) {
	post, ok := parseID(postID)
	if !ok {
		return nil, errs.Errorf(errs.ENOTFOUND, "Post not found")
	}
	author, ok := parseID(userID)
	if !ok {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
	}

	var user User
	comment := Comment{
		PostID:    post,
		UserID:    author,
		Content:   content,
		CreatedAt: nowMillis(),
	}
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if found, err := exists(tx, &Post{}, "id = ?", post); err != nil {
			return err
		} else if !found {
			return errs.Errorf(errs.ENOTFOUND, "Post not found")
		}
		if err := tx.First(&user, author).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "User not found")
			}
			return err
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &domain.CommentDetails{Comment: comment.domain(), User: user.domain().Profile()}, nil
}

// userMap loads all users keyed by id. The reference deployment is
// small, so one query per feed render is fine.
func (ps *PostService) userMap(ctx context.Context) (map[int]*User, error) {
	var users []User
	if err := ps.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	m := make(map[int]*User, len(users))
	for i := range users {
		m[users[i].ID] = &users[i]
	}
	return m, nil
}

// followedSet returns the set of user ids the viewer follows, empty
// for an anonymous viewer.
func (ps *PostService) followedSet(ctx context.Context, viewerID string) (map[int]bool, error) {
	set := make(map[int]bool)
	viewer, ok := parseID(viewerID)
	if !ok {
		return set, nil
	}
	var edges []Follow
	err := ps.db.WithContext(ctx).Where("follower_id = ?", viewer).Find(&edges).Error
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		set[e.FollowedID] = true
	}
	return set, nil
}
