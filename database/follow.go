package database

import (
	"context"

	"gorm.io/gorm"

	"instaclone/domain"
	"instaclone/errs"
)

// FollowService manages the follow-edge table. It implements the
// domain.FollowService interface. Edge and counter changes commit in
// one transaction so the counters cannot drift from the edge set.
type FollowService struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

var _ domain.FollowService = &FollowService{}

// Follow inserts an edge and increments both counters. Following an
// already-followed user is a no-op.
func (fs *FollowService) Follow(ctx context.Context, followerID, followedID string) error {
	follower, followed, err := fs.pair(ctx, followerID, followedID)
	if err != nil {
		return err
	}

	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		already, err := exists(tx, &Follow{}, "follower_id = ? AND followed_id = ?", follower, followed)
		if err != nil {
			return err
		}
		if already {
			return nil
		}
		if err := tx.Create(&Follow{FollowerID: follower, FollowedID: followed}).Error; err != nil {
			return err
		}
		err = tx.Model(&User{}).Where("id = ?", follower).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error
		if err != nil {
			return err
		}
		return tx.Model(&User{}).Where("id = ?", followed).
			UpdateColumn("follower_count", gorm.Expr("follower_count + 1")).Error
	})
}

// Unfollow removes the edge and decrements both counters, clamped at
// zero. Unfollowing a never-followed user is a no-op.
func (fs *FollowService) Unfollow(ctx context.Context, followerID, followedID string) error {
	follower, followed, err := fs.pair(ctx, followerID, followedID)
	if err != nil {
		return err
	}

	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followed_id = ?", follower, followed).Delete(&Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		err := tx.Model(&User{}).Where("id = ?", follower).
			UpdateColumn("following_count", gorm.Expr("GREATEST(following_count - 1, 0)")).Error
		if err != nil {
			return err
		}
		return tx.Model(&User{}).Where("id = ?", followed).
			UpdateColumn("follower_count", gorm.Expr("GREATEST(follower_count - 1, 0)")).Error
	})
}

// pair validates that both ends of an edge exist and returns their
// integer keys.
func (fs *FollowService) pair(ctx context.Context, followerID, followedID string) (int, int, error) {
	follower, ok := parseID(followerID)
	if !ok {
		return 0, 0, errs.Errorf(errs.ENOTFOUND, "User not found")
	}
	followed, ok := parseID(followedID)
	if !ok {
		return 0, 0, errs.Errorf(errs.ENOTFOUND, "User not found")
	}
	for _, id := range []int{follower, followed} {
		found, err := exists(fs.db.WithContext(ctx), &User{}, "id = ?", id)
		if err != nil {
			return 0, 0, err
		}
		if !found {
			return 0, 0, errs.Errorf(errs.ENOTFOUND, "User not found")
		}
	}
	return follower, followed, nil
}
