package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"instaclone/domain"
	"instaclone/errs"
)

// UserService manages user records in the database. It implements the
// domain.UserService interface.
type UserService struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

var _ domain.UserService = &UserService{}

// Authenticate checks a submitted email address and password for
// existence and correctness.
func (us *UserService) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	var user User
	err := us.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid credentials")
	}
	return &domain.Session{User: user.domain().Profile(), Token: domain.PlaceholderToken}, nil
}

// Register creates a new user record. Username and email must not be
// taken yet.
func (us *UserService) Register(ctx context.Context, username, email, fullname, password string) (*domain.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:     username,
		Fullname:     fullname,
		Email:        email,
		PasswordHash: string(hash),
	}
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken, err := exists(tx, &User{}, "username = ?", username); err != nil {
			return err
		} else if taken {
			return errs.Errorf(errs.ECONFLICT, "Username already taken")
		}
		if taken, err := exists(tx, &User{}, "email = ?", email); err != nil {
			return err
		} else if taken {
			return errs.Errorf(errs.ECONFLICT, "Email already registered")
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		// The avatar is derived from the assigned id, same scheme as
		// the in-memory store's.
		user.ProfilePicture = fmt.Sprintf("https://i.pravatar.cc/150?img=%d", user.ID+9)
		return tx.Model(&user).UpdateColumn("profile_picture", user.ProfilePicture).Error
	})
	if err != nil {
		return nil, err
	}
	return &domain.Session{User: user.domain().Profile(), Token: domain.PlaceholderToken}, nil
}

// ByUsername retrieves a user's profile by username, with IsFollowing
// computed against viewerID if it is not empty.
func (us *UserService) ByUsername(ctx context.Context, username, viewerID string) (*domain.Profile, error) {
	var user User
	err := us.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
		}
		return nil, err
	}

	profile := user.domain().Profile()
	if viewer, ok := parseID(viewerID); ok {
		following, err := exists(us.db.WithContext(ctx), &Follow{}, "follower_id = ? AND followed_id = ?", viewer, user.ID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = following
	}
	return &profile, nil
}

// Update applies a partial update to the user with the given id. A
// username or email that belongs to a different account is a conflict.
func (us *UserService) Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, errs.Errorf(errs.ENOTFOUND, "User not found")
	}

	var user User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Errorf(errs.ENOTFOUND, "User not found")
			}
			return err
		}
		if upd.Username != nil {
			if taken, err := exists(tx, &User{}, "username = ? AND id <> ?", *upd.Username, userID); err != nil {
				return err
			} else if taken {
				return errs.Errorf(errs.ECONFLICT, "Username already taken")
			}
		}
		if upd.Email != nil {
			if taken, err := exists(tx, &User{}, "email = ? AND id <> ?", *upd.Email, userID); err != nil {
				return err
			} else if taken {
				return errs.Errorf(errs.ECONFLICT, "Email already registered")
			}
		}

		changes := map[string]interface{}{}
		if upd.Username != nil {
			changes["username"] = *upd.Username
		}
		if upd.Fullname != nil {
			changes["fullname"] = *upd.Fullname
		}
		if upd.Email != nil {
			changes["email"] = *upd.Email
		}
		if upd.Bio != nil {
			changes["bio"] = *upd.Bio
		}
		if upd.ProfilePicture != nil {
			changes["profile_picture"] = *upd.ProfilePicture
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&user, userID).Error
	})
	if err != nil {
		return nil, err
	}
	profile := user.domain().Profile()
	return &profile, nil
}

// Search returns the profiles of all users whose username or fullname
// contains the query as a case-sensitive substring.
func (us *UserService) Search(ctx context.Context, query string) ([]domain.Profile, error) {
	var users []User
	pattern := "%" + query + "%"
	err := us.db.WithContext(ctx).
		Where("username LIKE ? OR fullname LIKE ?", pattern, pattern).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	results := make([]domain.Profile, 0, len(users))
	for i := range users {
		results = append(results, users[i].domain().Profile())
	}
	return results, nil
}

// exists is a helper reporting whether a record matching the query
// exists. The model pointer selects the table.
func exists(db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	err := db.Model(model).Where(query, args...).Count(&count).Error
	return count > 0, err
}

// nowMillis is the creation-timestamp source for posts and comments.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
