// Package database implements the domain service interfaces on top of
// Postgres, for running the reference API server with real
// persistence instead of the seeded in-memory store.
package database

import (
	"fmt"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"instaclone/domain"
)

// DB wraps the gorm connection shared by the services.
type DB struct {
	Gorm *gorm.DB
}

// Open opens a database connection. Query logging follows the verbose
// flag.
func Open(dsn string, verbose bool) (*DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn required")
	}
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if verbose {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	g, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("err opening gorm postgres connection: %w", err)
	}
	return &DB{Gorm: g}, nil
}

// AutoMigrate runs database migrations for all tables.
func (db *DB) AutoMigrate() error {
	return db.Gorm.AutoMigrate(
		&User{},
		&Follow{},
		&Post{},
		&Comment{},
	)
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// User is the users table. Integer primary keys render as the decimal
// string ids the wire format uses.
type User struct {
	ID             int    `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;not null"`
	Fullname       string
	Email          string `gorm:"uniqueIndex;not null"`
	ProfilePicture string
	Bio            string
	PasswordHash   string `gorm:"not null"`
	FollowerCount  int    `gorm:"not null;default:0"`
	FollowingCount int    `gorm:"not null;default:0"`
}

func (u *User) domain() *domain.User {
	return &domain.User{
		ID:             strconv.Itoa(u.ID),
		Username:       u.Username,
		Fullname:       u.Fullname,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		PasswordHash:   u.PasswordHash,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
	}
}

// Follow is the follows table. The composite unique index enforces at
// most one edge per ordered pair.
type Follow struct {
	ID         int `gorm:"primaryKey"`
	FollowerID int `gorm:"not null;index;uniqueIndex:idx_follow_pair"`
	FollowedID int `gorm:"not null;index;uniqueIndex:idx_follow_pair"`
}

// Post is the posts table. The comment-id list of the wire format is
// derived from the comments table on read rather than stored. The
// shared liked flag is a column so the record semantics match the
// in-memory store exactly. CreatedAt is in milliseconds since the
// epoch.
type Post struct {
	ID                 int `gorm:"primaryKey"`
	UserID             int `gorm:"not null;index"`
	Image              string
	Caption            string
	LikeCount          int   `gorm:"not null;default:0"`
	LikedByCurrentUser bool  `gorm:"not null;default:false"`
	CreatedAt          int64 `gorm:"not null;index"`
}

func (p *Post) domain(commentIDs []string) domain.Post {
	if commentIDs == nil {
		commentIDs = []string{}
	}
	return domain.Post{
		ID:                 strconv.Itoa(p.ID),
		UserID:             strconv.Itoa(p.UserID),
		Image:              p.Image,
		Caption:            p.Caption,
		LikeCount:          p.LikeCount,
		LikedByCurrentUser: p.LikedByCurrentUser,
		Comments:           commentIDs,
		CreatedAt:          p.CreatedAt,
	}
}

// Comment is the comments table. CreatedAt is in milliseconds since
// the epoch.
type Comment struct {
	ID        int `gorm:"primaryKey"`
	PostID    int `gorm:"not null;index"`
	UserID    int `gorm:"not null"`
	Content   string
	CreatedAt int64 `gorm:"not null"`
}

func (c *Comment) domain() domain.Comment {
	return domain.Comment{
		ID:        strconv.Itoa(c.ID),
		PostID:    strconv.Itoa(c.PostID),
		UserID:    strconv.Itoa(c.UserID),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// parseID converts a wire-format id to its integer key. Malformed ids
// behave like ids of records that do not exist.
func parseID(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
