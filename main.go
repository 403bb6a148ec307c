package main

import (
	"time"

	"github.com/sirupsen/logrus"

	"instaclone/auth"
	"instaclone/database"
	"instaclone/domain"
	"instaclone/http"
	"instaclone/store"
)

// main runs the reference API server, backed by Postgres when a
// DATABASE_URL is configured and by the seeded in-memory store
// otherwise.
func main() {
	config, err := LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("err loading config")
	}

	log := logrus.New()
	if level, err := logrus.ParseLevel(config.LogLevel); err == nil {
		log.SetLevel(level)
	}

	tokens := auth.NewTokenService(config.JWTSecret, 24*time.Hour)

	var (
		us domain.UserService
		fs domain.FollowService
		ps domain.PostService
		cs domain.CommentService
	)
	if config.DatabaseURL != "" {
		db, err := database.Open(config.DatabaseURL, !config.IsProd())
		if err != nil {
			log.WithError(err).Fatal("err opening database")
		}
		defer db.Close()
		if err := db.AutoMigrate(); err != nil {
			log.WithError(err).Fatal("err running migrations")
		}
		posts := database.NewPostService(db.Gorm)
		us = database.NewUserService(db.Gorm)
		fs = database.NewFollowService(db.Gorm)
		ps = posts
		cs = posts
	} else {
		st := store.New()
		if err := st.Seed(); err != nil {
			log.WithError(err).Fatal("err seeding store")
		}
		us, fs, ps, cs = st, st, st, st
		log.Info("no DATABASE_URL set, serving seeded in-memory data")
	}

	server := http.NewServer(log, tokens, us, fs, ps, cs)
	if err := server.Run(config.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
