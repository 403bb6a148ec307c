package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"instaclone/auth"
)

func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/posts", s.handleFeed).Methods("GET")
	r.HandleFunc("/posts", s.handleCreatePost).Methods("POST")
	r.HandleFunc("/posts/{id}/like", s.handleLike).Methods("POST")
	r.HandleFunc("/posts/{id}/unlike", s.handleUnlike).Methods("POST")
	r.HandleFunc("/posts/{id}/comments", s.handleAddComment).Methods("POST")
}

// handleFeed responds with all posts newest-first, joined with their
// author and comments. The is_following flags are resolved against the
// bearer token's user, if one was attached.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.ps.Feed(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, feed)
}

// handlePostsByUser responds with a user's bare posts, newest first.
// The route lives under /users but the handler sits here with the rest
// of the post listing code.
func (s *Server) handlePostsByUser(w http.ResponseWriter, r *http.Request) {
	posts, err := s.ps.ByUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, posts)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID  string `json:"user_id"`
		Image   string `json:"image"`
		Caption string `json:"caption"`
	}
	if err := s.decode(r, &in); err != nil {
		s.error(w, r, err)
		return
	}
	if in.UserID == "" {
		in.UserID = auth.UserIDFromContext(r.Context())
	}

	post, err := s.ps.Create(r.Context(), in.UserID, in.Image, in.Caption)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, post)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := s.likeUserID(r)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if err := s.ps.Like(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, err := s.likeUserID(r)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if err := s.ps.Unlike(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}

// likeUserID resolves the acting user of a like/unlike request from
// the body, falling back to the bearer token's user.
func (s *Server) likeUserID(r *http.Request) (string, error) {
	var in struct {
		UserID string `json:"user_id"`
	}
	if err := s.decode(r, &in); err != nil {
		return "", err
	}
	if in.UserID == "" {
		in.UserID = auth.UserIDFromContext(r.Context())
	}
	return in.UserID, nil
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID  string `json:"user_id"`
		Content string `json:"content"`
	}
	if err := s.decode(r, &in); err != nil {
		s.error(w, r, err)
		return
	}
	if in.UserID == "" {
		in.UserID = auth.UserIDFromContext(r.Context())
	}

	comment, err := s.cs.CreateComment(r.Context(), in.UserID, mux.Vars(r)["id"], in.Content)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, comment)
}
