package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"instaclone/auth"
	"instaclone/domain"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	// The search route must be registered before the username route so
	// that "search" is not matched as a username.
	r.HandleFunc("/users/search", s.handleSearchUsers).Methods("GET")
	r.HandleFunc("/users/{id}/posts", s.handlePostsByUser).Methods("GET")
	r.HandleFunc("/users/{id}/follow/{target}", s.handleFollow).Methods("POST")
	r.HandleFunc("/users/{id}/unfollow/{target}", s.handleUnfollow).Methods("POST")
	r.HandleFunc("/users/{username}", s.handleUserByUsername).Methods("GET")
	r.HandleFunc("/users/{id}", s.handleUpdateUser).Methods("PUT")
}

// handleUserByUsername responds with a profile. The is_following flag
// is resolved against the bearer token's user, if one was attached.
func (s *Server) handleUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	viewerID := auth.UserIDFromContext(r.Context())

	profile, err := s.us.ByUsername(r.Context(), username, viewerID)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, profile)
}

// handleUpdateUser applies a partial profile update.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if err := s.decode(r, &upd); err != nil {
		s.error(w, r, err)
		return
	}

	profile, err := s.us.Update(r.Context(), mux.Vars(r)["id"], upd)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, profile)
}

// handleSearchUsers responds with all profiles matching the q query
// parameter as a substring.
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	results, err := s.us.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, results)
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.fs.Follow(r.Context(), vars["id"], vars["target"]); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.fs.Unfollow(r.Context(), vars["id"], vars["target"]); err != nil {
		s.error(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}
