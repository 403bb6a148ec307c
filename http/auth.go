package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
}

// handleLogin authenticates an email/password pair and responds with
// the profile and a signed bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := s.decode(r, &in); err != nil {
		s.error(w, r, err)
		return
	}

	sess, err := s.us.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		s.error(w, r, err)
		return
	}
	token, err := s.tokens.Generate(sess.User.ID)
	if err != nil {
		s.error(w, r, err)
		return
	}
	sess.Token = token
	s.respond(w, http.StatusOK, sess)
}

// handleRegister creates a new account and signs it in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Fullname string `json:"fullname"`
		Password string `json:"password"`
	}
	if err := s.decode(r, &in); err != nil {
		s.error(w, r, err)
		return
	}

	sess, err := s.us.Register(r.Context(), in.Username, in.Email, in.Fullname, in.Password)
	if err != nil {
		s.error(w, r, err)
		return
	}
	token, err := s.tokens.Generate(sess.User.ID)
	if err != nil {
		s.error(w, r, err)
		return
	}
	sess.Token = token
	s.respond(w, http.StatusCreated, sess)
}
