// Package http is the reference implementation of the remote API the
// client attempts before falling back to its local store. It exposes
// the same routes and result shapes, backed by any implementation of
// the domain service interfaces.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"instaclone/auth"
	"instaclone/domain"
	"instaclone/errs"
)

// Server provides the http functionality of the API: routing, request
// handling and middleware. Authentication is optional on every route;
// a valid bearer token attaches the viewer identity used to resolve
// the is_following flags on reads.
type Server struct {
	router *mux.Router
	log    *logrus.Logger
	tokens *auth.TokenService

	us domain.UserService
	fs domain.FollowService
	ps domain.PostService
	cs domain.CommentService
}

// NewServer returns a new instance of the server, registers all routes
// and gives their handlers access to the services passed in.
func NewServer(
	log *logrus.Logger,
	tokens *auth.TokenService,
	us domain.UserService,
	fs domain.FollowService,
	ps domain.PostService,
	cs domain.CommentService,
) *Server {
	s := &Server{
		router: mux.NewRouter(),
		log:    log,
		tokens: tokens,
		us:     us,
		fs:     fs,
		ps:     ps,
		cs:     cs,
	}

	s.registerAuthRoutes(s.router)
	s.registerUserRoutes(s.router)
	s.registerPostRoutes(s.router)

	s.router.Use(s.logRequest, setContentTypeJSON, s.attachUser)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) error {
	s.log.WithField("port", port).Info("api server listening")
	return http.ListenAndServe(":"+strconv.Itoa(port), s.router)
}

// The setContentTypeJSON middleware sets the content type of every
// response to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The attachUser middleware resolves an optional bearer token to a
// user id and stores it in the request context. Requests without a
// valid token stay anonymous; they are not rejected.
func (s *Server) attachUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token != "" && token != header {
			if userID, err := s.tokens.Validate(token); err == nil {
				r = r.WithContext(auth.NewContext(r.Context(), userID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter captures the status code written by a handler so the
// request log can report it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// The logRequest middleware logs every request with a generated
// request id, the route, the status and the duration.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.WithFields(logrus.Fields{
			"request_id": uuid.NewString(),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     sw.status,
			"duration":   time.Since(start).String(),
		}).Info("request handled")
	})
}

// errorStatus maps application error codes to HTTP status codes.
func errorStatus(err error) int {
	switch errs.ErrorCode(err) {
	case errs.ENOTFOUND:
		return http.StatusNotFound
	case errs.ECONFLICT:
		return http.StatusConflict
	case errs.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case errs.EINVALID:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// error writes err as a JSON error response. Internal errors are
// logged and their details masked.
func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("internal error")
	}
	s.respond(w, status, map[string]string{"error": errs.ErrorMessage(err)})
}

func (s *Server) respond(w http.ResponseWriter, status int, body interface{}) {
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.WithError(err).Error("err encoding response body")
	}
}

// decode reads a JSON request body into dst.
func (s *Server) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Errorf(errs.EINVALID, "Invalid request body")
	}
	return nil
}
