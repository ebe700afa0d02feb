// Package mockapi is a development-only, in-memory stand-in for the PYBO
// backend. It implements the documented REST contract closely enough for the
// web UI and CLI to run against it, including the error body shapes the
// client normalizes.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/pybo-board/pybo-client/internal/models"
)

type Server struct {
	store  *Store
	secret []byte
	log    *logrus.Logger
	router chi.Router
}

func NewServer(secret string, log *logrus.Logger) *Server {
	s := &Server{
		store:  NewStore(),
		secret: []byte(secret),
		log:    log,
	}
	s.store.Seed()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/question/list", s.listQuestions)
		r.Get("/question/{id}", s.getQuestion)
		r.Post("/user", s.register)
		r.Post("/login", s.login)
		r.Get("/db-check", s.dbCheck)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/question", s.createQuestion)
			r.Put("/question/{id}", s.updateQuestion)
			r.Post("/question/{id}/answer", s.createAnswer)
			r.Put("/answer/{id}", s.updateAnswer)
		})
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ==========================
// Questions
// ==========================

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 10)
	if size <= 0 {
		size = 10
	}
	keyword := r.URL.Query().Get("keyword")

	total, items := s.store.ListQuestions(page, size, keyword)
	writeJSON(w, http.StatusOK, models.QuestionPage{Total: total, Items: items})
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, found := s.store.GetQuestion(id)
	if !found {
		writeDetail(w, http.StatusNotFound, "Question not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	var in models.QuestionWrite
	if !decodeBody(w, r, &in) {
		return
	}
	if fields := requireFields(map[string]string{"subject": in.Subject, "content": in.Content}); fields != nil {
		writeValidation(w, fields)
		return
	}
	q := s.store.CreateQuestion(in, currentUser(r))
	s.log.WithField("id", q.ID).Debug("mock question created")
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) updateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.QuestionWrite
	if !decodeBody(w, r, &in) {
		return
	}
	if fields := requireFields(map[string]string{"subject": in.Subject, "content": in.Content}); fields != nil {
		writeValidation(w, fields)
		return
	}
	q, found := s.store.UpdateQuestion(id, in)
	if !found {
		writeDetail(w, http.StatusNotFound, "Question not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// ==========================
// Answers
// ==========================

func (s *Server) createAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.AnswerWrite
	if !decodeBody(w, r, &in) {
		return
	}
	if fields := requireFields(map[string]string{"content": in.Content}); fields != nil {
		writeValidation(w, fields)
		return
	}
	a, found := s.store.CreateAnswer(id, in, currentUser(r))
	if !found {
		writeDetail(w, http.StatusNotFound, "Question not found")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) updateAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.AnswerWrite
	if !decodeBody(w, r, &in) {
		return
	}
	if fields := requireFields(map[string]string{"content": in.Content}); fields != nil {
		writeValidation(w, fields)
		return
	}
	a, found := s.store.UpdateAnswer(id, in)
	if !found {
		writeDetail(w, http.StatusNotFound, "Answer not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ==========================
// Users
// ==========================

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in models.UserCreate
	if !decodeBody(w, r, &in) {
		return
	}
	if fields := requireFields(map[string]string{
		"username": in.Username, "password1": in.Password1,
		"password2": in.Password2, "email": in.Email,
	}); fields != nil {
		writeValidation(w, fields)
		return
	}
	if in.Password1 != in.Password2 {
		writeValidation(w, []validationField{{name: "password2", msg: "passwords do not match"}})
		return
	}

	hash, err := hashPassword(in.Password1)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	u, created := s.store.CreateUser(in.Username, in.Email, hash)
	if !created {
		writeDetail(w, http.StatusConflict, "Username already registered")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in models.UserLogin
	if !decodeBody(w, r, &in) {
		return
	}

	user, hash, found := s.store.GetUser(in.Username)
	if !found || !checkPassword(hash, in.Password) {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := s.issueToken(user.Username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (s *Server) dbCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "mock backend up, in-memory store ready"})
}

// ==========================
// Helpers
// ==========================

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "path parameter must be an integer")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "request body is not valid JSON")
		return false
	}
	return true
}

type validationField struct {
	name string
	msg  string
}

func requireFields(fields map[string]string) []validationField {
	var missing []validationField
	for name, value := range fields {
		if value == "" {
			missing = append(missing, validationField{name: name, msg: "field required"})
		}
	}
	return missing
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail mirrors the backend's single-message error envelope.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeValidation mirrors the backend's validation-error list.
func writeValidation(w http.ResponseWriter, fields []validationField) {
	items := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		items = append(items, map[string]any{
			"loc":  []any{"body", f.name},
			"msg":  f.msg,
			"type": "value_error",
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
}
