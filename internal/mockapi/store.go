package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pybo-board/pybo-client/internal/models"
)

// Store is the in-memory data set behind the mock backend. It exists so the
// UI can run without infrastructure; nothing survives a restart on purpose.
type Store struct {
	mu        sync.RWMutex
	questions map[int64]*models.Question
	answerIdx map[int64]int64 // answer id -> owning question id
	users     map[string]*storedUser
	nextID    int64
	nextUser  int64
}

type storedUser struct {
	user models.User
	hash []byte
}

func NewStore() *Store {
	return &Store{
		questions: map[int64]*models.Question{},
		answerIdx: map[int64]int64{},
		users:     map[string]*storedUser{},
		nextID:    1,
		nextUser:  1,
	}
}

// Seed loads a handful of sample questions so the list page is not empty on
// first run.
func (s *Store) Seed() {
	samples := []models.QuestionWrite{
		{Subject: "What is PYBO?", Content: "A small question and answer board."},
		{Subject: "How do I register?", Content: "Use the register page and log in afterwards."},
		{Subject: "Can I edit my question?", Content: "Yes, from the detail page once logged in."},
	}
	for _, w := range samples {
		s.CreateQuestion(w, nil)
	}
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ListQuestions returns one page ordered newest first, optionally filtered
// by a case-insensitive subject/content keyword.
func (s *Store) ListQuestions(page, size int, keyword string) (int, []models.Question) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Question, 0, len(s.questions))
	kw := strings.ToLower(keyword)
	for _, q := range s.questions {
		if kw != "" &&
			!strings.Contains(strings.ToLower(q.Subject), kw) &&
			!strings.Contains(strings.ToLower(q.Content), kw) {
			continue
		}
		listed := *q
		listed.Answers = nil // answers are a detail-only embed
		all = append(all, listed)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	start := page * size
	if start >= total {
		return total, []models.Question{}
	}
	end := start + size
	if end > total {
		end = total
	}
	return total, all[start:end]
}

func (s *Store) GetQuestion(id int64) (*models.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, false
	}
	out := *q
	out.Answers = append([]models.Answer(nil), q.Answers...)
	return &out, true
}

func (s *Store) CreateQuestion(w models.QuestionWrite, author *models.User) *models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := &models.Question{
		ID:         s.allocID(),
		Subject:    w.Subject,
		Content:    w.Content,
		CreateDate: now(),
		User:       author,
	}
	s.questions[q.ID] = q
	out := *q
	return &out
}

func (s *Store) UpdateQuestion(id int64, w models.QuestionWrite) (*models.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, false
	}
	q.Subject = w.Subject
	q.Content = w.Content
	out := *q
	out.Answers = append([]models.Answer(nil), q.Answers...)
	return &out, true
}

func (s *Store) CreateAnswer(questionID int64, w models.AnswerWrite, author *models.User) (*models.Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[questionID]
	if !ok {
		return nil, false
	}
	a := models.Answer{
		ID:         s.allocID(),
		Content:    w.Content,
		CreateDate: now(),
		User:       author,
	}
	q.Answers = append(q.Answers, a)
	s.answerIdx[a.ID] = questionID
	return &a, true
}

func (s *Store) UpdateAnswer(id int64, w models.AnswerWrite) (*models.Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qid, ok := s.answerIdx[id]
	if !ok {
		return nil, false
	}
	q := s.questions[qid]
	for i := range q.Answers {
		if q.Answers[i].ID == id {
			q.Answers[i].Content = w.Content
			out := q.Answers[i]
			return &out, true
		}
	}
	return nil, false
}

// CreateUser registers a user. Returns false when the username is taken.
func (s *Store) CreateUser(username, email string, hash []byte) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return nil, false
	}
	u := models.User{ID: s.nextUser, Username: username, Email: email}
	s.nextUser++
	s.users[username] = &storedUser{user: u, hash: hash}
	out := u
	return &out, true
}

func (s *Store) GetUser(username string) (*models.User, []byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	su, ok := s.users[username]
	if !ok {
		return nil, nil, false
	}
	out := su.user
	return &out, su.hash, true
}
