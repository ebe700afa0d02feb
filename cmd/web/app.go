package main

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pybo-board/pybo-client/internal/api"
	webmw "github.com/pybo-board/pybo-client/internal/middleware"
	"github.com/pybo-board/pybo-client/internal/models"
	"github.com/pybo-board/pybo-client/internal/session"
	"github.com/pybo-board/pybo-client/internal/validate"
)

//go:embed templates
var templatesFS embed.FS

const defaultPageSize = 10

type app struct {
	client   *api.Client
	sessions *session.Store
	forms    *inflight
	validate *validate.Validator
	log      *logrus.Logger
	hsts     bool
}

// routes wires the page handlers. Write routes sit behind requireAuth; the
// login and register forms are rate limited per client IP.
func (a *app) routes(logRequests bool) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if logRequests {
		r.Use(webmw.RequestLog(a.log))
	}
	r.Use(webmw.Metrics)
	r.Use(webmw.SecurityHeaders(a.hsts))
	r.Use(webmw.MaxBytes(0))

	authLimiter := webmw.NewIPRateLimiter(rate.Limit(1), 10)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/question/list", http.StatusFound)
	})
	r.Get("/question/list", a.questionList)
	r.Get("/question/{id}", a.questionDetail)
	r.Get("/login", a.loginForm)
	r.With(authLimiter.Middleware).Post("/login", a.loginSubmit)
	r.Get("/logout", a.logout)
	r.Get("/register", a.registerForm)
	r.With(authLimiter.Middleware).Post("/register", a.registerSubmit)
	r.Get("/health", a.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(a.requireAuth)
		r.Get("/question/create", a.questionCreateForm)
		r.Post("/question/create", a.questionCreate)
		r.Post("/question/{id}/answer", a.answerCreate)
		r.Get("/question/{id}/modify", a.questionModifyForm)
		r.Post("/question/{id}/modify", a.questionModify)
		r.Get("/answer/{id}/modify", a.answerModifyForm)
		r.Post("/answer/{id}/modify", a.answerModify)
	})

	return r
}

// ==========================
// Auth
// ==========================

// requireAuth redirects anonymous visitors to the login page, remembering
// where they were headed.
func (a *app) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.sessions.IsAuthenticated() {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *app) loginForm(w http.ResponseWriter, r *http.Request) {
	if a.sessions.IsAuthenticated() {
		http.Redirect(w, r, "/question/list", http.StatusFound)
		return
	}
	a.render(w, "login.html", map[string]any{"Next": r.URL.Query().Get("next")})
}

func (a *app) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := models.UserLogin{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	next := r.FormValue("next")
	data := map[string]any{"Username": form.Username, "Next": next}

	if err := a.validate.Check(form); err != nil {
		a.renderError(w, "login.html", data, err)
		return
	}

	if !a.forms.begin("login") {
		a.renderError(w, "login.html", data, errInFlight)
		return
	}
	defer a.forms.end("login")

	res, err := a.client.Login(r.Context(), form)
	if err != nil {
		// The backend's message (e.g. "Incorrect username or password") is
		// shown verbatim; the session is left untouched.
		a.renderError(w, "login.html", data, err)
		return
	}
	if err := a.sessions.Login(res.User, res.AccessToken); err != nil {
		a.renderError(w, "login.html", data, err)
		return
	}

	if next == "" {
		next = "/question/list"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (a *app) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Logout(); err != nil {
		a.log.WithError(err).Warn("logout persistence failed")
	}
	http.Redirect(w, r, "/question/list", http.StatusFound)
}

func (a *app) registerForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, "register.html", nil)
}

func (a *app) registerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := models.UserCreate{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Password1: r.FormValue("password1"),
		Password2: r.FormValue("password2"),
		Email:     strings.TrimSpace(r.FormValue("email")),
	}
	data := map[string]any{"Username": form.Username, "Email": form.Email}

	// Local checks (password equality, minimum length) run before any
	// network call.
	if err := a.validate.Check(form); err != nil {
		a.renderError(w, "register.html", data, err)
		return
	}

	if !a.forms.begin("register") {
		a.renderError(w, "register.html", data, errInFlight)
		return
	}
	defer a.forms.end("register")

	if _, err := a.client.Register(r.Context(), form); err != nil {
		a.renderError(w, "register.html", data, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// ==========================
// Question pages
// ==========================

type questionRow struct {
	Number      int // 1-based position across the whole listing
	ID          int64
	Subject     string
	Excerpt     string
	AnswerCount int
	Author      string
	CreateDate  string
}

type pageLink struct {
	Label   string
	Page    int
	Current bool
}

func (a *app) questionList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", defaultPageSize)
	if size <= 0 || size > 100 {
		size = defaultPageSize
	}
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))

	data := map[string]any{
		"Keyword": keyword,
		"Page":    page,
		"Size":    size,
	}

	result, err := a.client.ListQuestions(r.Context(), models.ListRequest{Page: page, Size: size, Keyword: keyword})
	if err != nil {
		a.renderError(w, "question_list.html", data, err)
		return
	}

	rows := make([]questionRow, 0, len(result.Items))
	for i, q := range result.Items {
		rows = append(rows, questionRow{
			Number:      page*size + i + 1,
			ID:          q.ID,
			Subject:     q.Subject,
			Excerpt:     excerpt(q.Content, 50),
			AnswerCount: len(q.Answers),
			Author:      authorName(q.User),
			CreateDate:  formatDate(q.CreateDate),
		})
	}

	totalPages := (result.Total + size - 1) / size
	links := make([]pageLink, 0, totalPages)
	for p := 0; p < totalPages; p++ {
		links = append(links, pageLink{
			Label:   strconv.Itoa(p + 1),
			Page:    p,
			Current: p == page,
		})
	}

	data["Rows"] = rows
	data["Total"] = result.Total
	data["Pages"] = links
	data["HasPrev"] = page > 0
	data["PrevPage"] = page - 1
	data["HasNext"] = page+1 < totalPages
	data["NextPage"] = page + 1
	a.render(w, "question_list.html", data)
}

type answerView struct {
	ID         int64
	Content    string
	Author     string
	CreateDate string
}

func (a *app) questionDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a.showDetail(w, r, id, nil, "")
}

// showDetail renders the detail page, optionally with a form error and the
// answer draft that caused it.
func (a *app) showDetail(w http.ResponseWriter, r *http.Request, id int64, formErr error, draft string) {
	q, err := a.client.GetQuestion(r.Context(), id)
	if err != nil {
		a.renderError(w, "question_detail.html", map[string]any{"QuestionID": id}, err)
		return
	}

	answers := make([]answerView, 0, len(q.Answers))
	for _, ans := range q.Answers {
		answers = append(answers, answerView{
			ID:         ans.ID,
			Content:    ans.Content,
			Author:     authorName(ans.User),
			CreateDate: formatDate(ans.CreateDate),
		})
	}

	data := map[string]any{
		"QuestionID":    q.ID,
		"Subject":       q.Subject,
		"Content":       q.Content,
		"Author":        authorName(q.User),
		"CreateDate":    formatDate(q.CreateDate),
		"Answers":       answers,
		"AnswerDraft":   draft,
		"Authenticated": a.sessions.IsAuthenticated(),
	}
	if formErr != nil {
		data["Errors"] = errorLines(formErr)
	}
	a.render(w, "question_detail.html", data)
}

func (a *app) questionCreateForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, "question_form.html", map[string]any{
		"Title":      "Ask a question",
		"FormAction": "/question/create",
	})
}

func (a *app) questionCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := models.QuestionWrite{
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Content: r.FormValue("content"),
	}
	data := map[string]any{
		"Title":      "Ask a question",
		"FormAction": "/question/create",
		"Subject":    form.Subject,
		"Content":    form.Content,
	}

	if err := a.validate.Check(form); err != nil {
		a.renderError(w, "question_form.html", data, err)
		return
	}

	if !a.forms.begin("question-create") {
		a.renderError(w, "question_form.html", data, errInFlight)
		return
	}
	defer a.forms.end("question-create")

	q, err := a.client.CreateQuestion(r.Context(), form)
	if err != nil {
		a.renderError(w, "question_form.html", data, err)
		return
	}
	http.Redirect(w, r, "/question/"+strconv.FormatInt(q.ID, 10), http.StatusFound)
}

func (a *app) questionModifyForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := a.client.GetQuestion(r.Context(), id)
	if err != nil {
		a.renderError(w, "question_form.html", map[string]any{"Title": "Edit question"}, err)
		return
	}
	a.render(w, "question_form.html", map[string]any{
		"Title":      "Edit question",
		"FormAction": "/question/" + strconv.FormatInt(id, 10) + "/modify",
		"Subject":    q.Subject,
		"Content":    q.Content,
	})
}

func (a *app) questionModify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := models.QuestionWrite{
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Content: r.FormValue("content"),
	}
	action := "/question/" + strconv.FormatInt(id, 10) + "/modify"
	data := map[string]any{
		"Title":      "Edit question",
		"FormAction": action,
		"Subject":    form.Subject,
		"Content":    form.Content,
	}

	if err := a.validate.Check(form); err != nil {
		a.renderError(w, "question_form.html", data, err)
		return
	}

	key := "question-modify-" + strconv.FormatInt(id, 10)
	if !a.forms.begin(key) {
		a.renderError(w, "question_form.html", data, errInFlight)
		return
	}
	defer a.forms.end(key)

	q, err := a.client.UpdateQuestion(r.Context(), id, form)
	if err != nil {
		a.renderError(w, "question_form.html", data, err)
		return
	}
	http.Redirect(w, r, "/question/"+strconv.FormatInt(q.ID, 10), http.StatusFound)
}

// ==========================
// Answer pages
// ==========================

func (a *app) answerCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := models.AnswerWrite{Content: r.FormValue("content")}

	if err := a.validate.Check(form); err != nil {
		a.showDetail(w, r, id, err, form.Content)
		return
	}

	key := "answer-" + strconv.FormatInt(id, 10)
	if !a.forms.begin(key) {
		a.showDetail(w, r, id, errInFlight, form.Content)
		return
	}
	defer a.forms.end(key)

	if _, err := a.client.CreateAnswer(r.Context(), id, form); err != nil {
		a.showDetail(w, r, id, err, form.Content)
		return
	}
	// Redirect re-fetches the question, so the new answer comes from the
	// authoritative response rather than an optimistic update.
	http.Redirect(w, r, "/question/"+strconv.FormatInt(id, 10), http.StatusFound)
}

func (a *app) answerModifyForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	questionID := queryInt64(r, "question", 0)
	data := map[string]any{
		"AnswerID":   id,
		"QuestionID": questionID,
	}
	if questionID == 0 {
		a.renderError(w, "answer_form.html", data, errors.New("missing question reference"))
		return
	}

	// There is no GET-answer endpoint; the current content comes from the
	// owning question's embedded answers.
	q, err := a.client.GetQuestion(r.Context(), questionID)
	if err != nil {
		a.renderError(w, "answer_form.html", data, err)
		return
	}
	for _, ans := range q.Answers {
		if ans.ID == id {
			data["Content"] = ans.Content
			a.render(w, "answer_form.html", data)
			return
		}
	}
	a.renderError(w, "answer_form.html", data, errors.New("answer not found on this question"))
}

func (a *app) answerModify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	questionID, _ := strconv.ParseInt(r.FormValue("question"), 10, 64)
	form := models.AnswerWrite{Content: r.FormValue("content")}
	data := map[string]any{
		"AnswerID":   id,
		"QuestionID": questionID,
		"Content":    form.Content,
	}

	if err := a.validate.Check(form); err != nil {
		a.renderError(w, "answer_form.html", data, err)
		return
	}

	key := "answer-modify-" + strconv.FormatInt(id, 10)
	if !a.forms.begin(key) {
		a.renderError(w, "answer_form.html", data, errInFlight)
		return
	}
	defer a.forms.end(key)

	if _, err := a.client.UpdateAnswer(r.Context(), id, form); err != nil {
		a.renderError(w, "answer_form.html", data, err)
		return
	}
	if questionID > 0 {
		http.Redirect(w, r, "/question/"+strconv.FormatInt(questionID, 10), http.StatusFound)
		return
	}
	http.Redirect(w, r, "/question/list", http.StatusFound)
}

// ==========================
// Health
// ==========================

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	msg, err := a.client.HealthCheck(r.Context())
	if err != nil {
		a.renderError(w, "health.html", nil, err)
		return
	}
	a.render(w, "health.html", map[string]any{"Message": msg})
}

// ==========================
// Rendering helpers
// ==========================

func (a *app) render(w http.ResponseWriter, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Authenticated"]; !ok {
		data["Authenticated"] = a.sessions.IsAuthenticated()
	}
	if user, _ := a.sessions.Current(); user != nil {
		data["SessionUser"] = user.Username
	}

	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	layout, err := templatesFS.ReadFile("templates/layout.html")
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t, err := template.New("layout").Parse(string(layout))
	if err == nil {
		_, err = t.Parse(string(content))
	}
	if err != nil {
		a.log.WithError(err).Error("template parse")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		a.log.WithError(err).Error("template execute")
	}
}

// renderError renders a page with the normalized error lines in its inline
// message area.
func (a *app) renderError(w http.ResponseWriter, name string, data map[string]any, err error) {
	if data == nil {
		data = map[string]any{}
	}
	data["Errors"] = errorLines(err)
	a.render(w, name, data)
}

func errorLines(err error) []string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Lines()
	}
	return []string{err.Error()}
}

// errInFlight is shown when a form is re-submitted while its previous
// submission is still outstanding.
var errInFlight = errors.New("a submission is already in progress, please wait")

// inflight tracks at-most-one-outstanding-submission per form.
type inflight struct {
	mu     sync.Mutex
	active map[string]bool
}

func newInflight() *inflight {
	return &inflight{active: map[string]bool{}}
}

// begin marks the form busy; it reports false when a prior submission is
// still running.
func (f *inflight) begin(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active[key] {
		return false
	}
	f.active[key] = true
	return true
}

func (f *inflight) end(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, key)
}

// ==========================
// Small parsing/format helpers
// ==========================

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func queryInt64(r *http.Request, key string, fallback int64) int64 {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func authorName(u *models.User) string {
	if u == nil || u.Username == "" {
		return "anonymous"
	}
	return u.Username
}

// formatDate renders the backend's ISO 8601 strings for display; unknown
// layouts fall through unchanged.
func formatDate(s string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return s
}
