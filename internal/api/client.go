// Package api is the REST client for the PYBO backend. One method per
// backend operation; every call is fire-once with no retries or caching,
// and every failure is reduced to a single *APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pybo-board/pybo-client/internal/metrics"
	"github.com/pybo-board/pybo-client/internal/models"
)

// TokenSource supplies the current bearer token, or "" when anonymous.
// The session store implements it.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logrus.Logger
}

// New builds a client against baseURL. tokens may be nil for a client that
// never authenticates (e.g. health probes).
func New(baseURL string, tokens TokenSource, log *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		tokens:  tokens,
		log:     log,
	}
}

// ListQuestions fetches one page of questions. The response envelope is
// normalized, so all three historical list shapes are accepted.
func (c *Client) ListQuestions(ctx context.Context, req models.ListRequest) (*models.QuestionPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("size", strconv.Itoa(req.Size))
	if req.Keyword != "" {
		q.Set("keyword", req.Keyword)
	}

	body, err := c.do(ctx, http.MethodGet, "/api/question/list?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return NormalizeQuestionList(body)
}

// GetQuestion fetches one question with its embedded answers.
func (c *Client) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/question/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}
	return decode[models.Question](body)
}

func (c *Client) CreateQuestion(ctx context.Context, w models.QuestionWrite) (*models.Question, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/question", w)
	if err != nil {
		return nil, err
	}
	return decode[models.Question](body)
}

func (c *Client) UpdateQuestion(ctx context.Context, id int64, w models.QuestionWrite) (*models.Question, error) {
	body, err := c.do(ctx, http.MethodPut, "/api/question/"+strconv.FormatInt(id, 10), w)
	if err != nil {
		return nil, err
	}
	return decode[models.Question](body)
}

func (c *Client) CreateAnswer(ctx context.Context, questionID int64, w models.AnswerWrite) (*models.Answer, error) {
	path := fmt.Sprintf("/api/question/%d/answer", questionID)
	body, err := c.do(ctx, http.MethodPost, path, w)
	if err != nil {
		return nil, err
	}
	return decode[models.Answer](body)
}

func (c *Client) UpdateAnswer(ctx context.Context, id int64, w models.AnswerWrite) (*models.Answer, error) {
	body, err := c.do(ctx, http.MethodPut, "/api/answer/"+strconv.FormatInt(id, 10), w)
	if err != nil {
		return nil, err
	}
	return decode[models.Answer](body)
}

// Register creates a user account. Some backend versions answer 204 with an
// empty body; the submitted identity is echoed back in that case.
func (c *Client) Register(ctx context.Context, u models.UserCreate) (*models.User, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/user", u)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &models.User{Username: u.Username, Email: u.Email}, nil
	}
	return decode[models.User](body)
}

// Login exchanges credentials for a bearer token. The caller decides whether
// to store the result; this method never touches the session.
func (c *Client) Login(ctx context.Context, creds models.UserLogin) (*models.LoginResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/login", creds)
	if err != nil {
		return nil, err
	}
	res, err := decode[models.LoginResult](body)
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, formatError("login response carries no access token")
	}
	if res.User == nil {
		// Older backends return a flat username instead of a user object.
		var legacy struct {
			Username string `json:"username"`
		}
		if jsonErr := json.Unmarshal(body, &legacy); jsonErr == nil && legacy.Username != "" {
			res.User = &models.User{Username: legacy.Username}
		}
	}
	if res.User == nil {
		return nil, formatError("login response carries no user identity")
	}
	return res, nil
}

// HealthCheck probes the backend's DB-check endpoint and returns its message.
func (c *Client) HealthCheck(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/db-check", nil)
	if err != nil {
		return "", err
	}
	res, err := decode[struct {
		Message string `json:"message"`
	}](body)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// do performs one request. payload (when non-nil) is marshalled as JSON;
// the bearer token is attached when the session has one. Non-2xx bodies are
// normalized with DecodeError, transport failures wrap the cause.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, formatError("encode request: " + err.Error())
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, transportError(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	c.log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("api request")

	// Metrics use the bare path, without the query string.
	metricPath, _, _ := strings.Cut(path, "?")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordBackend(method, metricPath, 0, time.Since(start).Seconds())
		return nil, transportError(err)
	}
	defer resp.Body.Close()
	metrics.RecordBackend(method, metricPath, resp.StatusCode, time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := DecodeError(resp.StatusCode, body)
		c.log.WithFields(logrus.Fields{"method": method, "path": path, "status": resp.StatusCode}).
			Debug("api error response")
		return nil, apiErr
	}
	return body, nil
}

func decode[T any](body []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, formatError("unexpected response shape: " + err.Error())
	}
	return &v, nil
}
