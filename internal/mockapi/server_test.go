package mockapi

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pybo-board/pybo-client/internal/api"
	"github.com/pybo-board/pybo-client/internal/models"
	"github.com/pybo-board/pybo-client/internal/session"
)

// The mock backend is exercised through the real client so the two stay in
// contract agreement.
func newTestClient(t *testing.T) (*api.Client, *session.Store) {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	srv := httptest.NewServer(NewServer("test-secret", log).Handler())
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryStore(), log)
	return api.New(srv.URL, store, log), store
}

func registerAndLogin(t *testing.T, c *api.Client, store *session.Store, username string) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Register(ctx, models.UserCreate{
		Username: username, Password1: "pass", Password2: "pass",
		Email: username + "@example.com",
	})
	require.NoError(t, err)

	res, err := c.Login(ctx, models.UserLogin{Username: username, Password: "pass"})
	require.NoError(t, err)
	require.NoError(t, store.Login(res.User, res.AccessToken))
}

func TestSeededListAndDetail(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	page, err := c.ListQuestions(ctx, models.ListRequest{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.NotEmpty(t, page.Items)

	q, err := c.GetQuestion(ctx, page.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, page.Items[0].Subject, q.Subject)
}

func TestWriteRequiresAuth(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.CreateQuestion(context.Background(), models.QuestionWrite{Subject: "s", Content: "c"})

	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
}

func TestQuestionAnswerLifecycle(t *testing.T) {
	c, store := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, c, store, "alice")

	q, err := c.CreateQuestion(ctx, models.QuestionWrite{Subject: "new q", Content: "body"})
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
	require.NotNil(t, q.User)
	assert.Equal(t, "alice", q.User.Username)

	a, err := c.CreateAnswer(ctx, q.ID, models.AnswerWrite{Content: "first answer"})
	require.NoError(t, err)

	updatedQ, err := c.UpdateQuestion(ctx, q.ID, models.QuestionWrite{Subject: "edited", Content: "body2"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updatedQ.Subject)

	updatedA, err := c.UpdateAnswer(ctx, a.ID, models.AnswerWrite{Content: "edited answer"})
	require.NoError(t, err)
	assert.Equal(t, "edited answer", updatedA.Content)

	detail, err := c.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, detail.Answers, 1)
	assert.Equal(t, "edited answer", detail.Answers[0].Content)
}

func TestPaginationInvariant(t *testing.T) {
	c, store := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, c, store, "alice")

	// 3 seeded + 22 created = 25 total.
	for i := 0; i < 22; i++ {
		_, err := c.CreateQuestion(ctx, models.QuestionWrite{
			Subject: fmt.Sprintf("q-%02d", i), Content: "body",
		})
		require.NoError(t, err)
	}

	for p := 0; p < 3; p++ {
		page, err := c.ListQuestions(ctx, models.ListRequest{Page: p, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 25, page.Total)
		assert.LessOrEqual(t, len(page.Items), 10)
		if len(page.Items) > 0 {
			assert.Less(t, p*10, page.Total)
		}
	}

	last, err := c.ListQuestions(ctx, models.ListRequest{Page: 2, Size: 10})
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)

	beyond, err := c.ListQuestions(ctx, models.ListRequest{Page: 9, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func TestKeywordSearch(t *testing.T) {
	c, store := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, c, store, "alice")

	_, err := c.CreateQuestion(ctx, models.QuestionWrite{Subject: "needle in haystack", Content: "body"})
	require.NoError(t, err)

	page, err := c.ListQuestions(ctx, models.ListRequest{Page: 0, Size: 10, Keyword: "needle"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Contains(t, page.Items[0].Subject, "needle")
}

func TestWrongPassword(t *testing.T) {
	c, store := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, c, store, "alice")

	_, err := c.Login(ctx, models.UserLogin{Username: "alice", Password: "wrong"})

	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "Incorrect username or password", apiErr.Message)
}

func TestDuplicateRegistration(t *testing.T) {
	c, store := newTestClient(t)
	registerAndLogin(t, c, store, "alice")

	_, err := c.Register(context.Background(), models.UserCreate{
		Username: "alice", Password1: "pass", Password2: "pass", Email: "a@example.com",
	})

	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.Status)
}

func TestMissingFieldsComeBackAsValidationList(t *testing.T) {
	c, store := newTestClient(t)
	registerAndLogin(t, c, store, "alice")

	_, err := c.CreateQuestion(context.Background(), models.QuestionWrite{Subject: "only subject"})

	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	require.Equal(t, api.KindFieldErrors, apiErr.Kind)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "content", apiErr.Fields[0].Field)
}

func TestHealthCheck(t *testing.T) {
	c, _ := newTestClient(t)

	msg, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
}
