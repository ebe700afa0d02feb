package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pybo-board/pybo-client/internal/api"
	"github.com/pybo-board/pybo-client/internal/models"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, api.KindFieldErrors, apiErr.Kind)

	out := map[string]string{}
	for _, f := range apiErr.Fields {
		out[f.Field] = f.Text
	}
	return out
}

func TestRegistrationPasswordMismatchRejectedLocally(t *testing.T) {
	err := New().Check(models.UserCreate{
		Username:  "alice",
		Password1: "secret",
		Password2: "different",
		Email:     "alice@example.com",
	})

	fields := fieldsOf(t, err)
	assert.Equal(t, "passwords do not match", fields["password2"])
}

func TestRegistrationShortPasswordRejectedLocally(t *testing.T) {
	err := New().Check(models.UserCreate{
		Username:  "alice",
		Password1: "abc",
		Password2: "abc",
		Email:     "alice@example.com",
	})

	fields := fieldsOf(t, err)
	assert.Equal(t, "must be at least 4 characters", fields["password1"])
}

func TestRegistrationValidPasses(t *testing.T) {
	err := New().Check(models.UserCreate{
		Username:  "alice",
		Password1: "abcd",
		Password2: "abcd",
		Email:     "alice@example.com",
	})
	assert.NoError(t, err)
}

func TestRegistrationBadEmail(t *testing.T) {
	err := New().Check(models.UserCreate{
		Username:  "alice",
		Password1: "abcd",
		Password2: "abcd",
		Email:     "not-an-email",
	})

	fields := fieldsOf(t, err)
	assert.Equal(t, "must be a valid email address", fields["email"])
}

func TestQuestionBlankSubjectRejected(t *testing.T) {
	err := New().Check(models.QuestionWrite{Subject: "   ", Content: "body"})

	fields := fieldsOf(t, err)
	assert.Equal(t, "is required", fields["subject"])
}

func TestAnswerContentRequired(t *testing.T) {
	err := New().Check(models.AnswerWrite{})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "content")
}

func TestLoginFormRequiredFields(t *testing.T) {
	err := New().Check(models.UserLogin{})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
}
