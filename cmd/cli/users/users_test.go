package users

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pybo-board/pybo-client/internal/models"
	"github.com/pybo-board/pybo-client/internal/session"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupEnv(t *testing.T, apiURL string) string {
	t.Helper()
	sessionFile := filepath.Join(t.TempDir(), "session.json")
	t.Setenv("PYBO_API_BASE_URL", apiURL)
	t.Setenv("PYBO_SESSION_FILE", sessionFile)
	return sessionFile
}

func stubPrompts(t *testing.T, lines string, passwords ...string) {
	t.Helper()
	oldStdin, oldRead := stdin, readPassword
	t.Cleanup(func() { stdin, readPassword = oldStdin, oldRead })

	stdin = strings.NewReader(lines)
	i := 0
	readPassword = func() ([]byte, error) {
		if i >= len(passwords) {
			t.Fatal("more password prompts than stubbed passwords")
		}
		pw := passwords[i]
		i++
		return []byte(pw), nil
	}
}

func TestLogin_StoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var form models.UserLogin
		_ = json.NewDecoder(r.Body).Decode(&form)
		if form.Username != "alice" || form.Password != "secret" {
			t.Fatalf("unexpected credentials: %+v", form)
		}
		_ = json.NewEncoder(w).Encode(models.LoginResult{
			AccessToken: "tok-1",
			TokenType:   "bearer",
			User:        &models.User{ID: 1, Username: "alice", Email: "alice@example.com"},
		})
	}))
	defer srv.Close()
	sessionFile := setupEnv(t, srv.URL)
	stubPrompts(t, "alice\n", "secret")

	cmd := loginCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// A fresh store restores the persisted session.
	restored := session.NewStore(session.NewFileStoreAt(sessionFile), quietLogger())
	restored.Restore()
	if !restored.IsAuthenticated() {
		t.Fatal("expected restored session to be authenticated")
	}
	user, token := restored.Current()
	if user.Username != "alice" || token != "tok-1" {
		t.Fatalf("unexpected restored session: %+v %q", user, token)
	}
}

func TestLogin_BadCredentialsLeaveNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	}))
	defer srv.Close()
	sessionFile := setupEnv(t, srv.URL)
	stubPrompts(t, "alice\n", "wrong")

	cmd := loginCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "Incorrect username or password") {
		t.Fatalf("expected the backend message, got: %v", err)
	}

	restored := session.NewStore(session.NewFileStoreAt(sessionFile), quietLogger())
	restored.Restore()
	if restored.IsAuthenticated() {
		t.Fatal("failed login must not store a session")
	}
}

func TestRegister_PasswordMismatchNeverReachesNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid form must never reach the API")
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)
	stubPrompts(t, "bob\nbob@example.com\n", "secret", "other")

	cmd := registerCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "passwords do not match") {
		t.Fatalf("expected a mismatch error, got: %v", err)
	}
}

func TestRegister_AcceptsEmptyResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var form models.UserCreate
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &form)
		if form.Username != "bob" || form.Email != "bob@example.com" {
			t.Fatalf("unexpected form: %+v", form)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)
	stubPrompts(t, "bob\nbob@example.com\n", "secret", "secret")

	cmd := registerCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("register failed: %v", err)
	}
}

func TestLogout_WithoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	setupEnv(t, srv.URL)

	cmd := logoutCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("logout without a session must not fail: %v", err)
	}
}
