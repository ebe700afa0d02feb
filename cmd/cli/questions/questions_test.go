package questions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pybo-board/pybo-client/internal/models"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func setupEnv(t *testing.T, apiURL string) {
	t.Helper()
	t.Setenv("PYBO_API_BASE_URL", apiURL)
	t.Setenv("PYBO_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
}

func TestList_TableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/question/list" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(models.QuestionPage{
			Total: 2,
			Items: []models.Question{
				{ID: 1, Subject: "first question", Content: "c", CreateDate: "2024-01-01"},
				{ID: 2, Subject: "second question", Content: "c", CreateDate: "2024-01-02"},
			},
		})
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)

	cmd := listCmd()
	cmd.SetArgs([]string{})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Errorf("list failed: %v", err)
		}
	})

	if !strings.Contains(out, "first question") || !strings.Contains(out, "second question") {
		t.Fatalf("expected subjects in output, got: %s", out)
	}
	if !strings.Contains(out, "Total 2 question(s), page 1 of 1") {
		t.Fatalf("expected pagination summary, got: %s", out)
	}
}

func TestList_JSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.QuestionPage{
			Total: 1,
			Items: []models.Question{{ID: 1, Subject: "only", Content: "c", CreateDate: "2024-01-01"}},
		})
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)

	cmd := listCmd()
	cmd.SetArgs([]string{"--json"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Errorf("list failed: %v", err)
		}
	})

	if !strings.Contains(out, `"subject": "only"`) {
		t.Fatalf("expected JSON output, got: %s", out)
	}
}

func TestList_ForwardsKeyword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keyword"); got != "golang" {
			t.Fatalf("expected keyword forwarded, got %q", got)
		}
		_, _ = w.Write([]byte(`{"total":0,"items":[]}`))
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)

	cmd := listCmd()
	cmd.SetArgs([]string{"--keyword", "golang"})

	captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Errorf("list failed: %v", err)
		}
	})
}

func TestShow_PrintsAnswers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/question/7" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":7,"subject":"the subject","content":"the body","create_date":"2024-01-01",
			"answers":[{"id":1,"content":"an answer","create_date":"2024-01-02"}]}`))
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)

	cmd := showCmd()
	cmd.SetArgs([]string{"7"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Errorf("show failed: %v", err)
		}
	})

	for _, want := range []string{"the subject", "the body", "an answer", "1 answer(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestCreate_RequiresLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("anonymous create must never reach the API")
	}))
	defer srv.Close()
	setupEnv(t, srv.URL)

	cmd := createCmd()
	cmd.SetArgs([]string{"--subject", "s", "--content", "c"})

	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "login") {
		t.Fatalf("expected a login error, got: %v", err)
	}
}
