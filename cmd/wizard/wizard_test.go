package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type promptLog struct {
	mu      sync.Mutex
	prompts []string
}

func (l *promptLog) add(prompt string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, prompt)
	return len(l.prompts) - 1
}

func (l *promptLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.prompts...)
}

// newProxy serves the replies in order, one per call, and records prompts.
func newProxy(t *testing.T, replies ...string) (*httptest.Server, *promptLog) {
	t.Helper()
	prompts := &promptLog{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		i := prompts.add(body.Prompt)
		if i >= len(replies) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": replies[i]})
	}))
	t.Cleanup(srv.Close)
	return srv, prompts
}

func executeWizard(t *testing.T, proxyURL, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"WIZARD_PROXY_URL", "WIZARD_MAX_RETRIES", "WIZARD_REQUEST_TIMEOUT_SECONDS", "WIZARD_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args,
		"--proxy-url", proxyURL,
		"--max-retries", "1",
		"--timeout", "5",
		"--log-level", "error",
	))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestTitlesCommand(t *testing.T) {
	srv, prompts := newProxy(t, "Here you go:\n1. Title A\n2. Title B\n")

	out, err := executeWizard(t, srv.URL, "", "titles", "--program", "Informatics", "--interest", "crop yield prediction")
	require.NoError(t, err)

	assert.Contains(t, out, "Choose one of the title ideas:")
	assert.Contains(t, out, "1. Title A")
	assert.Contains(t, out, "2. Title B")
	require.Len(t, prompts.all(), 1)
	assert.Contains(t, prompts.all()[0], "Informatics")
	assert.Contains(t, prompts.all()[0], "crop yield prediction")
}

func TestTitlesCommand_MissingInput(t *testing.T) {
	srv, prompts := newProxy(t)

	out, err := executeWizard(t, srv.URL, "", "titles", "--program", "Informatics", "--interest", "")
	require.Error(t, err)

	assert.Contains(t, out, "Error: Please fill in both the study program and the topic of interest first.")
	assert.Empty(t, prompts.all())
}

func TestProblemsCommand_ProxyFailure(t *testing.T) {
	srv, prompts := newProxy(t)

	out, err := executeWizard(t, srv.URL, "", "problems", "--title", "Title A")
	require.Error(t, err)

	assert.Contains(t, out, "Error: Failed to contact the AI: boom.")
	assert.Len(t, prompts.all(), 1)
}

func TestOutlineCommand_RequiresProblems(t *testing.T) {
	srv, prompts := newProxy(t)

	out, err := executeWizard(t, srv.URL, "", "outline", "--title", "Title A", "--problems", "")
	require.Error(t, err)

	assert.Contains(t, out, "Error: Please generate the problem statements first.")
	assert.Empty(t, prompts.all())
}

func TestRunCommand_Interactive(t *testing.T) {
	srv, prompts := newProxy(t,
		"1. Title A\n2. Title B",
		"1. How accurate is the model?",
	)

	stdin := "Informatics\nAI\n2\nn\n"
	out, err := executeWizard(t, srv.URL, stdin, "run")
	require.NoError(t, err)

	assert.Contains(t, out, "Choose one of the title ideas:")
	assert.Contains(t, out, "1. How accurate is the model?")
	require.Len(t, prompts.all(), 2)
	assert.Contains(t, prompts.all()[1], "Title B")
}

func TestRunCommand_EndOfInput(t *testing.T) {
	srv, prompts := newProxy(t)

	_, err := executeWizard(t, srv.URL, "", "run")
	require.NoError(t, err)
	assert.Empty(t, prompts.all())
}
