package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/undo-tic-tac-toe/internal/config"
	"github.com/jaminalder/undo-tic-tac-toe/internal/logging"
)

func TestPlayCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"play", "--plain", "-c", filepath.Join(t.TempDir(), "none.yaml")})
	cmd.SetIn(strings.NewReader("4\nu\nq\n"))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), " 3 | X | 5 ")
	assert.Contains(t, out.String(), "Bye!")
	assert.NotContains(t, out.String(), "\x1b[", "plain output has no escape codes")
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history_limit: -3\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"play", "-c", path})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestBadLogLevelFails(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"play", "--log-level", "loud", "-c", filepath.Join(t.TempDir(), "none.yaml")})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "unknown log level")
}

func TestHandlerWiring(t *testing.T) {
	opts := &rootOptions{cfg: config.Default(), log: logging.NewNop()}
	h := newHandler(opts)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/game", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tictactoe_sessions 1")
}
