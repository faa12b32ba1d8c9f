package secrets

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/rbwchain/internal/domain"
	"github.com/bnema/rbwchain/pkg/logger"
)

func testLogger() *log.Logger {
	return logger.Discard().Logger
}

// fakeTool writes an executable shell script named name into a fresh
// directory and puts that directory first on PATH.
func fakeTool(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o700))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return path
}

func TestRbwProvider_Fetch_Success(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	fakeTool(t, "rbw", `echo "$@" > `+argsFile+`
printf 'FOO=bar\nBAZ=qux\n'`)

	p := NewRbwProvider(testLogger())
	note, err := p.Fetch(context.Background(), "my note")
	require.NoError(t, err)

	assert.Equal(t, "my note", note.ID)
	assert.Equal(t, "FOO=bar\nBAZ=qux", note.Content)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "get my note\n", string(args))
}

func TestRbwProvider_Fetch_TrimsSingleTrailingNewline(t *testing.T) {
	fakeTool(t, "rbw", `printf 'line1\n\nline2\n\n'`)

	note, err := NewRbwProvider(testLogger()).Fetch(context.Background(), "n")
	require.NoError(t, err)
	assert.Equal(t, "line1\n\nline2\n", note.Content)
}

func TestRbwProvider_Fetch_CustomToolAndArgs(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	fakeTool(t, "vault-cli", `echo "$@" > `+argsFile+`
printf 'secret'`)

	p := NewRbwProvider(testLogger(), WithTool("vault-cli"), WithArgs("get", "--full"))
	assert.Equal(t, "vault-cli", p.Tool())

	note, err := p.Fetch(context.Background(), "db")
	require.NoError(t, err)
	assert.Equal(t, "secret", note.Content)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "get --full db\n", string(args))
}

func TestRbwProvider_Fetch_ToolFailure(t *testing.T) {
	fakeTool(t, "rbw", `echo "rbw get: couldn't find entry" >&2
exit 3`)

	_, err := NewRbwProvider(testLogger()).Fetch(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolFailed)

	var toolErr *domain.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, 3, toolErr.ExitCode)
	assert.Equal(t, "rbw get: couldn't find entry", toolErr.Stderr)
	assert.Equal(t, "rbw get missing", toolErr.Command)
}

func TestRbwProvider_Fetch_ToolNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := NewRbwProvider(testLogger()).Fetch(context.Background(), "db")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
	assert.NotErrorIs(t, err, domain.ErrToolFailed)
}

func TestRbwProvider_Fetch_ToolNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root bypasses execute permission checks")
	}

	path := filepath.Join(t.TempDir(), "rbw")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o600))

	_, err := NewRbwProvider(testLogger(), WithTool(path)).Fetch(context.Background(), "db")
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestRbwProvider_Fetch_InvalidUTF8(t *testing.T) {
	fakeTool(t, "rbw", `printf '\377\376'`)

	_, err := NewRbwProvider(testLogger()).Fetch(context.Background(), "bin")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolFailed)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestRbwProvider_Fetch_EmptyNoteID(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "called")
	fakeTool(t, "rbw", `touch `+marker)

	_, err := NewRbwProvider(testLogger()).Fetch(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrEmptyNoteID)
	assert.NoFileExists(t, marker)
}

func TestRbwProvider_Fetch_Timeout(t *testing.T) {
	fakeTool(t, "rbw", `exec sleep 5`)

	start := time.Now()
	_, err := NewRbwProvider(testLogger(), WithTimeout(100*time.Millisecond)).Fetch(context.Background(), "slow")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestRbwProvider_Fetch_DoesNotLogContent(t *testing.T) {
	fakeTool(t, "rbw", `printf 'PASSWORD=hunter2'`)

	var buf strings.Builder
	l := logger.New(&buf, logger.Options{Debug: true})

	_, err := NewRbwProvider(l.Logger).Fetch(context.Background(), "db")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fetched")
	assert.NotContains(t, buf.String(), "hunter2")
}
