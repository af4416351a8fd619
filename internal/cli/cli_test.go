package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestSetupAndHistory(t *testing.T) {
	dir := t.TempDir()
	histPath := filepath.Join(dir, "history.jsonl")
	cfgPath := writeConfig(t, dir, "history:\n  enabled: true\n  path: "+histPath+"\n")

	app, err := Setup(cfgPath, os.Stderr)
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.History)
	assert.Nil(t, app.Engine.Guard)

	sh := app.Shell()
	var out, errs bytes.Buffer
	sh.Stdout, sh.Stderr = &out, &errs
	sh.RunLine(context.Background(), "pwd")

	var w bytes.Buffer
	assert.Equal(t, 0, RunHistoryVerify(&w, histPath))
	assert.Contains(t, w.String(), "integrity verified")

	w.Reset()
	assert.Equal(t, 0, RunHistoryShow(&w, histPath, 10, false))
	assert.Contains(t, w.String(), "pwd")
	assert.Contains(t, w.String(), "[0]")

	w.Reset()
	assert.Equal(t, 0, RunHistoryShow(&w, histPath, 10, true))
	assert.Contains(t, w.String(), `"line": "pwd"`)
}

func TestSetupGuard(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "history:\n  enabled: false\nguard:\n  enabled: true\n  reject: [shutdown]\n")

	app, err := Setup(cfgPath, os.Stderr)
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.Engine.Guard)
	assert.Error(t, app.Engine.Guard([]string{"shutdown"}))
	assert.NoError(t, app.Engine.Guard([]string{"ls"}))
	assert.Nil(t, app.History)
}

func TestSetupBadGuardScript(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "guard:\n  enabled: true\n  script: "+filepath.Join(dir, "absent.star")+"\n")

	_, err := Setup(cfgPath, os.Stderr)
	assert.ErrorContains(t, err, "guard")
}

func TestRunHistoryVerifyMissingLog(t *testing.T) {
	var w bytes.Buffer
	RunHistoryVerify(&w, filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.NotEmpty(t, w.String())
}

func TestRunBuiltins(t *testing.T) {
	app, err := Setup(writeConfig(t, t.TempDir(), "history:\n  enabled: false\n"), os.Stderr)
	require.NoError(t, err)
	defer app.Close()

	var w bytes.Buffer
	assert.Equal(t, 0, RunBuiltins(app.Builtins, &w))
	lines := strings.Split(strings.TrimSpace(w.String()), "\n")
	require.Len(t, lines, 4)
	for i, name := range []string{"cd", "exit", "pwd", "sls"} {
		assert.True(t, strings.HasPrefix(lines[i], name), lines[i])
	}
}

func TestUsageMentionsOperators(t *testing.T) {
	u := Usage()
	for _, op := range []string{"|&", ">&", "4 commands"} {
		assert.Contains(t, u, op)
	}
}

func TestRunHistoryShowCounts(t *testing.T) {
	dir := t.TempDir()
	histPath := filepath.Join(dir, "history.jsonl")
	app, err := Setup(writeConfig(t, dir, "history:\n  enabled: true\n  path: "+histPath+"\n"), os.Stderr)
	require.NoError(t, err)
	defer app.Close()
	require.NoError(t, app.History.Log("pwd", []int{0}, true, 0, dir))

	var w bytes.Buffer
	assert.Equal(t, 1, RunHistoryShow(&w, histPath, -1, false))
	assert.Contains(t, w.String(), "invalid entry count")

	w.Reset()
	assert.Equal(t, 0, RunHistoryShow(&w, histPath, 0, false))
	assert.Equal(t, "no history entries\n", w.String())
}
