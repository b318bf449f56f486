package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/model"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// Equivalent of t.Chdir (Go 1.24+) for older toolchains.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PWD", dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	for _, k := range []string{"LC_ALL", "LC_TIME", "LANG", "TODO_LOCALE", "TODO_THEME", "TODO_FILTER", "TODO_LOG_FILE", "TODO_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func execRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execRoot(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "todo dev\n", out)
}

func TestRunFromStdinJSON(t *testing.T) {
	isolate(t)
	script := "add Buy milk\nadd B\ntoggle 2\nls\n"

	out, _, err := execRoot(t, script, "run", "--json", "--theme", "mono")
	require.NoError(t, err)

	start := strings.Index(out, "[")
	require.GreaterOrEqual(t, start, 0)
	var items []model.Item
	require.NoError(t, json.Unmarshal([]byte(out[start:]), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Buy milk", items[0].Text)
	assert.True(t, items[1].Checked)
}

func TestRunFromFileWithLocaleAndFilter(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "plan.txt")
	require.NoError(t, os.WriteFile(p, []byte("add A\nadd B\ntoggle 1\nls\n"), 0o644))

	out, _, err := execRoot(t, "", "run", "--json", "--locale", "de-DE", "--filter", "complete", p)
	require.NoError(t, err)

	var items []model.Item
	require.NoError(t, json.Unmarshal([]byte(out[strings.Index(out, "["):]), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Text)
	assert.Contains(t, items[0].CreatedDate, ".")
}

func TestRunFailureExitCode(t *testing.T) {
	isolate(t)
	_, errOut, err := execRoot(t, "toggle 3\n", "run")
	require.Error(t, err)
	var code exitCode
	require.ErrorAs(t, err, &code)
	assert.Equal(t, exitCode(1), code)
	assert.Contains(t, errOut, "index out of range")
}

func TestInvalidFlagValue(t *testing.T) {
	isolate(t)
	_, _, err := execRoot(t, "", "run", "--theme", "sparkly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sparkly")
}

func TestConfigFileAndLogFile(t *testing.T) {
	dir := isolate(t)
	logPath := filepath.Join(dir, "todo.log")
	cfgPath := filepath.Join(dir, "todo.toml")
	body := "theme = \"mono\"\nlog_level = \"debug\"\nlog_format = \"logfmt\"\nlog_file = \"" + filepath.ToSlash(logPath) + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	_, _, err := execRoot(t, "add A\n", "run")
	require.NoError(t, err)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "todo added")
}

func TestExecuteExitCodes(t *testing.T) {
	isolate(t)
	assert.Equal(t, 0, Execute([]string{"version"}))
	assert.Equal(t, 1, Execute([]string{"run", filepath.Join(t.TempDir(), "missing.txt")}))
	assert.Equal(t, 1, Execute([]string{"nosuchcommand"}))
}
