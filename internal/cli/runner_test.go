package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/session"
	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/ui"
)

type harness struct {
	sess     *session.Session
	out, err bytes.Buffer
	r        *Runner
}

func newHarness(opt Options) *harness {
	ui.SetTheme("mono")
	h := &harness{sess: session.New(store.New(), model.FilterAll, nil)}
	h.r = NewRunner(h.sess, &h.out, &h.err, opt)
	return h
}

func (h *harness) texts() []string {
	var out []string
	for _, it := range h.sess.Store().Items() {
		out = append(out, it.Text)
	}
	return out
}

func TestExecAdd(t *testing.T) {
	h := newHarness(Options{})

	assert.Equal(t, 0, h.r.Exec([]string{"add", "Buy", "milk"}))
	assert.Equal(t, 0, h.r.Exec([]string{"add", `"Walk`, `the`, `dog"`}))

	assert.Equal(t, []string{"Buy milk", "Walk the dog"}, h.texts())
	assert.Contains(t, h.out.String(), "added")
	assert.Equal(t, session.Closed, h.sess.Mode())
}

func TestExecAddEmpty(t *testing.T) {
	h := newHarness(Options{})

	assert.Equal(t, 2, h.r.Exec([]string{"add"}))
	assert.Equal(t, 2, h.r.Exec([]string{"add", `""`}))

	assert.Empty(t, h.texts())
	assert.Contains(t, h.err.String(), store.EmptyTextMessage)
	assert.Equal(t, session.Closed, h.sess.Mode())
}

func TestExecEditToggleRemove(t *testing.T) {
	h := newHarness(Options{})
	h.r.Exec([]string{"add", "A"})
	h.r.Exec([]string{"add", "B"})
	h.r.Exec([]string{"add", "C"})

	require.Equal(t, 0, h.r.Exec([]string{"edit", "2", "Bee"}))
	require.Equal(t, 0, h.r.Exec([]string{"toggle", "3"}))
	require.Equal(t, 0, h.r.Exec([]string{"rm", "1"}))

	assert.Equal(t, []string{"Bee", "C"}, h.texts())
	items := h.sess.Store().Items()
	assert.False(t, items[0].Checked)
	assert.True(t, items[1].Checked)
	assert.Equal(t, session.Closed, h.sess.Mode())
}

func TestExecEditEmptyKeepsText(t *testing.T) {
	h := newHarness(Options{})
	h.r.Exec([]string{"add", "A"})

	assert.Equal(t, 2, h.r.Exec([]string{"edit", "1", `""`}))

	assert.Equal(t, []string{"A"}, h.texts())
	assert.Equal(t, session.Closed, h.sess.Mode())
}

func TestExecBadIndex(t *testing.T) {
	h := newHarness(Options{})
	h.r.Exec([]string{"add", "A"})

	assert.Equal(t, 2, h.r.Exec([]string{"toggle", "2"}))
	assert.Contains(t, h.err.String(), "index out of range: have 1, got 2")
	assert.Equal(t, 2, h.r.Exec([]string{"rm", "0"}))
	assert.Equal(t, 2, h.r.Exec([]string{"rm", "x"}))
	assert.Contains(t, h.err.String(), "not a number")
	assert.Equal(t, []string{"A"}, h.texts())
}

func TestExecUnknown(t *testing.T) {
	h := newHarness(Options{})
	assert.Equal(t, 2, h.r.Exec([]string{"frobnicate"}))
	assert.Contains(t, h.err.String(), "unknown command")
}

func TestListPanel(t *testing.T) {
	h := newHarness(Options{})
	require.Equal(t, 0, h.r.Exec([]string{"ls"}))
	assert.Contains(t, h.out.String(), ui.EmptyPlaceholder)

	h.out.Reset()
	h.r.Exec([]string{"add", "A"})
	h.r.Exec([]string{"add", "B"})
	h.r.Exec([]string{"toggle", "1"})
	h.out.Reset()

	require.Equal(t, 0, h.r.Exec([]string{"ls", "incomplete"}))
	out := h.out.String()
	assert.Contains(t, out, "[incomplete]")
	assert.Contains(t, out, " 2. [ ] B")
	assert.NotContains(t, out, "] A")
	assert.Equal(t, model.FilterIncomplete, h.sess.Filter())
}

func TestListGrouped(t *testing.T) {
	h := newHarness(Options{Group: true})
	h.r.Exec([]string{"add", "A"})
	h.r.Exec([]string{"add", "B"})
	h.r.Exec([]string{"toggle", "2"})
	h.out.Reset()

	require.Equal(t, 0, h.r.Exec([]string{"ls"}))
	out := h.out.String()
	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	require.True(t, pending >= 0 && done > pending)
	assert.Contains(t, out[pending:done], "A")
	assert.Contains(t, out[done:], "B")
}

func TestListJSON(t *testing.T) {
	h := newHarness(Options{JSON: true})
	h.r.Exec([]string{"add", "A"})
	h.r.Exec([]string{"add", "B"})
	h.r.Exec([]string{"toggle", "1"})
	h.out.Reset()

	require.Equal(t, 0, h.r.Exec([]string{"ls", "complete"}))

	var got []model.Item
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Text)
	assert.True(t, got[0].Checked)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEmpty(t, got[0].CreatedDate)
}

func TestListBadFilter(t *testing.T) {
	h := newHarness(Options{})
	assert.Equal(t, 2, h.r.Exec([]string{"ls", "archived"}))
	assert.Equal(t, 2, h.r.Exec([]string{"filter"}))
}

func TestRunScript(t *testing.T) {
	h := newHarness(Options{})
	script := `
# groceries
add Buy milk
add Walk the dog
toggle 1

edit 2 Walk the cat
`
	assert.Equal(t, 0, h.r.RunScript(strings.NewReader(script)))
	assert.Equal(t, []string{"Buy milk", "Walk the cat"}, h.texts())
}

func TestRunScriptContinuesAfterFailure(t *testing.T) {
	h := newHarness(Options{})
	script := "add A\ntoggle 9\nadd B\n"

	assert.Equal(t, 1, h.r.RunScript(strings.NewReader(script)))
	assert.Equal(t, []string{"A", "B"}, h.texts())
	assert.Contains(t, h.err.String(), "line 2: toggle 9")
}

func TestRunScriptStrict(t *testing.T) {
	h := newHarness(Options{Strict: true})
	script := "add A\ntoggle 9\nadd B\n"

	assert.Equal(t, 1, h.r.RunScript(strings.NewReader(script)))
	assert.Equal(t, []string{"A"}, h.texts())
}

func TestJoinText(t *testing.T) {
	assert.Equal(t, "Buy milk", joinText([]string{"Buy", "milk"}))
	assert.Equal(t, "Buy milk", joinText([]string{`"Buy`, `milk"`}))
	assert.Equal(t, `say "hi"`, joinText([]string{`"say`, `\"hi\""`}))
	assert.Equal(t, "", joinText([]string{`""`}))
}
