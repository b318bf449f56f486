package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/session"
	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Options tune output behavior of a script run.
type Options struct {
	Group  bool // list grouped by pending/done
	JSON   bool // ls prints JSON instead of a panel
	Strict bool // stop at the first failing line
}

// Runner executes script commands against one session. Exit codes follow
// the usual convention: 0 ok, 1 error, 2 usage.
type Runner struct {
	sess   *session.Session
	out    io.Writer
	errOut io.Writer
	opt    Options
}

func NewRunner(sess *session.Session, out, errOut io.Writer, opt Options) *Runner {
	return &Runner{sess: sess, out: out, errOut: errOut, opt: opt}
}

// RunScript executes one command per line. Blank lines and # comments are
// skipped. Without Strict every line runs and 1 is returned if any failed.
func (r *Runner) RunScript(rd io.Reader) int {
	sc := bufio.NewScanner(rd)
	failed := false
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if code := r.Exec(strings.Fields(line)); code != 0 {
			ui.Hint(r.errOut, fmt.Sprintf("line %d: %s", n, line))
			if r.opt.Strict {
				return 1
			}
			failed = true
		}
	}
	if err := sc.Err(); err != nil {
		ui.Fail(r.errOut, "read script: "+err.Error())
		return 1
	}
	if failed {
		return 1
	}
	return 0
}

// Exec dispatches a single command.
func (r *Runner) Exec(args []string) int {
	if len(args) == 0 {
		return 0
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help":
		PrintScriptHelp(r.out)
		return 0

	case "ls":
		if len(a) > 1 {
			ui.Fail(r.errOut, "usage: ls [all|complete|incomplete]")
			return 2
		}
		if len(a) == 1 {
			if code := r.doFilter(a[0]); code != 0 {
				return code
			}
		}
		return r.doList()

	case "filter":
		if len(a) != 1 {
			ui.Fail(r.errOut, "usage: filter <all|complete|incomplete>")
			return 2
		}
		return r.doFilter(a[0])

	case "add":
		if len(a) == 0 {
			ui.Fail(r.errOut, "usage: add <text...>")
			return 2
		}
		return r.doAdd(joinText(a))

	case "edit":
		if len(a) < 2 {
			ui.Fail(r.errOut, "usage: edit <index> <text...>")
			return 2
		}
		n, ok := r.parseIndex("edit", a[0])
		if !ok {
			return 2
		}
		return r.doEdit(n, joinText(a[1:]))

	case "toggle", "done":
		if len(a) != 1 {
			ui.Fail(r.errOut, "usage: toggle <index>")
			return 2
		}
		n, ok := r.parseIndex(cmd, a[0])
		if !ok {
			return 2
		}
		return r.doToggle(n)

	case "rm", "delete":
		if len(a) != 1 {
			ui.Fail(r.errOut, "usage: rm <index>")
			return 2
		}
		n, ok := r.parseIndex(cmd, a[0])
		if !ok {
			return 2
		}
		return r.doRemove(n)
	}

	ui.Fail(r.errOut, "unknown command: "+cmd)
	return 2
}

func PrintScriptHelp(w io.Writer) {
	fmt.Fprint(w, `Script commands (one per line, # starts a comment):
  add <text...>          Add a new item
  edit <index> <text...> Replace the text of the item at 1-based index
  toggle <index>         Toggle complete for the item at 1-based index
  rm <index>             Remove the item at 1-based index
  filter <criterion>     Select all, complete or incomplete
  ls [criterion]         Print the list under the selected filter

Example:
  add Buy milk
  add Walk the dog
  toggle 1
  ls incomplete
`)
}

// -------------- command impls ----------------

func (r *Runner) doAdd(text string) int {
	r.sess.OpenAdd()
	if _, err := r.sess.Submit(text); err != nil {
		r.sess.Close()
		ui.Fail(r.errOut, "add: "+describe(err))
		return 2
	}
	ui.OK(r.out, "added")
	return 0
}

func (r *Runner) doEdit(userIndex int, text string) int {
	it, ok := r.itemAt(userIndex)
	if !ok {
		return 2
	}
	if err := r.sess.OpenEdit(it.ID); err != nil {
		ui.Fail(r.errOut, "edit: "+describe(err))
		return 1
	}
	if _, err := r.sess.Submit(text); err != nil {
		r.sess.Close()
		ui.Fail(r.errOut, "edit: "+describe(err))
		return 2
	}
	ui.OK(r.out, "edited")
	return 0
}

func (r *Runner) doToggle(userIndex int) int {
	it, ok := r.itemAt(userIndex)
	if !ok {
		return 2
	}
	if err := r.sess.Toggle(it.ID); err != nil {
		ui.Fail(r.errOut, "toggle: "+describe(err))
		return 1
	}
	ui.OK(r.out, "toggled")
	return 0
}

func (r *Runner) doRemove(userIndex int) int {
	it, ok := r.itemAt(userIndex)
	if !ok {
		return 2
	}
	if err := r.sess.Delete(it.ID); err != nil {
		ui.Fail(r.errOut, "rm: "+describe(err))
		return 1
	}
	ui.OK(r.out, "removed")
	return 0
}

func (r *Runner) doFilter(name string) int {
	f, err := model.ParseFilter(name)
	if err != nil {
		ui.Fail(r.errOut, err.Error())
		return 2
	}
	r.sess.SetFilter(f)
	return 0
}

func (r *Runner) doList() int {
	view := r.sess.View()
	if r.opt.JSON {
		b, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			ui.Fail(r.errOut, "json marshal: "+err.Error())
			return 1
		}
		fmt.Fprintln(r.out, string(b))
		return 0
	}

	t := ui.Current()
	st := r.sess.Store()
	d, p := st.Stats()

	var lines []string
	lines = append(lines, ui.Header(d, p)+"  "+t.Muted.Render("["+r.sess.Filter().String()+"]"))
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	switch {
	case st.Len() == 0:
		lines = append(lines, t.Muted.Render(ui.EmptyPlaceholder))
	case r.opt.Group:
		lines = append(lines, r.groupLines(view)...)
	default:
		lines = append(lines, r.flatLines(view)...)
	}
	fmt.Fprintln(r.out, ui.Panel(lines))
	return 0
}

// -------------- helpers --------------

func (r *Runner) parseIndex(cmd, s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		ui.Fail(r.errOut, cmd+": not a number: "+s)
		return 0, false
	}
	return n, true
}

// itemAt resolves a 1-based index into stored order.
func (r *Runner) itemAt(userIndex int) (model.Item, bool) {
	items := r.sess.Store().Items()
	if userIndex < 1 || userIndex > len(items) {
		ui.Fail(r.errOut, fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		ui.Hint(r.errOut, "run `ls all` to see valid indexes")
		return model.Item{}, false
	}
	return items[userIndex-1], true
}

func describe(err error) string {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// joinText rebuilds the text from fields, dropping one pair of surrounding quotes.
func joinText(fields []string) string {
	s := strings.Join(fields, " ")
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}

func (r *Runner) flatLines(items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	st := r.sess.Store()
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := fmt.Sprintf("%2d.", st.IndexOf(it.ID)+1)
		text := it.Text
		if rs := []rune(text); len(rs) > 80 {
			text = string(rs[:77]) + "..."
		}
		box := t.Muted.Render(t.BoxUnchecked)
		if it.Checked {
			box = t.Success.Render(t.BoxChecked)
			text = t.Done.Render(text)
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			t.Muted.Render(idx), box, text,
			t.Muted.Render(fmt.Sprintf("(%s %s)", it.CreatedDate, it.CreatedTime))))
	}
	return out
}

func (r *Runner) groupLines(items []model.Item) []string {
	t := ui.Current()
	var pend, done []model.Item
	for _, it := range items {
		if it.Checked {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, r.flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, r.flatLines(done)...)
	}
	return lines
}
