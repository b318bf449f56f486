// Package store holds the session's todo items in memory.
//
// A Store is owned by a single goroutine (the UI event loop or the script
// runner) and does no locking. Nothing is ever written to disk.
package store

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/idilsaglam/todolist/internal/model"
)

// EmptyTextMessage is shown when add or edit gets blank text.
const EmptyTextMessage = "Please enter a todo item"

const maxIDAttempts = 3

var validate = validator.New()

// Store is the ordered, in-memory todo list plus the item currently being edited.
type Store struct {
	items      []model.Item
	editTarget string

	locale Locale
	now    func() time.Time
	newID  func() string
	log    *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLocale sets how creation stamps are formatted.
func WithLocale(l Locale) Option { return func(s *Store) { s.locale = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDs replaces the UUID generator.
func WithIDs(gen func() string) Option { return func(s *Store) { s.newID = gen } }

// WithLogger sets the debug logger for mutations.
func WithLogger(l *log.Logger) Option { return func(s *Store) { s.log = l } }

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		locale: DefaultLocale(),
		now:    time.Now,
		newID:  uuid.NewString,
		log:    log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Locale returns the locale used for creation stamps.
func (s *Store) Locale() Locale { return s.locale }

// Add appends a new unchecked item. Blank text yields a *ValidationError and
// leaves the list untouched.
func (s *Store) Add(text string) (model.Item, error) {
	text, err := validateText(text)
	if err != nil {
		return model.Item{}, err
	}
	id, err := s.freshID()
	if err != nil {
		return model.Item{}, err
	}
	date, clock := s.locale.Format(s.now())
	it := model.Item{
		ID:          id,
		Text:        text,
		CreatedDate: date,
		CreatedTime: clock,
	}
	s.items = append(s.items, it)
	s.log.Debug("todo added", "id", id, "count", len(s.items))
	return it, nil
}

// Edit replaces the text of item id. Every other field is kept.
func (s *Store) Edit(id, newText string) error {
	text, err := validateText(newText)
	if err != nil {
		return err
	}
	i := s.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("edit %s: %w", id, ErrNotFound)
	}
	s.items[i].Text = text
	s.log.Debug("todo edited", "id", id)
	return nil
}

// Toggle flips the completion flag of item id.
func (s *Store) Toggle(id string) error {
	i := s.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("toggle %s: %w", id, ErrNotFound)
	}
	s.items[i].Checked = !s.items[i].Checked
	s.log.Debug("todo toggled", "id", id, "checked", s.items[i].Checked)
	return nil
}

// Delete removes item id and keeps the order of the rest. The edit target is
// left alone; whoever opened the edit form decides what to do with it.
func (s *Store) Delete(id string) error {
	i := s.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.log.Debug("todo deleted", "id", id, "count", len(s.items))
	return nil
}

// FilteredView returns a fresh slice of the items matching f, in stored order.
func (s *Store) FilteredView(f model.Filter) []model.Item {
	out := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Items returns a copy of every item in stored order.
func (s *Store) Items() []model.Item { return s.FilteredView(model.FilterAll) }

// Len is the number of items.
func (s *Store) Len() int { return len(s.items) }

// Get returns a copy of item id.
func (s *Store) Get(id string) (model.Item, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i], true
}

// IndexOf returns the position of id in stored order, or -1.
func (s *Store) IndexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Stats counts checked and unchecked items.
func (s *Store) Stats() (done, pending int) {
	for _, it := range s.items {
		if it.Checked {
			done++
		} else {
			pending++
		}
	}
	return
}

// SetEditTarget marks id as the item being edited. It must exist right now.
func (s *Store) SetEditTarget(id string) error {
	if s.IndexOf(id) < 0 {
		return fmt.Errorf("edit target %s: %w", id, ErrNotFound)
	}
	s.editTarget = id
	return nil
}

// ClearEditTarget drops the edit target, if any.
func (s *Store) ClearEditTarget() { s.editTarget = "" }

// EditTarget returns the id being edited. The id may have been deleted since
// it was set.
func (s *Store) EditTarget() (string, bool) {
	return s.editTarget, s.editTarget != ""
}

func (s *Store) freshID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.IndexOf(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate id: no unique id after %d attempts", maxIDAttempts)
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := validate.Var(text, "required"); err != nil {
		return "", &ValidationError{Field: "text", Message: EmptyTextMessage}
	}
	return text, nil
}
