// Package session owns the state a todo screen renders from: the store, the
// add/edit form and the selected filter.
package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
)

// ErrNoForm is returned by Submit when neither form is open.
var ErrNoForm = errors.New("no form open")

// Mode is the state of the add/edit form.
type Mode int

const (
	Closed Mode = iota
	AddOpen
	EditOpen
)

func (m Mode) String() string {
	switch m {
	case AddOpen:
		return "add"
	case EditOpen:
		return "edit"
	default:
		return "closed"
	}
}

// Session is the single controller the presentation layer talks to. Callers
// read Mode, EditTarget and View after every call.
type Session struct {
	store   *store.Store
	mode    Mode
	filter  model.Filter
	invalid string
	log     *log.Logger
}

// New wraps st. A nil logger discards.
func New(st *store.Store, filter model.Filter, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{store: st, filter: filter, log: logger}
}

// Store exposes the underlying store for read-only rendering helpers.
func (s *Session) Store() *store.Store { return s.store }

// Mode returns the form state.
func (s *Session) Mode() Mode { return s.mode }

// EditTarget returns the id being edited while the edit form is open.
func (s *Session) EditTarget() (string, bool) {
	if s.mode != EditOpen {
		return "", false
	}
	return s.store.EditTarget()
}

// Invalid is the validation message from the last rejected submit, if any.
func (s *Session) Invalid() string { return s.invalid }

// OpenAdd shows the add form, replacing an open edit form.
func (s *Session) OpenAdd() {
	s.store.ClearEditTarget()
	s.invalid = ""
	s.mode = AddOpen
	s.log.Debug("form opened", "mode", s.mode)
}

// OpenEdit shows the edit form for id, replacing any open form. A missing id
// leaves the session unchanged.
func (s *Session) OpenEdit(id string) error {
	if err := s.store.SetEditTarget(id); err != nil {
		return err
	}
	s.invalid = ""
	s.mode = EditOpen
	s.log.Debug("form opened", "mode", s.mode, "id", id)
	return nil
}

// Close cancels whichever form is open.
func (s *Session) Close() {
	s.store.ClearEditTarget()
	s.invalid = ""
	s.mode = Closed
}

// Submit sends text to the open form. Success closes the form; a validation
// error keeps it open with Invalid set; an edit whose target vanished closes
// the form and reports store.ErrNotFound.
func (s *Session) Submit(text string) (model.Item, error) {
	switch s.mode {
	case AddOpen:
		it, err := s.store.Add(text)
		if err != nil {
			return model.Item{}, s.reject(err)
		}
		s.Close()
		return it, nil

	case EditOpen:
		id, ok := s.store.EditTarget()
		if !ok {
			s.Close()
			return model.Item{}, fmt.Errorf("submit edit: %w", store.ErrNotFound)
		}
		if err := s.store.Edit(id, text); err != nil {
			if store.IsValidation(err) {
				return model.Item{}, s.reject(err)
			}
			s.log.Debug("edit target gone", "id", id)
			s.Close()
			return model.Item{}, err
		}
		it, _ := s.store.Get(id)
		s.Close()
		return it, nil
	}
	return model.Item{}, ErrNoForm
}

func (s *Session) reject(err error) error {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		s.invalid = ve.Message
	}
	return err
}

// Toggle flips the completion flag of id.
func (s *Session) Toggle(id string) error { return s.store.Toggle(id) }

// Delete removes id. Deleting the item under edit closes the edit form.
func (s *Session) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	if target, ok := s.EditTarget(); ok && target == id {
		s.Close()
	}
	return nil
}

// Filter returns the selected criterion.
func (s *Session) Filter() model.Filter { return s.filter }

// SetFilter selects f.
func (s *Session) SetFilter(f model.Filter) {
	s.filter = f
	s.log.Debug("filter changed", "filter", f)
}

// CycleFilter moves to the next criterion and returns it.
func (s *Session) CycleFilter() model.Filter {
	s.SetFilter(s.filter.Next())
	return s.filter
}

// View is the list under the selected filter.
func (s *Session) View() []model.Item { return s.store.FilteredView(s.filter) }
