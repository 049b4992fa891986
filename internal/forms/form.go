// Package forms collects create/edit input for a resource. Forms are flat
// mirrors of the backend's nested documents: opening for edit flattens the
// source record (tolerating legacy field names), submitting re-nests it.
// Validation here checks required presence only; business rules stay on the
// backend.
package forms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrMissingField reports a failed required-presence check. The message
// lists the offending fields; no network call is made.
var ErrMissingField = errors.New("forms: required field missing")

func requireAll(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
}

// Editor drives one create/edit dialog. It stays open and keeps the error
// visible while submission fails; it closes and triggers the parent's
// reload only on success.
type Editor struct {
	mu        sync.Mutex
	open      bool
	err       error
	submit    func(context.Context) error
	onSuccess func(context.Context) error
}

// NewEditor wires the submit action and the parent's reload callback.
func NewEditor(submit, onSuccess func(context.Context) error) *Editor {
	return &Editor{submit: submit, onSuccess: onSuccess}
}

// Open shows the dialog and clears any stale error.
func (e *Editor) Open() {
	e.mu.Lock()
	e.open = true
	e.err = nil
	e.mu.Unlock()
}

// Close dismisses the dialog without submitting.
func (e *Editor) Close() {
	e.mu.Lock()
	e.open = false
	e.err = nil
	e.mu.Unlock()
}

// IsOpen reports whether the dialog is showing.
func (e *Editor) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// Err returns the last submission error, shown inline in the dialog.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Submit runs the submit action. On failure the dialog stays open with the
// error displayed so the user can correct input; on success it closes and
// the parent's reload runs.
func (e *Editor) Submit(ctx context.Context) error {
	if err := e.submit(ctx); err != nil {
		e.mu.Lock()
		e.err = err
		e.mu.Unlock()
		return err
	}
	e.mu.Lock()
	e.open = false
	e.err = nil
	e.mu.Unlock()
	if e.onSuccess != nil {
		return e.onSuccess(ctx)
	}
	return nil
}
