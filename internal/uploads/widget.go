// Package uploads manages document attachments for one parent record. In
// bound mode (the parent exists) selected files upload immediately; in
// deferred mode they queue locally until the parent is created and
// AttachQueued runs with the freshly minted id.
package uploads

import (
	"context"
	"errors"
	"sync"

	"tripdesk.io/internal/agency"
	"tripdesk.io/internal/gateway"
)

var (
	// ErrSingleFileOnly rejects multi-file drops on a single-file widget
	// instead of silently uploading only one.
	ErrSingleFileOnly = errors.New("uploads: widget accepts a single file")
	// ErrNothingQueued reports an AttachQueued call with an empty queue.
	ErrNothingQueued = errors.New("uploads: no files queued")
	// ErrNotBound reports a refresh on a widget with no parent yet.
	ErrNotBound = errors.New("uploads: widget is not bound to a record")
)

// Uploader is the slice of the gateway the widget needs.
type Uploader interface {
	UploadSingle(ctx context.Context, file gateway.UploadFile, category, linkedModel, linkedID string) (agency.Document, error)
	UploadMultiple(ctx context.Context, files []gateway.UploadFile, category, linkedModel, linkedID string) ([]agency.Document, error)
	ListAttachments(ctx context.Context, model, id string) ([]agency.Document, error)
	DeleteAttachment(ctx context.Context, id string) error
}

// Widget owns the queued-files list until the parent record is persisted;
// after that the uploaded documents belong to the parent page's collection.
type Widget struct {
	mu       sync.Mutex
	uploader Uploader

	category    string
	linkedModel string
	linkedID    string
	single      bool

	queue []gateway.UploadFile
	docs  []agency.Document
}

// WidgetOption configures a Widget.
type WidgetOption func(*Widget)

// BoundTo binds the widget to an existing parent record id.
func BoundTo(id string) WidgetOption {
	return func(w *Widget) { w.linkedID = id }
}

// SingleFile restricts the widget to one file.
func SingleFile() WidgetOption {
	return func(w *Widget) { w.single = true }
}

// NewWidget creates a widget for a `(category, linkedModel)` pair. Without
// BoundTo it starts in deferred mode.
func NewWidget(uploader Uploader, category, linkedModel string, opts ...WidgetOption) *Widget {
	w := &Widget{uploader: uploader, category: category, linkedModel: linkedModel}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Bound reports whether the parent record exists.
func (w *Widget) Bound() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.linkedID != ""
}

// Add takes selected or dropped files. Bound mode uploads immediately and
// appends the returned documents; deferred mode only queues, with no
// network call.
func (w *Widget) Add(ctx context.Context, files ...gateway.UploadFile) error {
	if len(files) == 0 {
		return nil
	}
	w.mu.Lock()
	if w.single && len(files)+len(w.queue)+len(w.docs) > 1 {
		w.mu.Unlock()
		return ErrSingleFileOnly
	}
	if w.linkedID == "" {
		w.queue = append(w.queue, files...)
		w.mu.Unlock()
		return nil
	}
	category, model, id := w.category, w.linkedModel, w.linkedID
	w.mu.Unlock()

	uploaded, err := w.uploadNow(ctx, files, category, model, id)
	if err != nil {
		// The displayed list stays untouched on failure.
		return err
	}
	w.mu.Lock()
	w.docs = append(w.docs, uploaded...)
	w.mu.Unlock()
	return nil
}

// AttachQueued binds the widget to the newly created parent and uploads the
// whole queue in one request. On failure the queue is kept so the user can
// retry from the edit view; the parent's creation has already succeeded and
// is not rolled back.
func (w *Widget) AttachQueued(ctx context.Context, parentID string) ([]agency.Document, error) {
	w.mu.Lock()
	w.linkedID = parentID
	if len(w.queue) == 0 {
		w.mu.Unlock()
		return nil, ErrNothingQueued
	}
	files := make([]gateway.UploadFile, len(w.queue))
	copy(files, w.queue)
	category, model := w.category, w.linkedModel
	w.mu.Unlock()

	uploaded, err := w.uploader.UploadMultiple(ctx, files, category, model, parentID)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.queue = nil
	w.docs = append(w.docs, uploaded...)
	w.mu.Unlock()
	return uploaded, nil
}

// Remove deletes an uploaded document after interactive confirmation and
// drops it from the displayed list.
func (w *Widget) Remove(ctx context.Context, id string, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}
	if err := w.uploader.DeleteAttachment(ctx, id); err != nil {
		return err
	}
	w.mu.Lock()
	kept := w.docs[:0]
	for _, doc := range w.docs {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	w.docs = kept
	w.mu.Unlock()
	return nil
}

// Refresh reloads the attachment list from the backend.
func (w *Widget) Refresh(ctx context.Context) error {
	w.mu.Lock()
	model, id := w.linkedModel, w.linkedID
	w.mu.Unlock()
	if id == "" {
		return ErrNotBound
	}
	docs, err := w.uploader.ListAttachments(ctx, model, id)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.docs = docs
	w.mu.Unlock()
	return nil
}

// Queued returns the number of files waiting for the parent to exist.
func (w *Widget) Queued() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Documents returns a copy of the displayed attachment list.
func (w *Widget) Documents() []agency.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]agency.Document, len(w.docs))
	copy(out, w.docs)
	return out
}

func (w *Widget) uploadNow(ctx context.Context, files []gateway.UploadFile, category, model, id string) ([]agency.Document, error) {
	if len(files) == 1 {
		doc, err := w.uploader.UploadSingle(ctx, files[0], category, model, id)
		if err != nil {
			return nil, err
		}
		return []agency.Document{doc}, nil
	}
	return w.uploader.UploadMultiple(ctx, files, category, model, id)
}
