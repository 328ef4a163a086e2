// Package forms holds the create/edit dialog drafts, their client-side
// validation and the submit flow shared by every dialog.
package forms

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

// Draft is the state a dialog edits.
type Draft interface {
	Validate(now time.Time) error
}

// SubmitFunc sends a validated draft to the API.
type SubmitFunc[D Draft] func(ctx context.Context, draft D) error

// DialogConfig wires a Dialog. Blank and Submit are required.
type DialogConfig[D Draft] struct {
	Name string
	// Blank returns the cleared draft used after a successful submit.
	Blank  func() D
	Submit SubmitFunc[D]
	// OnSuccess runs after the dialog closes, normally the owning view's Reload.
	OnSuccess func(ctx context.Context) error
	// FailureMessage is shown when the API call fails, e.g. "Error al crear la cita".
	FailureMessage string
	Clock          func() time.Time
	Logger         *logging.Logger
}

// Dialog runs validate, send, clear, close and reload. It stays open with
// the draft intact on any failure before the reload.
type Dialog[D Draft] struct {
	mu     sync.Mutex
	cfg    DialogConfig[D]
	open   bool
	draft  D
	logger *logging.Logger
}

func NewDialog[D Draft](cfg DialogConfig[D]) *Dialog[D] {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.FailureMessage == "" {
		cfg.FailureMessage = "Error al guardar"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dialog[D]{cfg: cfg, logger: logger}
	if cfg.Blank != nil {
		d.draft = cfg.Blank()
	}
	return d
}

// Open shows the dialog with draft.
func (d *Dialog[D]) Open(draft D) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.draft = draft
	d.open = true
}

func (d *Dialog[D]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

func (d *Dialog[D]) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Dialog[D]) Draft() D {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// Edit mutates the current draft in place.
func (d *Dialog[D]) Edit(fn func(*D)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.draft)
}

// Submit validates the draft and sends it. A *ValidationError means nothing
// was sent; a *SubmitError means the API rejected the call. Errors from
// OnSuccess are logged and not returned since the submit itself succeeded.
func (d *Dialog[D]) Submit(ctx context.Context) error {
	d.mu.Lock()
	draft := d.draft
	d.mu.Unlock()

	if err := draft.Validate(d.cfg.Clock()); err != nil {
		return err
	}
	if d.cfg.Submit == nil {
		return errors.New("forms: dialog has no submit function")
	}
	if err := d.cfg.Submit(ctx, draft); err != nil {
		d.logger.Error("dialog submit failed", "dialog", d.cfg.Name, "error", err)
		return &SubmitError{Message: d.cfg.FailureMessage, Err: err}
	}

	d.mu.Lock()
	if d.cfg.Blank != nil {
		d.draft = d.cfg.Blank()
	} else {
		var zero D
		d.draft = zero
	}
	d.open = false
	d.mu.Unlock()

	if d.cfg.OnSuccess != nil {
		if err := d.cfg.OnSuccess(ctx); err != nil {
			d.logger.Warn("reload after submit failed", "dialog", d.cfg.Name, "error", err)
		}
	}
	return nil
}
