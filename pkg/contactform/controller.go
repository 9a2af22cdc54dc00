package contactform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"portfolio-backend/pkg/validation"
)

// DefaultResetDelay is how long success/error stay on screen.
const DefaultResetDelay = 3 * time.Second

// NoField is the active field when nothing has focus.
const NoField validation.Field = -1

var (
	ErrSubmitInProgress = errors.New("contactform: submission already in progress")
	ErrInvalidForm      = errors.New("contactform: form has invalid fields")
	ErrClosed           = errors.New("contactform: controller closed")
)

// Status is the submission lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is the toast shown to the user.
type Notice struct {
	Kind        NoticeKind
	Title       string
	Description string
}

var (
	noticeSent = Notice{
		Kind:        NoticeSuccess,
		Title:       "Success!",
		Description: "Your message has been sent successfully. I'll get back to you soon!",
	}
	noticeFailed = Notice{
		Kind:        NoticeError,
		Title:       "Error",
		Description: "There was an error sending your message. Please try again later.",
	}
	noticeInvalid = Notice{
		Kind:        NoticeError,
		Title:       "Error",
		Description: "Please fill out all required fields.",
	}
)

// FieldSet holds one flag per form field.
type FieldSet [len(validation.Fields)]bool

// Transport delivers a submitted draft.
type Transport interface {
	Send(ctx context.Context, form validation.Form) error
}

// State is a snapshot of the controller, safe to keep.
type State struct {
	Draft   validation.Form
	Errors  validation.FieldErrors
	Touched FieldSet
	Active  validation.Field
	Status  Status
	Notice  Notice
}

// CanSubmit reports whether the submit action is enabled.
func (s State) CanSubmit() bool {
	return s.Status != StatusLoading
}

type Option func(*Controller)

// WithResetDelay sets how long success/error are displayed.
func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) { c.resetDelay = d }
}

// WithOnChange registers a callback invoked after every state change.
// It runs without the controller lock held.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller owns one contact form for its lifetime.
type Controller struct {
	transport  Transport
	resetDelay time.Duration
	onChange   func(State)

	mu      sync.Mutex
	draft   validation.Form
	errors  validation.FieldErrors
	touched FieldSet
	active  validation.Field
	status  Status
	notice  Notice
	timer   *time.Timer
	gen     uint64
	closed  bool
}

func New(transport Transport, opts ...Option) *Controller {
	c := &Controller{
		transport:  transport,
		resetDelay: DefaultResetDelay,
		errors:     validation.FieldErrors{},
		active:     NoField,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateField stores a keystroke. The field's error is cleared and only
// re-checked on blur.
func (c *Controller) UpdateField(field validation.Field, value string) {
	c.mu.Lock()
	c.draft = c.draft.Set(field, value)
	delete(c.errors, field)
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)
}

func (c *Controller) Focus(field validation.Field) {
	c.mu.Lock()
	c.active = field
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)
}

// Blur marks the field touched and validates it.
func (c *Controller) Blur(field validation.Field) {
	c.mu.Lock()
	if c.active == field {
		c.active = NoField
	}
	if field >= 0 && int(field) < len(c.touched) {
		c.touched[field] = true
	}
	if msg := validation.ValidateField(field, c.draft.Value(field)); msg != "" {
		c.errors[field] = msg
	} else {
		delete(c.errors, field)
	}
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)
}

// ValidateForm checks every field and marks all of them touched.
func (c *Controller) ValidateForm() bool {
	c.mu.Lock()
	ok := c.validateFormLocked()
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)
	return ok
}

func (c *Controller) validateFormLocked() bool {
	ok, errs := validation.ValidateForm(c.draft)
	c.errors = errs
	for i := range c.touched {
		c.touched[i] = true
	}
	return ok
}

// Submit validates the draft and sends it. It returns ErrSubmitInProgress
// while a previous submission is loading and ErrInvalidForm without any
// network call when a field is invalid.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.status == StatusLoading {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	if !c.validateFormLocked() {
		c.notice = noticeInvalid
		s := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(s)
		return ErrInvalidForm
	}

	c.stopTimerLocked()
	c.status = StatusLoading
	c.notice = Notice{}
	payload := c.draft
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)

	err := c.transport.Send(ctx, payload)

	c.mu.Lock()
	if err == nil {
		c.status = StatusSuccess
		c.notice = noticeSent
	} else {
		c.status = StatusError
		c.notice = noticeFailed
	}
	if !c.closed {
		c.scheduleResetLocked(err == nil)
	}
	s = c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)

	if err != nil && !errors.Is(err, ErrSubmissionFailed) {
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	return err
}

// scheduleResetLocked returns the status to idle after the display delay.
// On success the draft is cleared at the same time.
func (c *Controller) scheduleResetLocked(clearDraft bool) {
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(c.resetDelay, func() {
		c.mu.Lock()
		if c.closed || c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.status = StatusIdle
		c.notice = Notice{}
		c.timer = nil
		if clearDraft {
			c.draft = validation.Form{}
			c.errors = validation.FieldErrors{}
			c.touched = FieldSet{}
		}
		s := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(s)
	})
}

func (c *Controller) stopTimerLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// State returns a snapshot of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops any pending reset. The controller rejects submits afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

func (c *Controller) snapshotLocked() State {
	errs := make(validation.FieldErrors, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	return State{
		Draft:   c.draft,
		Errors:  errs,
		Touched: c.touched,
		Active:  c.active,
		Status:  c.status,
		Notice:  c.notice,
	}
}

func (c *Controller) emit(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
