// Package field models masked input fields and forms built from them.
//
// A Field owns only per-instance state (focus, listeners, value source). All
// formatting goes through the stateless mask transducer: every input event is
// re-masked from the full raw text.
package field

import (
	"errors"

	"maskfield/internal/logging"
	"maskfield/internal/mask"
)

var (
	// ErrIncomplete marks a field whose placeholder slots are not all filled.
	ErrIncomplete = errors.New("incomplete value")
	// ErrUnknownField is returned when a form has no field with a given name.
	ErrUnknownField = errors.New("unknown field")
	// ErrDuplicateField is returned when two fields of a form share a name.
	ErrDuplicateField = errors.New("duplicate field")
)

// Change is reported to listeners after every input.
type Change struct {
	Field    string
	Masked   string
	Clean    string
	Complete bool
}

// Listener receives change notifications.
type Listener func(Change)

// Field is a single masked input.
type Field struct {
	name     string
	label    string
	required bool
	template mask.Template
	source   Source
	focused  bool

	listeners []Listener
}

// Option configures a Field.
type Option func(*Field)

// WithLabel sets the display label.
func WithLabel(label string) Option {
	return func(f *Field) { f.label = label }
}

// WithRequired marks the field as required for form validation.
func WithRequired(required bool) Option {
	return func(f *Field) { f.required = required }
}

// WithSource selects value ownership. The default is an empty Uncontrolled.
func WithSource(s Source) Option {
	return func(f *Field) { f.source = s }
}

// WithListener registers a change listener.
func WithListener(l Listener) Option {
	return func(f *Field) { f.listeners = append(f.listeners, l) }
}

// New creates a field for the given template.
func New(name string, tmpl mask.Template, opts ...Option) *Field {
	f := &Field{
		name:     name,
		label:    name,
		template: tmpl,
		source:   NewUncontrolled(""),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Field) Name() string            { return f.name }
func (f *Field) Label() string           { return f.label }
func (f *Field) Required() bool          { return f.required }
func (f *Field) Template() mask.Template { return f.template }

// OnChange registers a listener.
func (f *Field) OnChange(l Listener) {
	f.listeners = append(f.listeners, l)
}

// Input transduces the full raw text, commits the masked value to the source
// and notifies listeners.
func (f *Field) Input(raw string) Change {
	res := f.template.Apply(raw)
	f.source.commit(res.Masked)

	change := Change{
		Field:    f.name,
		Masked:   res.Masked,
		Clean:    res.Clean,
		Complete: f.template.Complete(res.Clean),
	}
	logging.FieldDebug("%s: raw=%q masked=%q complete=%v", f.name, raw, res.Masked, change.Complete)

	for _, l := range f.listeners {
		l(change)
	}
	return change
}

func (f *Field) result() mask.Result {
	return f.template.Apply(f.source.current())
}

// Value returns the displayed (masked) value.
func (f *Field) Value() string {
	return f.result().Masked
}

// Clean returns the placeholder-only value.
func (f *Field) Clean() string {
	return f.result().Clean
}

// Complete reports whether every placeholder slot is filled.
func (f *Field) Complete() bool {
	return f.template.Complete(f.Clean())
}

// Empty reports whether no slot has been filled.
func (f *Field) Empty() bool {
	return f.Clean() == ""
}

// Preview renders the value padded with the rest of the template.
func (f *Field) Preview(fill rune) string {
	return f.template.Preview(f.result(), fill)
}

// Validate returns an ErrIncomplete-wrapped error when a required field is not
// complete, or when an optional field was started but not finished.
func (f *Field) Validate() error {
	if f.Complete() {
		return nil
	}
	if !f.required && f.Empty() {
		return nil
	}
	return &ValidationError{Field: f.name, Label: f.label, Pattern: f.template.Pattern()}
}

// Reset clears the value through the normal input path.
func (f *Field) Reset() Change {
	return f.Input("")
}

func (f *Field) Focus()        { f.focused = true }
func (f *Field) Blur()         { f.focused = false }
func (f *Field) Focused() bool { return f.focused }

// ValidationError describes an incomplete field.
type ValidationError struct {
	Field   string
	Label   string
	Pattern string
}

func (e *ValidationError) Error() string {
	return e.Label + ": " + ErrIncomplete.Error() + " (expected " + e.Pattern + ")"
}

func (e *ValidationError) Unwrap() error { return ErrIncomplete }
