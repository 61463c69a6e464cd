package field

import (
	"errors"
	"fmt"

	"maskfield/internal/config"
	"maskfield/internal/logging"
)

// Form is an ordered set of fields with a single focus cursor.
type Form struct {
	name   string
	title  string
	fields []*Field
	index  map[string]int
	focus  int
}

// NewForm assembles a form. Field names must be unique.
func NewForm(name, title string, fields ...*Field) (*Form, error) {
	f := &Form{
		name:   name,
		title:  title,
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, fld := range fields {
		if _, dup := f.index[fld.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, fld.Name())
		}
		f.index[fld.Name()] = i
	}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return f, nil
}

// FromConfig builds the named form from configuration. Every field is
// uncontrolled.
func FromConfig(cfg *config.Config, name string) (*Form, error) {
	fc, err := cfg.Form(name)
	if err != nil {
		return nil, err
	}

	fields := make([]*Field, 0, len(fc.Fields))
	for _, def := range fc.Fields {
		tmpl, err := cfg.FieldTemplate(def)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", def.Name, err)
		}
		label := def.Label
		if label == "" {
			label = def.Name
		}
		fields = append(fields, New(def.Name, tmpl, WithLabel(label), WithRequired(def.Required)))
	}

	title := fc.Title
	if title == "" {
		title = name
	}
	return NewForm(name, title, fields...)
}

func (f *Form) Name() string     { return f.name }
func (f *Form) Title() string    { return f.title }
func (f *Form) Fields() []*Field { return f.fields }
func (f *Form) Len() int         { return len(f.fields) }
func (f *Form) FocusIndex() int  { return f.focus }

// Field returns the named field.
func (f *Form) Field(name string) (*Field, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f.fields[i], nil
}

// Focused returns the field holding focus, or nil for an empty form.
func (f *Form) Focused() *Field {
	if len(f.fields) == 0 {
		return nil
	}
	return f.fields[f.focus]
}

// FocusNext moves focus forward, wrapping around.
func (f *Form) FocusNext() *Field {
	return f.moveFocus(1)
}

// FocusPrev moves focus backward, wrapping around.
func (f *Form) FocusPrev() *Field {
	return f.moveFocus(-1)
}

func (f *Form) moveFocus(delta int) *Field {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	f.fields[f.focus].Blur()
	f.focus = ((f.focus+delta)%n + n) % n
	f.fields[f.focus].Focus()
	return f.fields[f.focus]
}

// OnChange registers a listener on every field.
func (f *Form) OnChange(l Listener) {
	for _, fld := range f.fields {
		fld.OnChange(l)
	}
}

// Values returns clean values keyed by field name.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		out[fld.Name()] = fld.Clean()
	}
	return out
}

// Masked returns displayed values keyed by field name.
func (f *Form) Masked() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		out[fld.Name()] = fld.Value()
	}
	return out
}

// Validate checks every field and joins the failures.
func (f *Form) Validate() error {
	var errs []error
	for _, fld := range f.fields {
		if err := fld.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		logging.FormWarn("%s: %d field(s) incomplete", f.name, len(errs))
	}
	return errors.Join(errs...)
}

// Reset clears every field and returns focus to the first one.
func (f *Form) Reset() {
	for _, fld := range f.fields {
		fld.Reset()
		fld.Blur()
	}
	f.focus = 0
	if len(f.fields) > 0 {
		f.fields[0].Focus()
	}
}
