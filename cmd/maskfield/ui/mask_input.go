package ui

import (
	"strings"
	"unicode/utf8"

	"maskfield/internal/field"
	"maskfield/internal/mask"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MaskInputModel is a text input whose value is re-masked on every change.
// The wrapped textinput handles editing and the cursor; the field owns the
// template and reports changes to its listeners.
type MaskInputModel struct {
	field  *field.Field
	input  textinput.Model
	fill   rune
	styles Styles
}

// NewMaskInput creates an input bound to f. A width of 0 sizes the input to
// the template.
func NewMaskInput(f *field.Field, styles Styles, fill rune, width int) MaskInputModel {
	tmpl := f.Template()

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = tmpl.Preview(mask.Result{}, fill)
	if width <= 0 {
		width = tmpl.Len() + 1
	}
	ti.Width = width
	ti.SetValue(f.Value())
	ti.CursorEnd()
	if f.Focused() {
		ti.Focus()
	}

	return MaskInputModel{
		field:  f,
		input:  ti,
		fill:   fill,
		styles: styles,
	}
}

// Field returns the bound field.
func (m MaskInputModel) Field() *field.Field { return m.field }

// Value returns the displayed value.
func (m MaskInputModel) Value() string { return m.input.Value() }

// Update forwards msg to the text input and re-masks the full raw text when it
// changed. Every keystroke is transduced; nothing is batched.
//
// The cursor stays after the same input it followed before re-masking:
// masking the text left of the cursor yields a prefix of the new value, and
// the cursor lands at its end.
func (m MaskInputModel) Update(msg tea.Msg) (MaskInputModel, tea.Cmd) {
	before := m.input.Value()

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if raw := m.input.Value(); raw != before {
		left := string([]rune(raw)[:m.input.Position()])
		m.field.Input(raw)
		m.setValue(m.field.Value())
		m.input.SetCursor(utf8.RuneCountInString(m.field.Template().Apply(left).Masked))
	}
	return m, cmd
}

// Sync copies the field's current value into the text input and moves the
// cursor to the end. Needed after the field changed outside of Update, e.g. a
// reset or a controlled owner update.
func (m *MaskInputModel) Sync() {
	m.setValue(m.field.Value())
	m.input.CursorEnd()
}

func (m *MaskInputModel) setValue(v string) {
	if v != m.input.Value() {
		m.input.SetValue(v)
	}
}

// Focus gives the input keyboard focus.
func (m *MaskInputModel) Focus() tea.Cmd {
	m.field.Focus()
	return m.input.Focus()
}

// Blur removes keyboard focus.
func (m *MaskInputModel) Blur() {
	m.field.Blur()
	m.input.Blur()
}

// SetStyles swaps the palette, e.g. after a config reload.
func (m *MaskInputModel) SetStyles(styles Styles, fill rune) {
	m.styles = styles
	m.fill = fill
	m.input.Placeholder = m.field.Template().Preview(mask.Result{}, fill)
}

// SetWidth resizes the input.
func (m *MaskInputModel) SetWidth(width int) {
	if width > 0 {
		m.input.Width = width
	}
}

// View renders label, input and the remaining-template hint on one line.
func (m MaskInputModel) View() string {
	label := m.styles.Label.Render(m.field.Label())
	box := m.styles.Input.Render(m.input.View())
	if m.field.Focused() {
		label = m.styles.FocusedLabel.Render(m.field.Label())
		box = m.styles.FocusedInput.Render(m.input.View())
	}

	var status string
	switch {
	case m.field.Complete():
		status = m.styles.Success.Render("✓")
	case m.field.Empty():
		if m.field.Required() {
			status = m.styles.Muted.Render("required")
		}
	default:
		status = m.styles.Hint.Render(m.field.Preview(m.fill))
	}

	var sb strings.Builder
	sb.WriteString(label)
	sb.WriteString(" ")
	sb.WriteString(box)
	if status != "" {
		sb.WriteString("  ")
		sb.WriteString(status)
	}
	return sb.String()
}
