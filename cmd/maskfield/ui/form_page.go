package ui

import (
	"fmt"
	"strings"

	"maskfield/internal/config"
	"maskfield/internal/field"
	"maskfield/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SubmitFunc is called with a validated form. A returned error keeps the form
// open and is shown to the user.
type SubmitFunc func(*field.Form) error

// FormOptions configures a FormModel.
type FormOptions struct {
	Fill     rune
	Width    int
	OnSubmit SubmitFunc
	// ConfigUpdates, when set, restyles the form on config reloads.
	ConfigUpdates <-chan *config.Config
}

// configReloadedMsg carries a reloaded config into the update loop.
type configReloadedMsg struct {
	cfg *config.Config
}

// FormModel is the interactive page for one form.
type FormModel struct {
	form    *field.Form
	inputs  []MaskInputModel
	styles  Styles
	opts    FormOptions
	resize  *ResizeDebouncer
	width   int
	height  int
	err     error
	status  string
	done    bool
	aborted bool
}

// NewFormModel creates the page for form.
func NewFormModel(form *field.Form, styles Styles, opts FormOptions) FormModel {
	if opts.Fill == 0 {
		opts.Fill = '_'
	}
	inputs := make([]MaskInputModel, 0, form.Len())
	for _, f := range form.Fields() {
		inputs = append(inputs, NewMaskInput(f, styles, opts.Fill, opts.Width))
	}
	return FormModel{
		form:   form,
		inputs: inputs,
		styles: styles,
		opts:   opts,
		resize: NewResizeDebouncer(DefaultResizeDuration),
	}
}

// Submitted reports whether the form was validated and accepted.
func (m FormModel) Submitted() bool { return m.done }

// Aborted reports whether the user quit without submitting.
func (m FormModel) Aborted() bool { return m.aborted }

// Err returns the last validation or submit error.
func (m FormModel) Err() error { return m.err }

// Form returns the underlying form.
func (m FormModel) Form() *field.Form { return m.form }

// Init starts cursor blinking and, if configured, listens for config reloads.
func (m FormModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if i := m.form.FocusIndex(); i < len(m.inputs) {
		cmds = append(cmds, m.inputs[i].Focus())
	}
	cmds = append(cmds, m.waitForConfig())
	return tea.Batch(cmds...)
}

func (m FormModel) waitForConfig() tea.Cmd {
	ch := m.opts.ConfigUpdates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configReloadedMsg{cfg: cfg}
	}
}

// Update handles messages.
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "tab", "down":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "ctrl+r":
			if len(m.inputs) == 0 {
				return m, nil
			}
			m.form.Reset()
			for i := range m.inputs {
				m.inputs[i].Sync()
				m.inputs[i].Blur()
			}
			m.err, m.status = nil, "cleared"
			return m, m.inputs[0].Focus()
		case "enter":
			return m.submit()
		}

	case tea.WindowSizeMsg:
		return m, m.resize.Resize(msg.Width, msg.Height)

	case resizeSettledMsg:
		if m.resize.Settle(msg) {
			m.width, m.height = m.resize.LastSize()
			logging.UIDebug("resized to %dx%d", m.width, m.height)
		}
		return m, nil

	case configReloadedMsg:
		m.applyConfig(msg.cfg)
		return m, m.waitForConfig()
	}

	i := m.form.FocusIndex()
	if i >= len(m.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	return m, cmd
}

func (m *FormModel) moveFocus(delta int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.form.FocusIndex()].Blur()
	if delta > 0 {
		m.form.FocusNext()
	} else {
		m.form.FocusPrev()
	}
	return m.inputs[m.form.FocusIndex()].Focus()
}

func (m FormModel) submit() (tea.Model, tea.Cmd) {
	if err := m.form.Validate(); err != nil {
		m.err = err
		m.status = ""
		return m, nil
	}
	if m.opts.OnSubmit != nil {
		if err := m.opts.OnSubmit(m.form); err != nil {
			m.err = fmt.Errorf("submit failed: %w", err)
			return m, nil
		}
	}
	logging.Form("%s submitted", m.form.Name())
	m.err = nil
	m.done = true
	return m, tea.Quit
}

func (m *FormModel) applyConfig(cfg *config.Config) {
	logging.ReloadConfig(cfg.Logging)

	styles := NewStyles(ThemeFor(cfg.UI.Theme))
	fill := cfg.UI.FillRune()
	m.styles = styles
	m.opts.Fill = fill
	for i := range m.inputs {
		m.inputs[i].SetStyles(styles, fill)
		m.inputs[i].SetWidth(cfg.UI.Width)
	}
	m.status = "config reloaded"
	logging.UI("applied reloaded config (theme=%q)", cfg.UI.Theme)
}

// View renders the page.
func (m FormModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(m.form.Title()))
	sb.WriteString("\n")

	rows := make([]string, 0, len(m.inputs))
	for _, in := range m.inputs {
		rows = append(rows, in.View())
	}
	sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	sb.WriteString("\n\n")

	if m.err != nil {
		for _, line := range strings.Split(m.err.Error(), "\n") {
			sb.WriteString(m.styles.Error.Render(line))
			sb.WriteString("\n")
		}
	} else if m.status != "" {
		sb.WriteString(m.styles.Muted.Render(m.status))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Muted.Render("tab/shift+tab move • enter submit • ctrl+r clear • esc quit"))
	sb.WriteString("\n")
	return sb.String()
}
