// ABOUTME: Interactive TUI wizard for configuring the wallpaper feed.
// ABOUTME: 2-step bubbletea model collecting the feed URL and schedule interval.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Step represents the current wizard step.
type Step int

const (
	StepFeedURL Step = iota
	StepInterval
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for feed validation.
type ValidateFn func(ctx context.Context, feedURL string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [2]textinput.Model
	spinner       spinner.Model
	defaultURL    string
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing
// config values. defaultURL is used when the URL input is left empty.
func NewSetupModel(defaultURL, feedURL string, interval time.Duration) SetupModel {
	urlInput := textinput.New()
	urlInput.Placeholder = defaultURL
	urlInput.Focus()
	urlInput.Width = 60
	if feedURL != "" && feedURL != defaultURL {
		urlInput.SetValue(feedURL)
	}

	intervalInput := textinput.New()
	intervalInput.Placeholder = "1h"
	intervalInput.Width = 20
	if interval > 0 {
		intervalInput.SetValue(interval.String())
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepFeedURL,
		inputs:     [2]textinput.Model{urlInput, intervalInput},
		spinner:    s,
		defaultURL: defaultURL,
		validateFn: ValidateFeed,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepFeedURL, StepInterval:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		switch m.step {
		case StepFeedURL:
			if m.inputs[0].Value() == "" {
				m.inputs[0].SetValue(m.defaultURL)
			}
			m.inputs[0].Blur()
			m.step = StepInterval
			m.inputs[1].Focus()
			return m, textinput.Blink

		case StepInterval:
			if m.inputs[1].Value() == "" {
				m.inputs[1].SetValue("1h")
			}
			// Don't advance while the interval is unparsable.
			if _, err := time.ParseDuration(m.inputs[1].Value()); err != nil {
				return m, nil
			}
			m.inputs[1].Blur()
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	feedURL := m.inputs[0].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, feedURL)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("potd-wallpaper - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure the picture-of-the-day feed.\n\n")

	switch m.step {
	case StepFeedURL:
		b.WriteString(stepStyle.Render("Step 1 of 2: Feed URL"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepInterval:
		b.WriteString(fmt.Sprintf("  Feed URL: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 2: Change interval"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(a Go duration like 30m or 1h)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Feed URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Interval: %s\n\n", m.inputs[1].Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Fetching today's entry...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Feed reachable!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values. The interval is only valid when
// ShouldSave reports true.
func (m SetupModel) Result() (feedURL string, interval time.Duration) {
	interval, _ = time.ParseDuration(m.inputs[1].Value())
	return m.inputs[0].Value(), interval
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
