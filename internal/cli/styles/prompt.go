package styles

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PromptChoice is one answer of the permission prompt.
type PromptChoice int

const (
	ChoiceAllowOnce PromptChoice = iota
	ChoiceAlwaysAllow
	ChoiceDeny
	ChoiceAlwaysDeny
)

var promptChoices = []PromptChoice{ChoiceDeny, ChoiceAlwaysDeny, ChoiceAllowOnce, ChoiceAlwaysAllow}

// Allowed reports whether the choice grants access.
func (c PromptChoice) Allowed() bool {
	return c == ChoiceAllowOnce || c == ChoiceAlwaysAllow
}

// Persistent reports whether the choice should be remembered.
func (c PromptChoice) Persistent() bool {
	return c == ChoiceAlwaysAllow || c == ChoiceAlwaysDeny
}

func (c PromptChoice) String() string {
	switch c {
	case ChoiceAllowOnce:
		return "Allow"
	case ChoiceAlwaysAllow:
		return "Always allow"
	case ChoiceDeny:
		return "Deny"
	case ChoiceAlwaysDeny:
		return "Always deny"
	default:
		return "?"
	}
}

// PromptKeyMap defines keybindings for the permission prompt.
type PromptKeyMap struct {
	Left        key.Binding
	Right       key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	AllowOnce   key.Binding
	AlwaysAllow key.Binding
	Deny        key.Binding
	AlwaysDeny  key.Binding
}

// DefaultPromptKeyMap returns the default keybindings.
func DefaultPromptKeyMap() PromptKeyMap {
	return PromptKeyMap{
		Left:        key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "previous")),
		Right:       key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next")),
		Confirm:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:      key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "deny")),
		AllowOnce:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "allow")),
		AlwaysAllow: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "always allow")),
		Deny:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "deny")),
		AlwaysDeny:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "always deny")),
	}
}

// PermissionPromptModel asks whether a page may use the location.
// Escape answers with a one-time denial.
type PermissionPromptModel struct {
	Heading string
	Body    string

	cursor   int
	choice   PromptChoice
	done     bool
	canceled bool
	theme    *Theme
	keys     PromptKeyMap
}

// NewPermissionPrompt creates a prompt with "Deny" selected.
func NewPermissionPrompt(theme *Theme, heading, body string) PermissionPromptModel {
	return PermissionPromptModel{
		Heading: heading,
		Body:    body,
		theme:   theme,
		keys:    DefaultPromptKeyMap(),
	}
}

// Init implements tea.Model.
func (m PermissionPromptModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PermissionPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Left):
		m.cursor = (m.cursor + len(promptChoices) - 1) % len(promptChoices)
		return m, nil
	case key.Matches(keyMsg, m.keys.Right):
		m.cursor = (m.cursor + 1) % len(promptChoices)
		return m, nil
	case key.Matches(keyMsg, m.keys.Confirm):
		return m.finish(promptChoices[m.cursor])
	case key.Matches(keyMsg, m.keys.AllowOnce):
		return m.finish(ChoiceAllowOnce)
	case key.Matches(keyMsg, m.keys.AlwaysAllow):
		return m.finish(ChoiceAlwaysAllow)
	case key.Matches(keyMsg, m.keys.Deny):
		return m.finish(ChoiceDeny)
	case key.Matches(keyMsg, m.keys.AlwaysDeny):
		return m.finish(ChoiceAlwaysDeny)
	case key.Matches(keyMsg, m.keys.Cancel):
		m.canceled = true
		return m.finish(ChoiceDeny)
	}
	return m, nil
}

func (m PermissionPromptModel) finish(choice PromptChoice) (tea.Model, tea.Cmd) {
	m.choice = choice
	m.done = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m PermissionPromptModel) View() string {
	if m.done {
		return ""
	}
	t := m.theme

	buttons := make([]string, 0, len(promptChoices)*2)
	for i, c := range promptChoices {
		style := t.InactiveButton
		if i == m.cursor {
			style = t.ActiveButton
		}
		if i > 0 {
			buttons = append(buttons, " ")
		}
		buttons = append(buttons, style.Render(c.String()))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		t.Title.Render(IconLocation+"  "+m.Heading),
		"",
		t.Normal.Render(m.Body),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
		"",
		t.Subtle.Render("←/→ select • enter confirm • a/A allow • d/D deny • esc deny once"),
	)
	return t.Box.Render(content)
}

// Done returns true once an answer was chosen.
func (m PermissionPromptModel) Done() bool {
	return m.done
}

// Canceled reports whether the prompt was dismissed with escape.
func (m PermissionPromptModel) Canceled() bool {
	return m.canceled
}

// Choice returns the chosen answer; it is only meaningful once Done.
func (m PermissionPromptModel) Choice() PromptChoice {
	return m.choice
}
