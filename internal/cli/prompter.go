package cli

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/geoprompt/internal/application/port"
	"github.com/bnema/geoprompt/internal/cli/styles"
	"github.com/bnema/geoprompt/internal/logging"
)

// TerminalPrompter implements port.PermissionPrompter with a Bubble Tea
// program. Answers are delivered through post, on the main loop.
type TerminalPrompter struct {
	theme *styles.Theme
	post  func(func())
	opts  []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	wg      sync.WaitGroup
}

// NewTerminalPrompter creates a prompter. opts are passed to every program,
// e.g. tea.WithInput for tests.
func NewTerminalPrompter(theme *styles.Theme, post func(func()), opts ...tea.ProgramOption) *TerminalPrompter {
	if post == nil {
		panic("cli.NewTerminalPrompter: post function cannot be nil")
	}
	return &TerminalPrompter{
		theme: theme,
		post:  post,
		opts:  opts,
	}
}

// Show starts the prompt and returns immediately.
func (p *TerminalPrompter) Show(
	ctx context.Context,
	heading string,
	body string,
	callback func(result port.PermissionDialogResult),
) {
	log := logging.FromContext(ctx)

	model := styles.NewPermissionPrompt(p.theme, heading, body)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.opts...)
	program := tea.NewProgram(model, opts...)

	p.mu.Lock()
	if p.program != nil {
		p.program.Kill()
	}
	p.program = program
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		final, err := program.Run()

		p.mu.Lock()
		current := p.program == program
		if current {
			p.program = nil
		}
		p.mu.Unlock()

		if err != nil {
			if !errors.Is(err, tea.ErrProgramKilled) {
				log.Error().Err(err).Msg("permission prompt failed")
			}
			return
		}
		m, ok := final.(styles.PermissionPromptModel)
		if !current || !ok || !m.Done() {
			return
		}

		result := port.PermissionDialogResult{
			Allowed:    m.Choice().Allowed(),
			Persistent: m.Choice().Persistent(),
		}
		p.post(func() { callback(result) })
	}()
}

// Dismiss closes the visible prompt without answering.
func (p *TerminalPrompter) Dismiss(context.Context) {
	p.mu.Lock()
	program := p.program
	p.program = nil
	p.mu.Unlock()

	if program != nil {
		program.Kill()
	}
}

// Close dismisses the visible prompt and waits for the terminal to be restored.
func (p *TerminalPrompter) Close() {
	p.Dismiss(context.Background())
	p.wg.Wait()
}

var _ port.PermissionPrompter = (*TerminalPrompter)(nil)
