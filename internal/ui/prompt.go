package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/nconklindev/tickdiff/internal/extractor"
)

type keyMap struct {
	Continue key.Binding
	Stop     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Stop}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var promptKeys = keyMap{
	Continue: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "continue")),
	Stop:     key.NewBinding(key.WithKeys("n", "N", "esc", "ctrl+c"), key.WithHelp("any other key", "stop")),
}

// promptModel asks once whether extraction continues past a checkpoint.
// Any key other than y answers no.
type promptModel struct {
	output       string
	linesWritten int
	answered     bool
	proceed      bool
	help         help.Model
}

func newPromptModel(output string, linesWritten int) promptModel {
	return promptModel{
		output:       output,
		linesWritten: linesWritten,
		help:         help.New(),
	}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.answered = true
		m.proceed = key.Matches(msg, promptKeys.Continue)
		return m, tea.Quit
	}
	return m, nil
}

func (m promptModel) View() string {
	if m.answered {
		if m.proceed {
			return HelpStyle.Render("continuing...") + "\n"
		}
		return WarnStyle.Render("stopping, output kept") + "\n"
	}

	var s strings.Builder

	s.WriteString(TitleStyle.Render("⏸ Checkpoint"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s lines written to %s", humanize.Comma(int64(m.linesWritten)), filepath.Base(m.output))))
	s.WriteString("\n")
	s.WriteString(KeyStyle.Render("Continue ? (Y/N)"))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render(m.help.View(promptKeys)))

	return BoxStyle.Render(s.String())
}

// Prompt is a terminal Confirmer that shows each checkpoint as a small
// bubbletea program.
type Prompt struct {
	output  string
	options []tea.ProgramOption
}

var _ extractor.Confirmer = (*Prompt)(nil)

func NewPrompt(output string, options ...tea.ProgramOption) *Prompt {
	return &Prompt{output: output, options: options}
}

func (p *Prompt) Confirm(linesWritten int) (bool, error) {
	final, err := tea.NewProgram(newPromptModel(p.output, linesWritten), p.options...).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(promptModel)
	return ok && m.proceed, nil
}
