package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	assistant "github.com/imant686/samantha/core"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

// runChat is the keyboard fallback for machines without a microphone or
// speaker: the same assistant behind a terminal chat window.
func runChat(ctx context.Context, samantha *assistant.Assistant) error {
	program := tea.NewProgram(
		newChatModel(ctx, samantha),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil && err != tea.ErrProgramKilled {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}

type chatTurn struct {
	speaker string
	text    string
}

type responseMsg string

type chatModel struct {
	ctx      context.Context
	samantha *assistant.Assistant

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	turns    []chatTurn
	thinking bool
	ready    bool
}

func newChatModel(ctx context.Context, samantha *assistant.Assistant) chatModel {
	input := textinput.New()
	input.Placeholder = "Type a message"
	input.Focus()

	thinking := spinner.New()
	thinking.Spinner = spinner.Dot

	return chatModel{
		ctx:      ctx,
		samantha: samantha,
		input:    input,
		spinner:  thinking,
		turns:    []chatTurn{{speaker: "Samantha", text: samantha.Greet(ctx)}},
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.thinking {
				return m, nil
			}
			utterance := strings.TrimSpace(m.input.Value())
			if utterance == "" {
				return m, nil
			}
			m.input.Reset()
			m.turns = append(m.turns, chatTurn{speaker: "You", text: utterance})
			m.refreshTranscript()

			if strings.Contains(strings.ToLower(utterance), "stop session") {
				return m, tea.Quit
			}

			m.thinking = true
			return m, tea.Batch(m.spinner.Tick, m.respond(utterance))
		}

	case responseMsg:
		m.thinking = false
		m.turns = append(m.turns, chatTurn{speaker: "Samantha", text: string(msg)})
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m chatModel) View() string {
	if !m.ready {
		return "Starting up..."
	}

	footer := m.input.View()
	if m.thinking {
		footer = m.spinner.View() + " Thinking..."
	}

	return titleStyle.Render("Samantha") + "\n\n" +
		m.viewport.View() + "\n" +
		footer + "\n" +
		helpStyle.Render("enter: send • esc: quit")
}

func (m chatModel) respond(utterance string) tea.Cmd {
	return func() tea.Msg {
		return responseMsg(m.samantha.Respond(m.ctx, utterance))
	}
}

func (m *chatModel) refreshTranscript() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	rendered := make([]string, 0, len(m.turns))
	for _, turn := range m.turns {
		style := assistantStyle
		if turn.speaker == "You" {
			style = userStyle
		}
		line := style.Render(turn.speaker+":") + " " + turn.text
		rendered = append(rendered, wordwrap.String(line, width))
	}

	m.viewport.SetContent(strings.Join(rendered, "\n\n"))
	m.viewport.GotoBottom()
}
