package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/pitchlab/pitchcoach/internal/conversation"
)

// chat style constants
var (
	chatTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	chatHeaderBorder = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#7D56F4")).
				MarginBottom(1)

	userMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	journalistMsgStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA"))

	waitingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	engagementStyles = map[conversation.EngagementLevel]lipgloss.Style{
		conversation.HighInterest:   lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		conversation.MediumInterest: lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		conversation.LowInterest:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")),
		conversation.Neutral:        lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}

	chatHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1)

	costStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// replyMsg carries the result of one Send call back into the update loop.
type replyMsg struct {
	reply string
	cost  float64
}

type chatModel struct {
	session *conversation.Session
	input   string
	waiting bool
	width   int
	height  int
}

func newChatModel(sess *conversation.Session) chatModel {
	return chatModel{session: sess}
}

func (m chatModel) Init() tea.Cmd {
	return nil
}

// sendCmd runs the blocking model call off the update loop.
func (m chatModel) sendCmd(text string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		reply, cost := sess.Send(context.Background(), text)
		return replyMsg{reply: reply, cost: cost}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case replyMsg:
		m.waiting = false
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+n":
			if !m.waiting {
				m.session.Reset()
				m.input = ""
			}
			return m, nil

		case "enter":
			text := strings.TrimSpace(m.input)
			if text == "" || m.waiting {
				return m, nil
			}
			m.input = ""
			m.waiting = true
			return m, m.sendCmd(text)

		case "backspace":
			if !m.waiting && len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil

		case "ctrl+u":
			if !m.waiting {
				m.input = ""
			}
			return m, nil

		default:
			if !m.waiting && msg.Type == tea.KeyRunes {
				m.input += string(msg.Runes)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m chatModel) View() string {
	var b strings.Builder

	p := m.session.Persona()
	title := chatTitleStyle.Render(fmt.Sprintf("%s — %s", p.Name, p.Publication))
	b.WriteString(chatHeaderBorder.Render(title))
	b.WriteString("\n")

	history := m.session.History()
	shown := history
	// Keep the transcript within the window; the header, input line, and
	// footer take about eight rows.
	if m.height > 8 {
		maxLines := m.height - 8
		if len(shown) > maxLines {
			shown = shown[len(shown)-maxLines:]
		}
	}
	for _, msg := range shown {
		switch msg.Role {
		case conversation.RoleUser:
			b.WriteString(userMsgStyle.Render("You: ") + msg.Content + "\n")
		case conversation.RoleAssistant:
			b.WriteString(journalistMsgStyle.Render(p.Name+": "+msg.Content) + "\n")
		}
	}

	if m.waiting {
		b.WriteString(waitingStyle.Render(p.Name+" is typing...") + "\n")
	} else {
		b.WriteString(promptStyle.Render("> ") + m.input + "_\n")
	}

	level := m.session.EngagementLevel()
	style, ok := engagementStyles[level]
	if !ok {
		style = costStyle
	}
	b.WriteString("\n" + style.Render("["+string(level)+"]") +
		costStyle.Render(fmt.Sprintf("  session cost $%.4f", m.session.TotalCost())))

	b.WriteString(chatHelpStyle.Render("\n  enter to send | ctrl+n for new conversation | esc to quit"))
	b.WriteString("\n")

	return b.String()
}

func runChatTUI(sess *conversation.Session) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("chat requires an interactive terminal")
	}

	prog := tea.NewProgram(newChatModel(sess), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	summary := sess.Summary()
	if summary.MessageCount > 0 {
		fmt.Printf("\n  Conversation with %s (%s): %d messages over %.1f minutes, total cost $%.4f\n",
			summary.PersonaName, summary.Publication, summary.MessageCount,
			summary.DurationMinutes, summary.TotalCost)
	}
	return nil
}
