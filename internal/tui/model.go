package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/monument-ai/athena/internal/chat"
	"github.com/monument-ai/athena/internal/logger"
	"github.com/monument-ai/athena/internal/models"
	"github.com/monument-ai/athena/internal/render"
)

// Message types for the TUI
type (
	// logChangedMsg is sent whenever the conversation log was mutated
	logChangedMsg struct{}

	// noticeExpiredMsg clears a transient status notice
	noticeExpiredMsg struct{ seq int }
)

const noticeTTL = 2 * time.Second

// Options configures the chat window
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	SingleFlight bool
	Markdown     bool
	Render       render.Options
	Palette      string
}

// textareaInput adapts the bubbles textarea to chat.Input. It is held by
// pointer so the controller and every copy of Model share one field.
type textareaInput struct {
	ta textarea.Model
}

func (t *textareaInput) Value() string     { return t.ta.Value() }
func (t *textareaInput) SetValue(s string) { t.ta.SetValue(s) }
func (t *textareaInput) Focus()            { t.ta.Focus() }

// Model represents the TUI state
type Model struct {
	controller *chat.Controller
	input      *textareaInput
	changes    chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	opts       Options

	// UI components
	viewport viewport.Model
	spinner  spinner.Model

	// State
	ready     bool
	notice    string
	noticeSeq int
	copyFn    func(string) error

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat window whose exchanges are answered by replier
func NewChatModel(replier chat.Replier, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(palette.BotText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(palette.Hint)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = typingStyle

	input := &textareaInput{ta: ta}
	changes := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())

	controller := chat.NewController(replier, input,
		chat.WithTimeout(opts.Timeout),
		chat.WithSingleFlight(opts.SingleFlight),
		chat.WithOnChange(func() {
			// Coalesce: one pending notification is enough to trigger a redraw
			select {
			case changes <- struct{}{}:
			default:
			}
		}),
	)

	return Model{
		controller: controller,
		input:      input,
		changes:    changes,
		ctx:        ctx,
		cancel:     cancel,
		opts:       opts,
		spinner:    s,
		copyFn:     clipboard.WriteAll,
	}
}

// Controller returns the chat controller driving this window
func (m Model) Controller() *chat.Controller {
	return m.controller
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		waitForChange(m.changes),
	)
}

// waitForChange blocks until the controller reports a log mutation
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return logChangedMsg{}
	}
}

// viewportKeys keeps scrolling off the keys the textarea uses for editing
func viewportKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("shift+up")),
		HalfPageDown: key.NewBinding(key.WithKeys("shift+down")),
	}
}

func expireNotice(seq int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Header panel with border
		inputHeight := 5  // Input panel with border
		statusHeight := 1 // Status bar
		borders := 2      // Messages panel border

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - borders
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 2
		if contentWidth < 20 {
			contentWidth = 20
		}

		if !m.ready {
			m.viewport = viewport.New(contentWidth-2, vpHeight)
			m.viewport.KeyMap = viewportKeys()
			m.ready = true
		} else {
			m.viewport.Width = contentWidth - 2
			m.viewport.Height = vpHeight
		}
		m.input.ta.SetWidth(contentWidth - 4)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit

		case "ctrl+l":
			m.controller.Log().Clear()
			m.refresh()
			return m, nil

		case "ctrl+y":
			return m.copyLastReply()

		case "enter":
			switch strings.TrimSpace(m.input.Value()) {
			case "/exit", "/quit":
				m.cancel()
				return m, tea.Quit
			case "/clear":
				m.input.SetValue("")
				m.controller.Log().Clear()
				m.refresh()
				return m, nil
			}

			if _, ok := m.controller.Submit(m.ctx); !ok {
				if m.controller.Pending() > 0 && strings.TrimSpace(m.input.Value()) != "" {
					return m.setNotice("Waiting for the current reply...")
				}
				return m, nil
			}
			m.refresh()
			return m, m.spinner.Tick
		}

	case logChangedMsg:
		m.refresh()
		cmds = append(cmds, waitForChange(m.changes))

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}

	case spinner.TickMsg:
		if m.controller.Pending() > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.redraw()
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if _, ok := msg.(tea.KeyMsg); ok {
		m.input.ta, cmd = m.input.ta.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	text, ok := m.controller.Log().LastReply()
	if !ok {
		return m.setNotice("Nothing to copy")
	}
	if err := m.copyFn(text); err != nil {
		logger.WarnCF("tui", "clipboard write failed", logger.Fields{"error": err})
		return m.setNotice("Copy failed")
	}
	return m.setNotice("Copied last reply")
}

func (m Model) setNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	return m, expireNotice(m.noticeSeq)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return typingStyle.Render("  Initializing...")
	}

	contentWidth := m.viewport.Width + 2
	var sections []string

	// Header
	headerParts := []string{
		titleStyle.Render("✦ " + models.BotName),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.opts.BaseURL),
	}
	if pending := m.controller.Pending(); pending > 0 {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			typingStyle.Render(fmt.Sprintf("%d pending", pending)),
		)
	}
	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	// Messages
	var messagesContent string
	if m.controller.Log().Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	inputContent := lipgloss.JoinVertical(
		lipgloss.Left,
		inputLabelStyle.Render("You"),
		m.input.ta.View(),
	)
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Chat with "+models.BotName),
		"",
		welcomeStyle.Width(width).Render("Type a message below and press Enter"),
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	if m.notice != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(noticeStyle.Render(m.notice))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy"},
		{"Ctrl+L", "Clear"},
		{"PgUp/PgDn", "Scroll"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  "))
}

// refresh rebuilds the viewport from the log and scrolls to the newest message
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.redraw()
	m.viewport.GotoBottom()
}

// redraw rebuilds the viewport content and keeps the scroll position
func (m *Model) redraw() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width * 3 / 4
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.controller.Log().Messages() {
		if i > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(m.renderMessage(msg, bubbleWidth))
	}

	m.viewport.SetContent(content.String())
}

// renderMessage renders one log entry as a sender-styled bubble
func (m Model) renderMessage(msg models.Message, width int) string {
	if msg.IsUser() {
		label := userLabelStyle.Render("You")
		bubble := userBubbleStyle.MaxWidth(width).Render(wrap(msg.Text, width-2))
		block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
	}

	label := botLabelStyle.Render(models.BotName)
	switch {
	case msg.Text == models.TypingIndicator:
		return label + "\n" + typingStyle.Render(m.spinner.View()+" "+msg.Text)
	case strings.HasPrefix(msg.Text, models.ReplyPrefix+models.FetchErrorPrefix):
		return label + "\n" + errorBubble.MaxWidth(width).Render(wrap(msg.Text, width-2))
	case m.opts.Markdown:
		return label + "\n" + botBubbleStyle.Render(render.Reply(msg.Text, m.opts.Render.WithWidth(width-2)))
	default:
		return label + "\n" + botBubbleStyle.MaxWidth(width).Render(wrap(msg.Text, width-2))
	}
}

// wrap soft-wraps text to width without splitting words where possible
func wrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// RunChat starts the chat TUI and blocks until the user quits.
// Pending exchanges are cancelled on exit.
func RunChat(replier chat.Replier, opts Options) error {
	ApplyPalette(opts.Palette)
	m := NewChatModel(replier, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	m.cancel()
	m.controller.Wait()
	return err
}
