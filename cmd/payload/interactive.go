package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/payload"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	onStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	offStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// interactiveFormats are the printable output formats the TUI cycles through.
var interactiveFormats = []string{"json", "go-json", "yaml"}

type setting int

const (
	settingDisallow setting = iota
	settingForce
	settingOffline
	settingMaxDepth
	settingFormat
	settingCount
)

var settingNames = [...]string{
	settingDisallow: "disallow objects",
	settingForce:    "force pointers",
	settingOffline:  "offline",
	settingMaxDepth: "max depth",
	settingFormat:   "format",
}

type interactiveModel struct {
	err      error
	decoded  any
	filename string
	data     []byte
	result   string
	depth    textinput.Model
	cfg      config
	selected setting
	editing  bool
	loaded   bool

	highlight bool
}

func newInteractiveModel(filename string, data []byte, cfg config) *interactiveModel {
	if filename == "" {
		filename = "stdin"
	}
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(cfg.MaxDepth)
	ti.Prompt = "max depth: "
	ti.Width = 10
	ti.CharLimit = 6
	cfg.Pretty = true
	cfg.Compress = ""
	if !isInteractiveFormat(cfg.Format) {
		cfg.Format = interactiveFormats[0]
	}
	return &interactiveModel{
		filename: filename,
		data:     data,
		cfg:      cfg,
		depth:    ti,

		highlight: true,
	}
}

func isInteractiveFormat(name string) bool {
	for _, f := range interactiveFormats {
		if f == name {
			return true
		}
	}
	return false
}

type decodedMsg struct {
	err   error
	value any
}

type encodedMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.decode
}

func (m *interactiveModel) decode() tea.Msg {
	v, err := payload.Unmarshal(m.data, m.cfg.InputFormat)
	return decodedMsg{value: v, err: err}
}

// encode snapshots the settings; the command runs outside Update.
func (m *interactiveModel) encode() tea.Cmd {
	cfg := m.cfg
	v := m.decoded
	highlight := m.highlight
	return func() tea.Msg {
		out, err := payload.Marshal(v, cfg.Format, cfg.encoderOptions(zap.NewNop())...)
		if err != nil {
			return encodedMsg{err: err}
		}
		return encodedMsg{result: string(render(out, cfg, highlight))}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateDepth(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < settingCount-1 {
				m.selected++
			}

		case "enter", " ":
			if !m.loaded {
				return m, nil
			}
			if m.selected == settingMaxDepth {
				m.editing = true
				m.depth.SetValue(strconv.Itoa(m.cfg.MaxDepth))
				return m, m.depth.Focus()
			}
			m.toggle(m.selected)
			return m, m.encode()
		}

	case decodedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.decoded = msg.value
		m.loaded = true
		return m, m.encode()

	case encodedMsg:
		m.result = msg.result
		m.err = msg.err
	}

	return m, nil
}

func (m *interactiveModel) updateDepth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editing = false
		m.depth.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.depth.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(m.depth.Value()))
		if err != nil || n <= 0 {
			m.err = fmt.Errorf("max depth must be a positive integer, got %q", m.depth.Value())
			m.result = ""
			return m, nil
		}
		m.cfg.MaxDepth = n
		return m, m.encode()
	}
	var cmd tea.Cmd
	m.depth, cmd = m.depth.Update(msg)
	return m, cmd
}

func (m *interactiveModel) toggle(s setting) {
	switch s {
	case settingDisallow:
		m.cfg.DisallowObjects = !m.cfg.DisallowObjects
	case settingForce:
		m.cfg.ForcePointers = !m.cfg.ForcePointers
	case settingOffline:
		m.cfg.Offline = !m.cfg.Offline
	case settingFormat:
		m.cfg.Format = nextFormat(m.cfg.Format)
	}
}

func nextFormat(current string) string {
	for i, f := range interactiveFormats {
		if f == current {
			return interactiveFormats[(i+1)%len(interactiveFormats)]
		}
	}
	return interactiveFormats[0]
}

func (m *interactiveModel) settingValue(s setting) string {
	flag := func(on bool) string {
		if on {
			return onStyle.Render("on")
		}
		return offStyle.Render("off")
	}
	switch s {
	case settingDisallow:
		return flag(m.cfg.DisallowObjects)
	case settingForce:
		return flag(m.cfg.ForcePointers)
	case settingOffline:
		return flag(m.cfg.Offline)
	case settingMaxDepth:
		return strconv.Itoa(m.cfg.MaxDepth)
	case settingFormat:
		return m.cfg.Format
	}
	return ""
}

func (m *interactiveModel) View() string {
	if !m.loaded {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
		}
		return "Decoding " + m.filename + "..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Payload"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	for s := setting(0); s < settingCount; s++ {
		line := fmt.Sprintf("%-18s %s", settingNames[s], m.settingValue(s))
		if s == m.selected {
			b.WriteString(selectedStyle.Render("> " + settingNames[s]))
			b.WriteString(strings.Repeat(" ", 18-len(settingNames[s])))
			b.WriteString(" " + m.settingValue(s))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.depth.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		b.WriteString(m.result)
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter toggle • q quit"))
	return b.String()
}

func runInteractive(filename string, data []byte, cfg config) error {
	p := tea.NewProgram(newInteractiveModel(filename, data, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
