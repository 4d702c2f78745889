// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ndoto/uftpc/pkg/uftp"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// cmdResultMsg carries the outcome of one dispatched shell command back
// into Update, after it ran on the Session off the event loop goroutine.
type cmdResultMsg struct {
	lines []string
	err   error
}

type shellModel struct {
	sess *uftp.Session
	desc string

	input    textinput.Model
	viewport viewport.Model
	log      []string

	busy     bool
	quitting bool
}

func newShellModel(s *uftp.Session, desc string, width, height int) shellModel {
	ti := textinput.New()
	ti.Placeholder = "cd, ls, rm, get, put, reboot, help, quit"
	ti.Focus()
	ti.Prompt = "uftp> "

	vp := viewport.New(width, height-3)

	m := shellModel{
		sess:  s,
		desc:  desc,
		input: ti,
		log:   []string{dimStyle.Render("connected: " + desc), dimStyle.Render("type 'help' for the command list")},
	}
	m.viewport = vp
	m.syncViewport()
	return m
}

func (m shellModel) Init() tea.Cmd {
	return nil
}

func (m *shellModel) syncViewport() {
	m.viewport.SetContent(strings.Join(m.log, "\n"))
	m.viewport.GotoBottom()
}

func (m *shellModel) appendLog(lines ...string) {
	m.log = append(m.log, lines...)
	m.syncViewport()
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.appendLog(promptStyle.Render("uftp> ") + line)

			if line == "quit" || line == "exit" {
				m.quitting = true
				return m, tea.Quit
			}

			m.busy = true
			return m, runShellCommand(m.sess, line)
		}

	case cmdResultMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLog(errorStyle.Render("error: " + msg.err.Error()))
		} else {
			styled := make([]string, len(msg.lines))
			for i, l := range msg.lines {
				styled[i] = okStyle.Render(l)
			}
			m.appendLog(styled...)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m shellModel) View() string {
	if m.quitting {
		return ""
	}
	status := dimStyle.Render(m.desc)
	if m.busy {
		status = dimStyle.Render(m.desc + " (waiting for device...)")
	}
	return fmt.Sprintf("%s\n%s\n%s", m.viewport.View(), status, m.input.View())
}

// runShellCommand dispatches one parsed command line against sess. It
// runs as a tea.Cmd, off the Update goroutine, and reports back through
// cmdResultMsg — exactly one in flight at a time, since Update only issues
// the next one after the previous cmdResultMsg has landed.
func runShellCommand(sess *uftp.Session, line string) tea.Cmd {
	return func() tea.Msg {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return cmdResultMsg{}
		}

		switch fields[0] {
		case "help":
			return cmdResultMsg{lines: []string{
				"cd PATH | ls [PATH] | rm PATH | reboot",
				"get REMOTE LOCAL | put LOCAL REMOTE",
				"lpwd | lcd PATH | lls [PATH]",
				"quit",
			}}

		case "cd":
			if len(fields) != 2 {
				return cmdResultMsg{err: fmt.Errorf("usage: cd PATH")}
			}
			if err := sess.Cd(fields[1]); err != nil {
				return cmdResultMsg{err: err}
			}
			return cmdResultMsg{lines: []string{"ok"}}

		case "ls":
			path := "."
			if len(fields) == 2 {
				path = fields[1]
			}
			entries, err := sess.Ls(path)
			if err != nil {
				return cmdResultMsg{err: err}
			}
			lines := make([]string, 0, len(entries))
			for _, e := range entries {
				lines = append(lines, fmt.Sprintf("%s\t%s\t%d", e.Type, e.Name, e.Size))
			}
			return cmdResultMsg{lines: lines}

		case "rm":
			if len(fields) != 2 {
				return cmdResultMsg{err: fmt.Errorf("usage: rm PATH")}
			}
			if err := sess.Rm(fields[1]); err != nil {
				return cmdResultMsg{err: err}
			}
			return cmdResultMsg{lines: []string{"ok"}}

		case "reboot":
			if err := sess.Reboot(); err != nil {
				return cmdResultMsg{err: err}
			}
			return cmdResultMsg{lines: []string{"ok, device rebooting"}}

		case "get":
			if len(fields) != 3 {
				return cmdResultMsg{err: fmt.Errorf("usage: get REMOTE LOCAL")}
			}
			if err := sess.Get(fields[1], fields[2], uftp.TransferOptions{}); err != nil {
				return cmdResultMsg{err: err}
			}
			return cmdResultMsg{lines: []string{fmt.Sprintf("%s -> %s done", fields[1], fields[2])}}

		case "put":
			if len(fields) != 3 {
				return cmdResultMsg{err: fmt.Errorf("usage: put LOCAL REMOTE")}
			}
			if err := sess.Put(fields[1], fields[2], uftp.TransferOptions{}); err != nil {
				return cmdResultMsg{err: err}
			}
			return cmdResultMsg{lines: []string{fmt.Sprintf("%s -> %s done", fields[1], fields[2])}}

		case "lpwd":
			wd, err := os.Getwd()
			if err != nil {
				return cmdResultMsg{err: err}
			}
			return cmdResultMsg{lines: []string{wd}}

		case "lcd":
			if len(fields) != 2 {
				return cmdResultMsg{err: fmt.Errorf("usage: lcd PATH")}
			}
			if err := os.Chdir(fields[1]); err != nil {
				return cmdResultMsg{err: err}
			}
			return cmdResultMsg{lines: []string{"ok"}}

		case "lls":
			path := "."
			if len(fields) == 2 {
				path = fields[1]
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return cmdResultMsg{err: err}
			}
			lines := make([]string, 0, len(entries))
			for _, e := range entries {
				kind := "f"
				if e.IsDir() {
					kind = "d"
				}
				lines = append(lines, kind+"\t"+e.Name())
			}
			return cmdResultMsg{lines: lines}

		default:
			return cmdResultMsg{err: fmt.Errorf("unknown command %q (try 'help')", fields[0])}
		}
	}
}
