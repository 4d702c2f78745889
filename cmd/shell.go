// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive session against the device",
	Long: `shell opens a session and reads commands from an editable prompt:
cd, ls, rm, get, put, reboot, lcd, lls, lpwd, help, quit.

Like the rest of this client, the shell serializes commands: it never
sends a second request before the device has answered the first.`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("shell requires an interactive terminal")
	}

	s, desc, err := openSession(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	m := newShellModel(s, desc, width, height)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}
