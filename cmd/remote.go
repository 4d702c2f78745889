// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ndoto/uftpc/pkg/uftp"
	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Run a file-system operation on the device",
}

var remoteCdCmd = &cobra.Command{
	Use:   "cd PATH",
	Short: "Change the device's working directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *uftp.Session) error {
			return s.Cd(args[0])
		})
	},
}

var remoteLsCmd = &cobra.Command{
	Use:   "ls [PATH]",
	Short: "List a directory on the device",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		return withSession(func(s *uftp.Session) error {
			entries, err := s.Ls(path)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(os.Stdout, "%s\t%s\t%d\n", e.Type, e.Name, e.Size)
			}
			return nil
		})
	},
}

var remoteRmCmd = &cobra.Command{
	Use:   "rm PATH",
	Short: "Remove a file on the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *uftp.Session) error {
			return s.Rm(args[0])
		})
	},
}

var remoteRebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *uftp.Session) error {
			return s.Reboot()
		})
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.AddCommand(remoteCdCmd, remoteLsCmd, remoteRmCmd, remoteRebootCmd)
}

// withSession opens a Session per the persistent flags, runs fn, and
// always closes the Session afterward.
func withSession(fn func(*uftp.Session) error) error {
	s, desc, err := openSession(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()
	fmt.Fprintf(os.Stderr, "connected: %s\n", desc)
	return fn(s)
}
