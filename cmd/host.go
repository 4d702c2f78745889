// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Run a file-system operation on this machine",
	Long:  "host mirrors remote's cd/ls pair but operates locally, useful for scripting a transfer session without shelling out.",
}

var hostCdCmd = &cobra.Command{
	Use:   "cd PATH",
	Short: "Change this process's working directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return os.Chdir(args[0])
	},
}

var hostLsCmd = &cobra.Command{
	Use:   "ls [PATH]",
	Short: "List a local directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			kind := "f"
			if e.IsDir() {
				kind = "d"
			}
			info, err := e.Info()
			size := int64(0)
			if err == nil {
				size = info.Size()
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\t%d\n", kind, e.Name(), size)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hostCmd)
	hostCmd.AddCommand(hostCdCmd, hostLsCmd)
}
