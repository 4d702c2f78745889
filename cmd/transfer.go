// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/ndoto/uftpc/pkg/uftp"
	"github.com/spf13/cobra"
)

var transferChunkSize int

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Stream a file to or from the device",
}

var transferUpCmd = &cobra.Command{
	Use:   "up LOCAL REMOTE",
	Short: "Upload a local file to the device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *uftp.Session) error {
			return runTransfer(s, "up", args[0], args[1])
		})
	},
}

var transferDownCmd = &cobra.Command{
	Use:   "down REMOTE LOCAL",
	Short: "Download a file from the device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *uftp.Session) error {
			return runTransfer(s, "down", args[1], args[0])
		})
	},
}

func runTransfer(s *uftp.Session, direction, local, remote string) error {
	opts := uftp.TransferOptions{ChunkSize: transferChunkSize}
	if err := s.Transfer(direction, local, remote, opts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s: %s <-> %s done\n", direction, local, remote)
	return nil
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.AddCommand(transferUpCmd, transferDownCmd)
	transferCmd.PersistentFlags().IntVar(&transferChunkSize, "chunk", uftp.DefaultChunkSize, "transfer chunk size in bytes")
}
