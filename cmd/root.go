// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// Serial connection flags.
	portName string
	baudRate int
	rtscts   bool
	ptyMode  bool

	// Supplemental bridge transport flag.
	bridgeURL string

	// Shared request timeout.
	timeoutSeconds float64
)

var rootCmd = &cobra.Command{
	Use:   "uftpc",
	Short: "Client for the UFTE serial file-transfer protocol",
	Long: `uftpc talks to a small embedded device over a raw serial link,
framing and checksumming every request/response and streaming file
transfers in fixed-size chunks.

Connection modes:
  Serial: --port /dev/ttyUSB0 [--baud 115200] [--rtscts]
  Bridge: --bridge-url ws://host/path (no physical serial link required)`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "baud rate (serial only)")
	rootCmd.PersistentFlags().BoolVar(&rtscts, "rtscts", true, "enable RTS/CTS flow control (serial only)")
	rootCmd.PersistentFlags().BoolVar(&ptyMode, "pty", false, "treat the endpoint as a pseudo-terminal (disables the native read timeout)")
	rootCmd.PersistentFlags().StringVar(&bridgeURL, "bridge-url", "", "WebSocket bridge URL, in place of a physical serial port")
	rootCmd.PersistentFlags().Float64Var(&timeoutSeconds, "timeout", 5, "request timeout in seconds")
}

func requestTimeout() time.Duration {
	return time.Duration(timeoutSeconds * float64(time.Second))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
