package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "focusboard",
	Short: "Focusboard - priority task board with a focus timer",
	Long: `Focusboard is the backend for a personal task board: priority slots,
a focus timer with a single active session, and automatic cleanup of
completed tasks after their retention window.`,
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
