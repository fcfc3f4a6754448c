// Package main is the entry point for the theme clash server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/theme-clash/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "theme-clash",
	Short: "Theme Clash game server",
	Long:  `Theme Clash runs two-player card battle rooms over websockets, with a gRPC admin service beside them.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
