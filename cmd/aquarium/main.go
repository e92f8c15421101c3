// Command aquarium runs the goldfish tank. The schooling simulation
// can be served to browser viewers over websocket, advanced headless
// for inspection, or asked to export the procedural goldfish mesh.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "aquarium",
	Short: "Goldfish tank simulation and tooling",
	Long: `Aquarium simulates a small school of goldfish inside a bounded
tank and exposes the result to display frontends.

The serve command broadcasts JSON snapshots over websocket at a fixed
tick rate; run advances the tank headless and logs school statistics;
export writes the procedural goldfish mesh for offline viewers.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML config file")
	rootCmd.AddCommand(serveCmd, runCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
