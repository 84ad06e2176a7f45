package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "menumetrics",
	Short: "Menu analytics and layout strategy engine for restaurants",
	Long: `menumetrics classifies menu items into BCG quadrants from sales history,
evaluates menu layout experiments and generates placement strategies for
restaurant menus. It serves an HTTP API and ships seed, analyze and export
commands for working with the same data from the terminal.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
