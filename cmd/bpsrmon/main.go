// Command bpsrmon is the CLI entrypoint for the passive module
// capture-and-optimize core (spec.md §1, SPEC_FULL.md §D).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uzarakhq/bpsr-uza-modules/internal/config"
	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
)

var (
	cfgFile string
	debug   bool
	cfg     config.Config
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bpsrmon",
		Short: "Passive game-network module observer",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			if debug {
				loaded.Debug = true
			}

			cfg = loaded

			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file (yaml/json/toml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newCaptureCmd(),
		newReplayCmd(),
		newListInterfacesCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.New("bpsrmon", false).Sugar().Error(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
