package main

import (
	"os"

	"github.com/evilsocket/islazy/tui"
	"github.com/spf13/cobra"

	"github.com/uzarakhq/bpsr-uza-modules/capture"
)

func newListInterfacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-interfaces",
		Short: "List capture-capable network interfaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			ifaces, err := capture.ListInterfaces()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(ifaces))
			for _, ni := range ifaces {
				virtual := "no"
				if ni.Virtual {
					virtual = "yes"
				}

				rows = append(rows, []string{ni.Name, ni.Description, ni.Class.String(), virtual})
			}

			tui.Table(os.Stdout, []string{"Name", "Description", "Class", "Virtual"}, rows)

			return nil
		},
	}
}
