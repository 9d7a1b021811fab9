package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/uzarakhq/bpsr-uza-modules/control"
)

func newReplayCmd() *cobra.Command {
	var (
		category          string
		attrs             []string
		prioritizedAttrs  []string
		priorityOrderMode bool
	)

	cmd := &cobra.Command{
		Use:   "replay <pcap-file>",
		Short: "Replay a capture file offline and report module combinations (dry run)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "" {
				return errors.New("pcap file path required")
			}

			bus := control.New(cfg)

			req := control.StartMonitoringRequest{
				ScreenRequest: control.ScreenRequest{
					Category:          category,
					Attributes:        attrs,
					PrioritizedAttrs:  prioritizedAttrs,
					PriorityOrderMode: priorityOrderMode,
				},
			}

			go func() {
				printEvents(bus)
			}()

			return bus.RunReplay(path, req)
		},
	}

	cmd.Flags().StringVar(&category, "category", "All", "module category: Attack, Guard, Support, or All")
	cmd.Flags().StringSliceVar(&attrs, "attrs", nil, "attribute names to include")
	cmd.Flags().StringSliceVar(&prioritizedAttrs, "prioritized-attrs", nil, "up to 6 prioritized attribute names")
	cmd.Flags().BoolVar(&priorityOrderMode, "priority-order", false, "rank results by priority-order mode instead of score")

	return cmd
}
