package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/uzarakhq/bpsr-uza-modules/capture"
	"github.com/uzarakhq/bpsr-uza-modules/control"
)

func newCaptureCmd() *cobra.Command {
	var (
		ifaceName         string
		category          string
		attrs             []string
		prioritizedAttrs  []string
		priorityOrderMode bool
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture live game traffic and report module combinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			bus := control.New(cfg)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			serveMetrics(ctx, cfg.MetricsAddr)

			if ifaceName == "" {
				ifaces, err := capture.ListInterfaces()
				if err != nil {
					return err
				}

				ni, ok := capture.DefaultInterface(ifaces)
				if !ok {
					return errors.New("no capture interface found")
				}

				ifaceName = ni.Name
			}

			req := control.StartMonitoringRequest{
				InterfaceName: ifaceName,
				ScreenRequest: control.ScreenRequest{
					Category:          category,
					Attributes:        attrs,
					PrioritizedAttrs:  prioritizedAttrs,
					PriorityOrderMode: priorityOrderMode,
				},
			}

			if err := bus.StartMonitoring(req); err != nil {
				return err
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

			go func() {
				<-sigs
				bus.StopMonitoring()

				if bus.HasCapturedData() {
					_ = bus.RescreenModules(req.ScreenRequest)
				}
			}()

			printEvents(bus)

			return nil
		},
	}

	cmd.Flags().StringVar(&ifaceName, "interface", "", "capture interface name (default: auto-detected)")
	cmd.Flags().StringVar(&category, "category", "All", "module category: Attack, Guard, Support, or All")
	cmd.Flags().StringSliceVar(&attrs, "attrs", nil, "attribute names to include")
	cmd.Flags().StringSliceVar(&prioritizedAttrs, "prioritized-attrs", nil, "up to 6 prioritized attribute names")
	cmd.Flags().BoolVar(&priorityOrderMode, "priority-order", false, "rank results by priority-order mode instead of score")

	return cmd
}
