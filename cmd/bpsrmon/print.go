package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/evilsocket/islazy/tui"

	"github.com/uzarakhq/bpsr-uza-modules/control"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

// printEvents drains bus events to stdout until monitoringStopped,
// printing progress lines and a result table for resultsReady
// (spec.md §4.12 status message catalogue).
func printEvents(bus *control.Bus) {
	for ev := range bus.Events() {
		switch ev.Kind {
		case control.EventProgress:
			fmt.Println(ev.Message)
		case control.EventDataCaptured:
			fmt.Println("Found container packet")
		case control.EventResultsReady:
			printSolutions(ev.Solutions)
		case control.EventMonitoringStopped:
			fmt.Println("monitoring stopped")
			return
		}
	}
}

func printSolutions(solutions []types.ModuleSolution) {
	rows := make([][]string, 0, len(solutions))

	for _, sol := range solutions {
		names := make([]string, 0, 4)
		for _, m := range sol.Modules {
			names = append(names, m.Name)
		}

		rows = append(rows, []string{
			fmt.Sprint(names),
			strconv.FormatUint(uint64(sol.Score), 10),
			strconv.FormatFloat(sol.OptimizationScore, 'f', 1, 64),
		})
	}

	tui.Table(os.Stdout, []string{"Modules", "Score", "Fitness"}, rows)
}
