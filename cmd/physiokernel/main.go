package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalframe/physiokernel/event"
	"github.com/vitalframe/physiokernel/internal/klog"
	"github.com/vitalframe/physiokernel/organism"
	"github.com/vitalframe/physiokernel/sim"
	"github.com/vitalframe/physiokernel/snapshot"
)

func main() {
	var organismPath string
	var ticks int
	var parallel bool
	var heartRateBPM float64

	rootCmd := &cobra.Command{
		Use:   "physiokernel",
		Short: "physiokernel — discrete-event physiological simulation kernel",
		Long:  "A command-line driver for the physiokernel simulation kernel: loads an organism definition, runs its clock forward, and reports what fired.",
	}
	rootCmd.PersistentFlags().StringVar(&organismPath, "organism", "", "path to an organism definition YAML file (required)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "advance a simulation a fixed number of ticks and print what fired",
		RunE: func(cmd *cobra.Command, args []string) error {
			if organismPath == "" {
				return fmt.Errorf("--organism is required")
			}
			def, err := organism.LoadDefinition(organismPath)
			if err != nil {
				return err
			}

			var s *sim.Sim
			if parallel {
				s, err = sim.NewParallel(def)
			} else {
				s, err = sim.New(def)
			}
			if err != nil {
				return err
			}

			logger := klog.New("sim:" + s.InstanceID().String())

			if heartRateBPM > 0 {
				if _, err := s.ScheduleEvent(0, &event.HeartRate{BeatsPerMinute: heartRateBPM}); err != nil {
					return err
				}
			}

			for i := 0; i < ticks; i++ {
				fired := s.Advance()
				logger.Printf("tick %d: sim_time=%.3f fired=%d", i, s.Time(), len(fired))
				for _, e := range fired {
					fmt.Printf("  %T\n", e)
				}
			}

			snap := snapshot.Capture(s)
			out, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 10, "number of ticks to advance")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "run the per-component parallel execution mode")
	runCmd.Flags().Float64Var(&heartRateBPM, "seed-heart-rate", 0, "schedule an initial HeartRate event at this many beats per minute")
	rootCmd.AddCommand(runCmd)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "load and validate an organism definition without running a simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if organismPath == "" {
				return fmt.Errorf("--organism is required")
			}
			def, err := organism.LoadDefinition(organismPath)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d vessels, %d vessel edges, %d nerves, %d nerve edges\n",
				def.Name, len(def.Vessels), len(def.VesselEdges), len(def.Nerves), len(def.NerveEdges))
			return nil
		},
	}
	rootCmd.AddCommand(validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
