package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/peterbourgon/ff/v3/ffcli"
)

// periodicCommand runs spec.md §8's periodic-dispatch scenario: a tick-
// driven handler runs every period ticks, interleaved with one ordinary
// thread, demonstrating that AddPeriodicEvent handlers fire synchronously
// inside Tick without needing their own thread.
func periodicCommand(configPath *string, ticks *int) *ffcli.Command {
	fs := flag.NewFlagSet("kernelsim periodic", flag.ExitOnError)
	period := fs.Int("period", 20, "tick interval between periodic handler invocations")
	return &ffcli.Command{
		Name:      "periodic",
		ShortHelp: "Run a periodic-dispatch scenario",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return runPeriodic(*configPath, *ticks, *period)
		},
	}
}

func runPeriodic(configPath string, ticks, period int) error {
	k, _, err := newSimKernel(configPath)
	if err != nil {
		return err
	}
	k.Init()

	heartbeat := func() {
		fmt.Printf("heartbeat: tick %d\n", k.GetSysTime())
	}
	if err := k.AddPeriodicEvent(heartbeat, uint32(period), 0); err != nil {
		return err
	}

	idle := func() {
		for {
			k.Sleep(1)
		}
	}
	if err := k.AddThread(idle, 1, "idle", 1); err != nil {
		return err
	}

	go func() {
		if err := k.Launch(); err != nil {
			fmt.Println("launch error:", err)
		}
	}()

	runTicks(k, ticks, k.TickRateHertz())
	return nil
}
