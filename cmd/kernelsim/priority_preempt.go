package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/peterbourgon/ff/v3/ffcli"
)

// priorityPreemptCommand runs spec.md §8's priority-selection scenario: a
// low-priority background thread runs continuously while a high-priority
// thread sleeps and wakes periodically, demonstrating that the scheduler
// always prefers the highest-priority runnable thread over the one that
// happened to be running already.
func priorityPreemptCommand(configPath *string, ticks *int) *ffcli.Command {
	fs := flag.NewFlagSet("kernelsim priority-preempt", flag.ExitOnError)
	return &ffcli.Command{
		Name:      "priority-preempt",
		ShortHelp: "Run a priority-preemption scenario",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return runPriorityPreempt(*configPath, *ticks)
		},
	}
}

func runPriorityPreempt(configPath string, ticks int) error {
	k, _, err := newSimKernel(configPath)
	if err != nil {
		return err
	}
	k.Init()

	background := func() {
		for {
			k.Sleep(1)
		}
	}
	urgent := func() {
		for {
			fmt.Printf("urgent: woke at tick %d\n", k.GetSysTime())
			k.Sleep(10)
		}
	}

	if err := k.AddThread(background, 5, "background", 1); err != nil {
		return err
	}
	if err := k.AddThread(urgent, 0, "urgent", 2); err != nil {
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
