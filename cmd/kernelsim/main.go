// Command kernelsim is a host-side driver for the kernel package: it wires
// a kernel.Kernel to the simtrampoline.Goroutine trampoline, loads a handful
// of demonstration threads, and runs a tick loop, following the sg CLI's
// ffcli.Command convention for its subcommands (scenario selection and
// run duration) rather than the stdlib flag package directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/sourcegraph/log"
	"golang.org/x/time/rate"

	"github.com/g8rtos/kernel/kernel"
	"github.com/g8rtos/kernel/simtrampoline"

	_ "github.com/joho/godotenv/autoload"
)

var baseLogger log.Logger

func main() {
	liblog := log.Init(log.Resource{Name: "kernelsim"})
	defer liblog.Sync()
	baseLogger = log.Scoped("kernelsim", "host simulator for the kernel package")

	rootFlagSet := flag.NewFlagSet("kernelsim", flag.ExitOnError)
	configPath := rootFlagSet.String("config", "", "path to a kernel config JSON file (defaults to the built-in capacity limits)")
	ticks := rootFlagSet.Int("ticks", 200, "number of ticks to run the simulated kernel for")

	root := &ffcli.Command{
		Name:       "kernelsim",
		ShortUsage: "kernelsim [flags] <subcommand>",
		ShortHelp:  "Run demonstration scenarios against the kernel package on top of the goroutine trampoline",
		FlagSet:    rootFlagSet,
		Subcommands: []*ffcli.Command{
			producerConsumerCommand(configPath, ticks),
			priorityPreemptCommand(configPath, ticks),
			periodicCommand(configPath, ticks),
			serveCommand(configPath),
		},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}

	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSimKernel(configPath string) (*kernel.Kernel, *simtrampoline.Goroutine, error) {
	cfg, err := kernel.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	trampoline := simtrampoline.NewGoroutine()
	k, err := kernel.New(cfg, trampoline, trampoline, baseLogger)
	if err != nil {
		return nil, nil, err
	}
	k.Init()
	return k, trampoline, nil
}

// runTicks drives n ticks paced at 20x tickRate (sped up so a terminal
// demo run finishes in a reasonable time), using a
// golang.org/x/time/rate.Limiter the same way internal/ratelimit wraps one
// for outbound request pacing, just applied to tick delivery instead.
func runTicks(k *kernel.Kernel, n int, tickRate int) {
	limiter := rate.NewLimiter(rate.Limit(tickRate)*20, 1)
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_ = limiter.Wait(ctx)
		k.Tick()
	}
}
