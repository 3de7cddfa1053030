package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/g8rtos/kernel/kernel"
)

// producerConsumerCommand runs spec.md §8's producer/consumer FIFO
// scenario: a producer thread writes increasing integers into FIFO 0, a
// consumer thread reads and prints them, both gated by a semaphore that
// counts filled slots so the consumer sleeps rather than busy-waits.
func producerConsumerCommand(configPath *string, ticks *int) *ffcli.Command {
	fs := flag.NewFlagSet("kernelsim producer-consumer", flag.ExitOnError)
	return &ffcli.Command{
		Name:      "producer-consumer",
		ShortHelp: "Run a producer/consumer FIFO scenario",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return runProducerConsumer(*configPath, *ticks)
		},
	}
}

func runProducerConsumer(configPath string, ticks int) error {
	k, _, err := newSimKernel(configPath)
	if err != nil {
		return err
	}
	k.Init()

	if err := k.InitFIFO(0); err != nil {
		return err
	}

	filled := &kernel.Semaphore{}
	k.InitSemaphore(filled, 0)

	producer := func() {
		var n int32
		for {
			if err := k.WriteFIFO(0, n); err == nil {
				n++
				k.SignalSemaphore(filled)
			}
			k.Sleep(5)
		}
	}
	consumer := func() {
		for {
			k.WaitSemaphore(filled)
			v, err := k.ReadFIFO(0)
			if err == nil {
				fmt.Printf("consumer: read %d\n", v)
			}
		}
	}

	if err := k.AddThread(producer, 2, "producer", 1); err != nil {
		return err
	}
	if err := k.AddThread(consumer, 1, "consumer", 2); err != nil {
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
