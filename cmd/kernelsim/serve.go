package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/g8rtos/kernel/debugserver"
	"github.com/g8rtos/kernel/kernel"
)

// serveCommand boots the producer/consumer scenario and keeps it running
// under a glock-driven SysTick instead of a fixed tick count, serving a
// debug HTTP endpoint alongside it. The tick loop and the HTTP server are
// two long-running goroutines with independent failure modes, so they're
// managed with an errgroup.Group the same way the teacher repo's services
// run their background routines and HTTP listener side by side: either one
// exiting tears down the other.
func serveCommand(configPath *string) *ffcli.Command {
	fs := flag.NewFlagSet("kernelsim serve", flag.ExitOnError)
	addr := fs.String("http-addr", "127.0.0.1:6061", "bind address for the debug HTTP server")
	return &ffcli.Command{
		Name:      "serve",
		ShortHelp: "Run the producer/consumer scenario under a real-time tick source with a debug HTTP server",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return runServe(ctx, *configPath, *addr)
		},
	}
}

func runServe(ctx context.Context, configPath, addr string) error {
	k, _, err := newSimKernel(configPath)
	if err != nil {
		return err
	}

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
			if v, err := k.ReadFIFO(0); err == nil {
				fmt.Println("consumer: read", v)
			}
		}
	}
	if err := k.AddThread(producer, 2, "producer", 1); err != nil {
		return err
	}
	if err := k.AddThread(consumer, 1, "consumer", 2); err != nil {
		return err
	}

	prometheus.DefaultRegisterer.MustRegister(k.MetricsCollectors()...)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	server := &http.Server{Handler: debugserver.NewHandler(k)}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return k.Launch()
	})
	group.Go(func() error {
		tick := kernel.NewSysTick(groupCtx, k, baseLogger)
		tick.Start()
		return nil
	})
	group.Go(func() error {
		fmt.Printf("debug server listening on http://%s\n", addr)
		err := server.Serve(listener)
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return server.Close()
	})

	return group.Wait()
}
