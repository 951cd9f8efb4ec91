package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/orchestra-io/orchestra/cmd/orchestra-api/app"
	"github.com/orchestra-io/orchestra/cmd/orchestra-api/app/options"
	"github.com/orchestra-io/orchestra/internal/version"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		klog.Info("Received shutdown signal")
		cancel()
	}()

	opts := options.NewOptions()
	opts.AddFlags(pflag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	if err := options.ApplyEnv(pflag.CommandLine, os.LookupEnv); err != nil {
		klog.Fatalf("Invalid environment: %v", err)
	}

	if err := opts.Validate(); err != nil {
		klog.Fatalf("Invalid options: %v", err)
	}

	c, err := opts.Config()
	if err != nil {
		klog.Fatalf("Failed to create config: %v", err)
	}

	klog.Infof("Orchestra API %s", version.Get())

	a, err := app.NewBuilder().
		WithConfig(c).
		Build()
	if err != nil {
		klog.Fatalf("Failed to build application: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		klog.Fatalf("Application failed: %v", err)
	}
}
