package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sangkips/invoicer/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logger.Must(os.Getenv("APP_ENV"), os.Getenv("APP_DEBUG") == "true")
	defer log.Sync()

	if err := newApp(log).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "invoicectl:", err)
		os.Exit(1)
	}
}
