package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/soundprediction/go-askagent/cmd/askagent"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := askagent.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
