package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aurex-audio/aurexgen/cmd/aurexgen/internal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := internal.Execute(ctx)
	stop()
	os.Exit(code)
}
