package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/naka-gawa/github-adoption/cmd"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.SetVersion(version)
	cmd.Execute(ctx)
}
