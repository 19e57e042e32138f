package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agreementchain/agreements/internal/cli"
	"github.com/agreementchain/agreements/internal/cli/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cli.InitApp).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err))
		stop()
		os.Exit(1)
	}
}
