package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kobzarvs/docassist/internal/cli"
	"github.com/kobzarvs/docassist/internal/logger"
)

func main() {
	if err := logger.Init(os.Getenv("DOCASSIST_DEBUG") != ""); err != nil {
		fmt.Fprintln(os.Stderr, "docassist: logging disabled:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "docassist:", err)
		os.Exit(1)
	}
}
