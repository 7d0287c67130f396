// Package main plays the escape game in a terminal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	terminalcmd "github.com/louisbranch/ontsnapping/internal/cmd/terminal"
	entrypoint "github.com/louisbranch/ontsnapping/internal/platform/cmd"
	"github.com/louisbranch/ontsnapping/internal/platform/config"
)

func main() {
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceTerminal))
	cfg, err := terminalcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := terminalcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("terminal: %v", err)
	}
}
