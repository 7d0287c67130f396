// Package main probes the web service health endpoint and exits non-zero on failure.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	healthcheckcmd "github.com/louisbranch/ontsnapping/internal/cmd/healthcheck"
	entrypoint "github.com/louisbranch/ontsnapping/internal/platform/cmd"
	"github.com/louisbranch/ontsnapping/internal/platform/config"
)

func main() {
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceHealthcheck))
	cfg, err := healthcheckcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)

	if err := healthcheckcmd.Run(context.Background(), cfg); err != nil {
		config.Exitf("healthcheck failed: %v", err)
	}
}
