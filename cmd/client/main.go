package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"Inventaris/internal/cli/auth"
	"Inventaris/internal/cli/commands"
	"Inventaris/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, flag.Args())
	cancel()
	os.Exit(code)
}

// run исполняет одну команду invcli и возвращает код выхода.
func run(ctx context.Context, cfg *config.Config, args []string) int {
	if cfg.Version {
		printVersion(commands.Out, cfg)
		return 0
	}
	return commands.Dispatch(ctx, cfg, args)
}

// printVersion печатает сборку, адрес сервера и состояние сессии.
func printVersion(w io.Writer, cfg *config.Config) {
	session := "logged in"
	if _, err := auth.LoadToken(cfg.TokenFile); err != nil {
		session = "not logged in"
	}
	fmt.Fprintf(w, "Inventaris CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
	fmt.Fprintf(w, "Server: %s\nToken file: %s (%s)\n", cfg.ServerURL, cfg.TokenFile, session)
}
