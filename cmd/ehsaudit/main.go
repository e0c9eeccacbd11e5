// Command ehsaudit renders and validates EHS action registers offline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ehsaudit/infrastructure/config"
	"ehsaudit/logging"
)

func main() {
	// A missing .env is fine for the CLI
	_ = godotenv.Load()

	logCfg := config.LoadLoggingConfigFromEnv()
	if os.Getenv("LOG_OUTPUT") == "" {
		logCfg.Output = "stderr"
	}
	logging.SetDefault(logging.NewLogger(logCfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
