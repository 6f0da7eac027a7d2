package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weather",
	Short: "Weather lookup and favorite places from the terminal",
	Long: `weather searches places through Open-Meteo geocoding, shows their
forecast from a local cache refreshed every 30 minutes, and keeps a list of
favorite places with their latest weather.`,
	SilenceUsage: true,
}

// app is built once in main and shared by every command
var app *stack

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	app, err = newStack(ctx)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		app.Close()
		os.Exit(1)
	}
}
