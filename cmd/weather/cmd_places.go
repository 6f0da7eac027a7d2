package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexivanou/geoweather/internal/search"
	"github.com/alexivanou/geoweather/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search [name]",
	Short: "Search places by name",
	Long: `Search places by name. With --interactive, every line read from stdin
is a new query; typing ":retry" repeats the last failed search.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List places close to a coordinate",
	RunE:  runNearby,
}

func init() {
	searchCmd.Flags().BoolP("interactive", "i", false, "Read queries from stdin as you type")

	nearbyCmd.Flags().Float64("lat", 0, "Latitude")
	nearbyCmd.Flags().Float64("lon", 0, "Longitude")
	nearbyCmd.MarkFlagRequired("lat")
	nearbyCmd.MarkFlagRequired("lon")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(nearbyCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive {
		return runInteractiveSearch(cmd)
	}
	if len(args) == 0 {
		return errors.New("a place name is required")
	}

	places, err := app.svc.SearchPlaces(cmd.Context(), args[0])
	if err != nil {
		return errors.New(service.MessageOf(err))
	}
	printPlaces(cmd.OutOrStdout(), places)
	return nil
}

func runInteractiveSearch(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	debouncer := search.NewDebouncer(app.svc, app.cfg.Search.MinLength, app.cfg.Search.Debounce, app.logger)
	done := make(chan error, 1)
	go func() { done <- debouncer.Run(ctx) }()

	go func() {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == ":retry" {
				debouncer.Retry()
				continue
			}
			debouncer.Submit(line)
		}
		// Answer the last query before exiting on end of input
		if err := debouncer.Flush(ctx); err != nil {
			app.logger.Debug("search flush interrupted", zap.Error(err))
		}
		cancel()
	}()

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			// Flush publishes the final state before returning
			select {
			case state := <-debouncer.States():
				printSearchState(out, state)
			default:
			}
			return <-done
		case state := <-debouncer.States():
			printSearchState(out, state)
		}
	}
}

func printSearchState(out io.Writer, state search.State) {
	switch s := state.(type) {
	case search.Loading:
		fmt.Fprintf(out, "Searching %q...\n", s.Query)
	case search.Success:
		printPlaces(out, s.Places)
	case search.Failure:
		fmt.Fprintln(out, s.Message)
	}
}

func runNearby(cmd *cobra.Command, args []string) error {
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")

	places, err := app.svc.GetNearbyPlaces(cmd.Context(), lat, lon)
	if err != nil {
		return errors.New(service.MessageOf(err))
	}
	printPlaces(cmd.OutOrStdout(), places)
	return nil
}
