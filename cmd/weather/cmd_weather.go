package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/alexivanou/geoweather/internal/service"
	"github.com/spf13/cobra"
)

var weatherCmd = &cobra.Command{
	Use:   "weather [name]",
	Short: "Show the weather for a place",
	Long: `Show the weather for a place, either the first search result for a name
or an explicit coordinate given with --lat, --lon and --id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWeather,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete weather snapshots past the retention period",
	RunE:  runSweep,
}

func init() {
	weatherCmd.Flags().Float64("lat", 0, "Latitude")
	weatherCmd.Flags().Float64("lon", 0, "Longitude")
	weatherCmd.Flags().Int("id", 0, "Place id used as cache key")
	weatherCmd.Flags().String("label", "", "Place name shown with the forecast")
	weatherCmd.Flags().Bool("hourly", false, "Print the hourly forecast")
	weatherCmd.MarkFlagsRequiredTogether("lat", "lon", "id")

	rootCmd.AddCommand(weatherCmd)
	rootCmd.AddCommand(sweepCmd)
}

func runWeather(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	hourly, _ := cmd.Flags().GetBool("hourly")

	var place model.Place
	if len(args) == 1 {
		p, err := firstPlace(cmd, args[0])
		if err != nil {
			return err
		}
		place = p
	} else {
		if !cmd.Flags().Changed("id") {
			return errors.New("a place name or --lat, --lon and --id are required")
		}
		place.Latitude, _ = cmd.Flags().GetFloat64("lat")
		place.Longitude, _ = cmd.Flags().GetFloat64("lon")
		place.ID, _ = cmd.Flags().GetInt("id")
		place.Name, _ = cmd.Flags().GetString("label")
	}

	snapshot, err := app.svc.GetWeather(ctx, place.Latitude, place.Longitude, place.ID, place.Name)
	if err != nil {
		return errors.New(service.MessageOf(err))
	}
	printSnapshot(cmd.OutOrStdout(), snapshot, time.Now(), app.svc.Freshness(), hourly)
	return nil
}

func firstPlace(cmd *cobra.Command, name string) (model.Place, error) {
	places, err := app.svc.SearchPlaces(cmd.Context(), name)
	if err != nil {
		return model.Place{}, errors.New(service.MessageOf(err))
	}
	return places[0], nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	deleted, err := app.svc.SweepCache(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to sweep cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d snapshot(s) older than %s\n", deleted, app.cfg.Cache.Retention)
	return nil
}
