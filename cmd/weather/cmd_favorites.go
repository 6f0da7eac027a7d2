package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alexivanou/geoweather/internal/refresh"
	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favorite places",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites with their cached weather",
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add the first search result for a name to favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle [name]",
	Short: "Add or remove the first search result for a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesToggle,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a favorite by place id",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow favorites and keep their weather up to date",
	RunE:  runFavoritesWatch,
}

func init() {
	favoritesWatchCmd.Flags().Bool("refresh", false, "Refresh every favorite on start")

	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesWatchCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	views, err := app.svc.ListFavorites(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}
	printFavorites(cmd.OutOrStdout(), views, nil)
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	place, err := firstPlace(cmd, args[0])
	if err != nil {
		return err
	}
	if err := app.svc.AddFavorite(cmd.Context(), place); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d)\n", placeLabel(place), place.ID)
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	place, err := firstPlace(cmd, args[0])
	if err != nil {
		return err
	}
	added, err := app.svc.ToggleFavorite(cmd.Context(), place)
	if err != nil {
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if added {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d)\n", placeLabel(place), place.ID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d)\n", placeLabel(place), place.ID)
	}
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid place id %q", args[0])
	}
	ok, err := app.svc.IsFavorite(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to check favorite: %w", err)
	}
	if !ok {
		return fmt.Errorf("place %d is not a favorite", id)
	}
	if err := app.svc.RemoveFavorite(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", id)
	return nil
}

func runFavoritesWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	coordinator := refresh.NewCoordinator(app.svc, app.logger)
	done := make(chan error, 1)
	go func() { done <- coordinator.Run(ctx) }()

	if refreshAll, _ := cmd.Flags().GetBool("refresh"); refreshAll {
		coordinator.RefreshAll()
	}

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return <-done
		case state := <-coordinator.Updates():
			loading := make(map[int]bool, len(state.Loading))
			for _, id := range state.Loading {
				loading[id] = true
			}
			fmt.Fprintln(out)
			printFavorites(out, state.Favorites, loading)
		}
	}
}
