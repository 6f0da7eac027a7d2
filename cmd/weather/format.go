package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
)

func placeLabel(p model.Place) string {
	parts := []string{p.Name}
	if p.Admin1 != nil && *p.Admin1 != "" {
		parts = append(parts, *p.Admin1)
	}
	if p.Country != "" {
		parts = append(parts, p.Country)
	}
	return strings.Join(parts, ", ")
}

func printPlaces(w io.Writer, places []model.Place) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tPLACE\tLAT\tLON")
	for i, p := range places {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.4f\t%.4f\n", i+1, p.ID, placeLabel(p), p.Latitude, p.Longitude)
	}
	tw.Flush()
}

func printSnapshot(w io.Writer, s model.WeatherSnapshot, now time.Time, freshness time.Duration, hourly bool) {
	fmt.Fprintf(w, "%s  %s\n", s.PlaceName, s.Condition)
	fmt.Fprintf(w, "  Temperature: %.1f°C (feels like %.1f°C)\n", s.CurrentTemperature, s.ApparentTemperature)
	fmt.Fprintf(w, "  Min / Max:   %.1f°C / %.1f°C\n", s.MinTemperature, s.MaxTemperature)
	fmt.Fprintf(w, "  Wind:        %.1f km/h\n", s.WindSpeed)
	fmt.Fprintf(w, "  Humidity:    %d%%\n", s.Humidity)
	fmt.Fprintf(w, "  Rain:        %.1f mm\n", s.Precipitation)

	age := s.Age(now).Truncate(time.Minute)
	switch {
	case !s.IsFresh(now, freshness):
		fmt.Fprintf(w, "  Updated %s ago (stale)\n", age)
	case s.NearExpiration(now, freshness):
		fmt.Fprintf(w, "  Updated %s ago, expires in %s\n", age, s.ExpiresIn(now, freshness).Truncate(time.Second))
	default:
		fmt.Fprintf(w, "  Updated %s ago\n", age)
	}

	if !hourly || len(s.Hourly) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  TIME\tTEMP\tHUM\tWIND\tRAIN")
	for _, h := range s.Hourly {
		fmt.Fprintf(tw, "  %s\t%.1f\t%d%%\t%.1f\t%.1f\n", h.Time, h.Temperature, h.Humidity, h.WindSpeed, h.Precipitation)
	}
	tw.Flush()
}

func printFavorites(w io.Writer, views []model.FavoriteView, loading map[int]bool) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No favorites yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLACE\tWEATHER\tUPDATED")
	for _, v := range views {
		weather, updated := "-", "-"
		if v.Weather != nil {
			weather = fmt.Sprintf("%.1f°C %s", v.Weather.CurrentTemperature, v.Weather.Condition)
			updated = v.Weather.CapturedAt.Local().Format("15:04")
		}
		if loading[v.Place.ID] {
			updated = "loading..."
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.Place.ID, placeLabel(v.Place), weather, updated)
	}
	tw.Flush()
}
