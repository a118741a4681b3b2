package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
	"github.com/yanqian/lunar-calendar/pkg/util"
)

func newGridCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Render the illumination grid for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			loc := rt.location()
			resp, err := rt.svc.Calendar(cmd.Context(), lunar.CalendarRequest{
				Year:      year,
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
				Preset:    rt.v.GetString("preset"),
			})
			if err != nil {
				return err
			}
			if rt.v.GetBool("json") {
				return writeJSON(rt, resp)
			}
			_, err = fmt.Fprintln(rt.out, NewRenderer(rt.out).Grid(resp))
			return err
		},
	}
	cmd.Flags().Int("year", util.NowUTC().Year(), "calendar year")
	return cmd
}

func newDayCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show illumination and phase for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			month, _ := cmd.Flags().GetInt("month")
			day, _ := cmd.Flags().GetInt("day")
			loc := rt.location()
			payload, err := rt.svc.Inspect(cmd.Context(), lunar.InspectRequest{
				Year:      year,
				Month:     month - 1,
				Day:       day,
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
			})
			if err != nil {
				return err
			}
			if rt.v.GetBool("json") {
				return writeJSON(rt, payload)
			}
			_, err = fmt.Fprintln(rt.out, NewRenderer(rt.out).Day(payload))
			return err
		},
	}
	now := util.NowUTC()
	cmd.Flags().Int("year", now.Year(), "calendar year")
	cmd.Flags().Int("month", int(now.Month()), "month, 1-12")
	cmd.Flags().Int("day", now.Day(), "day of month")
	return cmd
}

func newYearsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List selectable years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			years := rt.svc.Years()
			if rt.v.GetBool("json") {
				return writeJSON(rt, years)
			}
			for _, y := range years {
				if _, err := fmt.Fprintln(rt.out, y); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newLocationsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List preset locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := rt.svc.Presets(cmd.Context())
			if err != nil {
				return err
			}
			if rt.v.GetBool("json") {
				return writeJSON(rt, presets)
			}
			_, err = fmt.Fprintln(rt.out, NewRenderer(rt.out).Presets(presets))
			return err
		},
	}
}

func newPlaceCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "place",
		Short: "Reverse geocode --lat/--lng into a place name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			place, err := rt.svc.Place(cmd.Context(), rt.location())
			if err != nil {
				return err
			}
			if rt.v.GetBool("json") {
				return writeJSON(rt, place)
			}
			_, err = fmt.Fprintln(rt.out, place.Name)
			return err
		},
	}
}

func writeJSON(rt *runtime, v any) error {
	enc := json.NewEncoder(rt.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
