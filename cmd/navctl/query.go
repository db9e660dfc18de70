package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okian/olympicsnav/internal/domain/types"
	"github.com/spf13/cobra"
)

func newQueryCmd(g *globals) *cobra.Command {
	var (
		season, sport, event, year string
		countries, medals          []string
		offset, limit              int
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "List medal records matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := types.DefaultState().
				WithSeason(types.ParseSelection(season)).
				WithSport(types.ParseSelection(sport)).
				WithEvent(types.ParseSelection(event)).
				WithYear(types.ParseSelection(year)).
				WithCountries(types.ParseMulti(countries)).
				WithMedals(types.ParseMulti(medals))

			page, err := g.client().Records(cmd.Context(), state, offset, limit)
			if err != nil {
				return err
			}
			return emit(g.out, g.output, page, func(w *tabwriter.Writer) {
				row(w, "YEAR", "SEASON", "SPORT", "EVENT", "NOC", "MEDAL", "NAME")
				for _, r := range page.Records {
					row(w, r.Year, string(r.Season), r.Sport, r.Event, r.Country, string(r.Medal), r.Name)
				}
				fmt.Fprintf(w, "\n%d of %d records from offset %d\n", len(page.Records), page.Total, page.Offset)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&season, "season", "*", "Summer, Winter or *")
	f.StringVar(&sport, "sport", "*", "Sport name or *")
	f.StringVar(&event, "event", "*", "Event name or *")
	f.StringVar(&year, "year", "*", "Four digit year or *")
	f.StringArrayVar(&countries, "country", nil, "NOC code; repeat for several, * for All")
	f.StringArrayVar(&medals, "medal", nil, "Gold, Silver or Bronze; repeat for several, * for All")
	f.IntVar(&offset, "offset", 0, "Rows to skip")
	f.IntVar(&limit, "limit", 0, "Rows to return (0 for the server default)")
	return cmd
}

func newOptionsCmd(g *globals) *cobra.Command {
	var season, sport string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show the option lists for a season and sport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := g.client().Options(cmd.Context(), types.ParseSelection(season), types.ParseSelection(sport))
			if err != nil {
				return err
			}
			return emit(g.out, g.output, opts, func(w *tabwriter.Writer) {
				row(w, "FILTER", "COUNT", "OPTIONS")
				for _, l := range []struct {
					name string
					list types.OptionList
				}{
					{"season", opts.Seasons},
					{"sport", opts.Sports},
					{"event", opts.Events},
					{"country", opts.Countries},
					{"medal", opts.Medals},
					{"year", opts.Years},
				} {
					row(w, l.name, strconv.Itoa(len(l.list.Values())), strings.Join(l.list.Labels(), ", "))
				}
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "*", "Summer, Winter or *")
	cmd.Flags().StringVar(&sport, "sport", "*", "Sport name or *")
	return cmd
}
