package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const wordWrap = 80

func newPagesCmd(g *globals) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "pages [slug]",
		Short: "List the informational pages, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			if len(args) == 0 {
				pages, err := c.Pages(cmd.Context())
				if err != nil {
					return err
				}
				return emit(g.out, g.output, pages, func(w *tabwriter.Writer) {
					row(w, "SLUG", "TAB", "TITLE", "IMAGES")
					for _, p := range pages {
						row(w, p.Slug, p.Tab, p.Title, strconv.Itoa(len(p.Images)))
					}
				})
			}

			page, err := c.Page(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if g.output != outputTable {
				return emit(g.out, g.output, page, nil)
			}
			opt := glamour.WithAutoStyle()
			if style != "auto" {
				opt = glamour.WithStandardStyle(style)
			}
			r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(wordWrap))
			if err != nil {
				return fmt.Errorf("renderer: %w", err)
			}
			text, err := r.Render("# " + page.Title + "\n\n" + page.Body)
			if err != nil {
				return fmt.Errorf("render %s: %w", page.Slug, err)
			}
			_, err = fmt.Fprint(g.out, text)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "auto", "Terminal style: auto, dark, light or notty")
	return cmd
}

func newHostsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List host cities as map points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			points, err := g.client().Hosts(cmd.Context())
			if err != nil {
				return err
			}
			return emit(g.out, g.output, points, func(w *tabwriter.Writer) {
				row(w, "EDITION", "SEASON", "CITY", "COUNTRY", "LAT", "LON", "GEOHASH")
				for _, p := range points {
					row(w, p.Edition, string(p.Season), p.City, p.Country,
						strconv.FormatFloat(p.Latitude, 'f', 2, 64),
						strconv.FormatFloat(p.Longitude, 'f', 2, 64),
						p.Geohash)
				}
			})
		},
	}
}
