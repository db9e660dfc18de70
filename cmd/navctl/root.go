package main

import (
	"io"
	"os"
	"time"

	"github.com/okian/olympicsnav/internal/probe"
	"github.com/spf13/cobra"
)

const (
	defaultURL = "http://localhost:9080"
	envURL     = "OLYNAV_URL"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	url     string
	timeout time.Duration
	output  string
	out     io.Writer
}

func (g *globals) client() *probe.Client {
	return probe.NewClient(g.url, g.timeout)
}

// newRootCmd builds the command tree writing results to out.
func newRootCmd(out io.Writer) *cobra.Command {
	g := &globals{out: out}

	root := &cobra.Command{
		Use:   "navctl",
		Short: "Query an Olympics navigator server",
		Long: `navctl talks to a running navigator over its HTTP API.

Selections use "*" for All. Multi-selects repeat the flag:
  navctl query --season Summer --country USA --country GBR --medal Gold`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOutput(g.output)
		},
	}
	root.SetOut(out)

	url := os.Getenv(envURL)
	if url == "" {
		url = defaultURL
	}
	root.PersistentFlags().StringVar(&g.url, "url", url, "Navigator base URL (or set "+envURL+")")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", probe.DefaultTimeout, "HTTP request timeout")
	root.PersistentFlags().StringVarP(&g.output, "output", "o", outputTable, "Output format: table, json or yaml")

	root.AddCommand(newQueryCmd(g))
	root.AddCommand(newOptionsCmd(g))
	root.AddCommand(newPagesCmd(g))
	root.AddCommand(newHostsCmd(g))
	root.AddCommand(newProbeCmd(g))
	return root
}
