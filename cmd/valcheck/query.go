package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mercator-hq/valcheck/pkg/analysis/report"
	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/analysis/search"
	"mercator-hq/valcheck/pkg/cli"
)

type queryOptions struct {
	criteriaFile string
	kinds        []string
	severities   []string
	fields       []string
	errorCodes   []string
	conditions   []string
	properties   []string
	lookupKeys   []string
	cultures     []string
	services     []string
	prune        bool
	first        bool
	count        bool
	format       string
}

// queryMatches is the query outcome for one file.
type queryMatches struct {
	File    string              `json:"file"`
	Count   int                 `json:"count"`
	Matches []report.Diagnostic `json:"matches,omitempty"`
}

func newQueryCmd(a *app) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query [files or directories...]",
		Short: "Search the diagnostic trees of configurations",
		Long: `Analyze configurations and print the diagnostic tree nodes that match
every given criterion. Values within one criterion are alternatives and
compare case-insensitively. Nodes that do not carry a criterion's attribute
are not excluded by it.

Criteria may also be read from a YAML file with the same keys as the
output.queries entries of the tool configuration.

Examples:
  # Every error concerning the Currency lookup key
  valcheck query --lookup-key Currency --severity error configs/

  # Count parser diagnostics for the French culture
  valcheck query --service parser --culture fr --count configs/

  # First rule using an unknown condition, as JSON
  valcheck query --kind condition --severity error --first --format json signup.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.criteriaFile, "criteria", "", "YAML file holding search criteria")
	flags.StringSliceVar(&opts.kinds, "kind", nil, "node kinds")
	flags.StringSliceVar(&opts.severities, "severity", nil, "severities: info, warning, error")
	flags.StringSliceVar(&opts.fields, "field", nil, "field names")
	flags.StringSliceVar(&opts.errorCodes, "error-code", nil, "rule error codes")
	flags.StringSliceVar(&opts.conditions, "condition-type", nil, "condition types")
	flags.StringSliceVar(&opts.properties, "property", nil, "property names")
	flags.StringSliceVar(&opts.lookupKeys, "lookup-key", nil, "lookup keys")
	flags.StringSliceVar(&opts.cultures, "culture", nil, "culture ids")
	flags.StringSliceVar(&opts.services, "service", nil, "service names")
	flags.BoolVar(&opts.prune, "prune", false, "skip the subtree of a node that does not match")
	flags.BoolVar(&opts.first, "first", false, "report only the first match per file")
	flags.BoolVar(&opts.count, "count", false, "print only match counts")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text, json")

	return cmd
}

// criteria merges the criteria file with the flags.
func (o *queryOptions) criteria() (search.Criteria, error) {
	var c search.Criteria
	if o.criteriaFile != "" {
		data, err := os.ReadFile(o.criteriaFile)
		if err != nil {
			return c, err
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse criteria file %q: %w", o.criteriaFile, err)
		}
	}

	for _, k := range o.kinds {
		c.Kinds = append(c.Kinds, results.Kind(k))
	}
	for _, s := range o.severities {
		c.Severities = append(c.Severities, results.Severity(s))
	}
	c.FieldNames = append(c.FieldNames, o.fields...)
	c.ErrorCodes = append(c.ErrorCodes, o.errorCodes...)
	c.ConditionTypes = append(c.ConditionTypes, o.conditions...)
	c.PropertyNames = append(c.PropertyNames, o.properties...)
	c.LookupKeys = append(c.LookupKeys, o.lookupKeys...)
	c.CultureIDs = append(c.CultureIDs, o.cultures...)
	c.ServiceNames = append(c.ServiceNames, o.services...)
	if o.prune {
		c.SkipChildrenIfParentMismatch = true
	}

	return c, c.Validate()
}

func (a *app) runQuery(cmd *cobra.Command, args []string, opts *queryOptions) error {
	format, err := cli.ParseOutputFormat(opts.format)
	if err != nil {
		return cli.NewCommandError("query", err)
	}
	criteria, err := opts.criteria()
	if err != nil {
		return cli.NewCommandError("query", err)
	}

	files, err := cli.CollectFiles(args, a.cfg.Watch.Extensions)
	if err != nil {
		return cli.NewCommandError("query", err)
	}
	runner, err := cli.NewRunner(a.cfg, a.logger, nil)
	if err != nil {
		return cli.NewCommandError("query", err)
	}
	runner.Queries = []report.Query{{Name: "query", Criteria: criteria}}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	fileResults, err := runner.AnalyzeFiles(ctx, files, nil)
	if err != nil {
		return cli.NewCommandError("query", err)
	}
	printLoadErrors(cmd.ErrOrStderr(), fileResults)

	var out []queryMatches
	for _, r := range fileResults {
		if r.Report == nil {
			continue
		}
		qr := r.Report.Queries[0]
		m := queryMatches{File: r.Path, Count: qr.Count, Matches: qr.Matches}
		if opts.first && len(m.Matches) > 1 {
			m.Matches = m.Matches[:1]
			m.Count = 1
		}
		if opts.count {
			m.Matches = nil
		}
		out = append(out, m)
	}

	if format == cli.FormatJSON {
		if out == nil {
			out = []queryMatches{}
		}
		if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), out); err != nil {
			return cli.NewCommandError("query", err)
		}
	} else {
		printQueryMatches(cmd.OutOrStdout(), out)
	}

	if n := countLoadErrors(fileResults); n > 0 {
		return cli.NewCommandError("query", fmt.Errorf("%d of %d file(s) could not be analyzed", n, len(fileResults)))
	}
	return nil
}

func printQueryMatches(w io.Writer, all []queryMatches) {
	for _, m := range all {
		fmt.Fprintf(w, "%s: %d match(es)\n", m.File, m.Count)
		for _, d := range m.Matches {
			severity := string(d.Severity)
			if severity == "" {
				severity = "-"
			}
			fmt.Fprintf(w, "  %-7s %s\n", severity, d.Path.String())
			if d.Message != "" {
				fmt.Fprintf(w, "          %s\n", d.Message)
			}
		}
	}
}

func countLoadErrors(all []cli.FileResult) int {
	n := 0
	for _, r := range all {
		if r.Err != nil {
			n++
		}
	}
	return n
}
