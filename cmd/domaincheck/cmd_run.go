package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"domaincheck/internal/check"
	"domaincheck/internal/model"

	"github.com/spf13/cobra"
)

var errChecksFailed = errors.New("checks failed")

func newCmdRun(a *app) *cobra.Command {
	var only []string
	var format string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the check suite once, sequentially",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.runner()
			if err != nil {
				return err
			}
			selected := check.Filter(r.Checks, only)
			if len(selected) == 0 {
				return fmt.Errorf("no checks match %v", only)
			}

			report := r.RunChecks(cmd.Context(), selected)
			if err := writeReport(cmd.OutOrStdout(), report, format); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d failed, %d errored", errChecksFailed, report.Failed, report.Errored)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&only, "only", nil, "Run only checks whose name starts with one of these prefixes")
	cmd.Flags().StringVarP(&format, "format", "o", "text", "Output format (text|json)")
	return cmd
}

func writeReport(w io.Writer, report *model.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, res := range report.Results {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", res.Status, res.Name, res.Duration.Round(time.Millisecond))
			if res.Message != "" {
				fmt.Fprintf(tw, "\t  %s\t\n", res.Message)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%d passed, %d failed, %d errored in %s\n",
			report.Passed, report.Failed, report.Errored, report.Elapsed.Round(time.Millisecond))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
