package main

import (
	"fmt"
	"text/tabwriter"

	"domaincheck/internal/check"

	"github.com/spf13/cobra"
)

func newCmdList(a *app) *cobra.Command {
	var only []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the checks derived from the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks, err := a.catalog()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range check.Filter(checks, only) {
				fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Target)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&only, "only", nil, "List only checks whose name starts with one of these prefixes")
	return cmd
}
