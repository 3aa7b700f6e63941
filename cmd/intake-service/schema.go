package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devcatalyst/intake-service/internal/schema"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect form schemas",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "lint [path]",
		Short: "Check a form schema file, or the built-in form when no path is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			form, err := schema.Load(path)
			if err != nil {
				return err
			}

			questions := 0
			for _, s := range form.Sections {
				questions += len(s.Questions)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d sections, %d questions, %d tracks)\n",
				form.ID, len(form.Sections), questions, len(form.Tracks))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "columns [path]",
		Short: "Print the flat row columns a schema writes, in order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			form, err := schema.Load(path)
			if err != nil {
				return err
			}
			for _, c := range schema.Columns(form) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	})

	return cmd
}
