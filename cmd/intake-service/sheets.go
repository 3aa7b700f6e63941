package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/devcatalyst/intake-service/internal/config"
	"github.com/devcatalyst/intake-service/internal/repositories"
	"github.com/devcatalyst/intake-service/pkg"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Inspect and provision tabs in the configured tabular store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tabs with their size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store repositories.TabularStore) error {
				sheets, err := store.ListSheets(ctx)
				if err != nil {
					return err
				}
				t := &table{headers: []string{"TITLE", "COLUMNS", "ROWS", "HEADERS"}}
				for _, s := range sheets {
					headers, err := store.HeaderRow(ctx, s.Title)
					if err != nil {
						return err
					}
					t.add(s.Title, strconv.Itoa(s.ColumnCount), strconv.Itoa(s.RowCount), strconv.Itoa(len(headers)))
				}
				return t.render(cmd.OutOrStdout())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <title>",
		Short: "Create an empty tab, such as a track's score sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store repositories.TabularStore) error {
				if err := store.CreateSheet(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %q\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

func withStore(ctx context.Context, fn func(context.Context, repositories.TabularStore) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := pkg.OpenTabularStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}
