package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/pkg/client"
	"github.com/devcatalyst/intake-service/pkg/dashboard"
)

type reviewOptions struct {
	server     string
	password   string
	statusPath string
}

func (o *reviewOptions) fetch(ctx context.Context) ([]models.CandidateAggregate, error) {
	c := client.New(o.server)
	if _, err := c.Login(ctx, o.password); err != nil {
		return nil, fmt.Errorf("dashboard login: %w", err)
	}
	return c.FetchResponses(ctx)
}

func (o *reviewOptions) tracker() (*dashboard.Tracker, func() error, error) {
	store, err := dashboard.OpenStatusStore(o.statusPath)
	if err != nil {
		return nil, nil, err
	}
	return dashboard.NewTracker(store), store.Close, nil
}

func reviewCmd() *cobra.Command {
	opts := &reviewOptions{}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Browse candidates and keep a local shortlist",
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", serverURL(), "Intake service base URL")
	cmd.PersistentFlags().StringVar(&opts.password, "password", os.Getenv("DASHBOARD_PASSWORD"), "Dashboard password")
	cmd.PersistentFlags().StringVar(&opts.statusPath, "statuses", ".intake/review.db", "Local review status database")

	cmd.AddCommand(reviewListCmd(opts), reviewOpenCmd(opts), reviewMarkCmd(opts), reviewSummaryCmd(opts))
	return cmd
}

func reviewListCmd(opts *reviewOptions) *cobra.Command {
	var (
		query  dashboard.Query
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidates, newest first unless --sort is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				s, err := models.ParseReviewStatus(status)
				if err != nil {
					return err
				}
				query.Status = s
			}

			records, err := opts.fetch(cmd.Context())
			if err != nil {
				return err
			}
			tracker, closeStore, err := opts.tracker()
			if err != nil {
				return err
			}
			defer closeStore()
			statuses, err := tracker.Statuses(cmd.Context())
			if err != nil {
				return err
			}

			visible := dashboard.Apply(dashboard.Newest(records), query, statuses)
			scoreKeys := scoreColumns(visible)

			t := &table{
				title:   fmt.Sprintf("%s (%d)", tabTitle(query), len(visible)),
				headers: append([]string{"KEY", "NAME", "ROLL NUMBER", "BRANCH", "TRACK"}, scoreKeys...),
			}
			t.headers = append(t.headers, "STATUS")
			for _, rec := range visible {
				cells := []string{
					dashboard.Key(rec),
					rec.Identity[models.FieldFullName],
					rec.Identity[models.FieldRollNumber],
					rec.Identity[models.FieldBranch],
					rec.Identity[models.FieldSelectedTrack],
				}
				for _, k := range scoreKeys {
					v, ok := rec.Get(k)
					if !ok {
						v = "-"
					}
					cells = append(cells, v)
				}
				cells = append(cells, renderStatus(dashboard.StatusOf(rec, statuses)))
				t.add(cells...)
			}
			return t.render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&query.Tab, "tab", dashboard.TabAll, "Overview, All Responses, or a track name")
	cmd.Flags().StringVar(&status, "status", "", "Filter by review status instead of tab")
	cmd.Flags().StringVar(&query.Search, "search", "", "Case-insensitive text search")
	cmd.Flags().StringVar(&query.SortKey, "sort", "", "Field key to sort by")
	cmd.Flags().BoolVar(&query.Desc, "desc", false, "Sort descending")
	return cmd
}

func tabTitle(q dashboard.Query) string {
	if q.Status != "" {
		return "Status: " + string(q.Status)
	}
	if q.Tab == "" {
		return dashboard.TabAll
	}
	return q.Tab
}

func scoreColumns(records []models.CandidateAggregate) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for k := range rec.Scores {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func reviewOpenCmd(opts *reviewOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open <key>",
		Short: "Mark a pending candidate as viewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeStore, err := opts.tracker()
			if err != nil {
				return err
			}
			defer closeStore()
			status, err := tracker.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], renderStatus(status))
			return nil
		},
	}
}

func reviewMarkCmd(opts *reviewOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <key> <accepted|rejected|viewed|pending>",
		Short: "Set a candidate's review status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := models.ParseReviewStatus(args[1])
			if err != nil {
				return err
			}
			tracker, closeStore, err := opts.tracker()
			if err != nil {
				return err
			}
			defer closeStore()

			switch status {
			case models.StatusAccepted:
				err = tracker.Accept(cmd.Context(), args[0])
			case models.StatusRejected:
				err = tracker.Reject(cmd.Context(), args[0])
			default:
				err = tracker.Mark(cmd.Context(), args[0], status)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], renderStatus(status))
			return nil
		},
	}
}

func reviewSummaryCmd(opts *reviewOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals and branch and track distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.fetch(cmd.Context())
			if err != nil {
				return err
			}
			s := dashboard.Summarize(records)

			latest := s.Latest
			if latest == "" {
				latest = "N/A"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n%s %s\n\n",
				titleStyle.Render("Total responses:"), s.Total,
				titleStyle.Render("Latest response:"), latest)

			if err := countTable("Branch distribution", "BRANCH", s.Branches).render(cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return countTable("Track distribution", "TRACK", s.Tracks).render(cmd.OutOrStdout())
		},
	}
}

func countTable(title, label string, counts map[string]int) *table {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &table{title: title, headers: []string{label, "COUNT"}}
	for _, k := range keys {
		t.add(k, strconv.Itoa(counts[k]))
	}
	return t
}
