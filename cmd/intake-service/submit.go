package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/schema"
	"github.com/devcatalyst/intake-service/internal/validator"
	"github.com/devcatalyst/intake-service/pkg/client"
)

func serverURL() string {
	if url := os.Getenv("INTAKE_SERVER_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func submitCmd() *cobra.Command {
	var (
		server      string
		schemaPath  string
		journalPath string
	)

	cmd := &cobra.Command{
		Use:   "submit <answers.json>",
		Short: "Validate an answer file locally and submit it",
		Long: `Reads a JSON object keyed by question id, validates it against the form,
drops answers to hidden sections, journals it locally and posts it once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var answers models.AnswerSet
			if err := json.Unmarshal(data, &answers); err != nil {
				return fmt.Errorf("parse answers: %w", err)
			}

			form, err := schema.Load(schemaPath)
			if err != nil {
				return err
			}

			draft := client.NewDraft(form, validator.New())
			for id, v := range answers {
				draft.Set(id, v)
			}
			if !draft.Validate() {
				errs := draft.Errors()
				ids := make([]string, 0, len(errs))
				for id := range errs {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", id, errs[id])
				}
				return fmt.Errorf("%d invalid answers", len(errs))
			}

			var opts []client.Option
			if journalPath != "" {
				journal, err := client.OpenJournal(journalPath)
				if err != nil {
					return err
				}
				defer journal.Close()
				opts = append(opts, client.WithJournal(journal))
			}

			ack, err := client.New(server, opts...).Submit(cmd.Context(), draft.Payload())
			if err != nil {
				var submitErr *client.SubmitError
				if errors.As(err, &submitErr) && submitErr.Reason == client.ReasonNetwork {
					return fmt.Errorf("could not reach %s: %w", server, err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "submitted %s\n", ack.SubmissionID)
			if ack.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), ack.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", serverURL(), "Intake service base URL")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Form schema file (defaults to the built-in form)")
	cmd.Flags().StringVar(&journalPath, "journal", ".intake/journal.db", "Local submission journal; empty disables it")
	return cmd
}
