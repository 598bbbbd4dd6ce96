package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pulselab/brandtune/internal/config"
	"github.com/pulselab/brandtune/internal/db"
	"github.com/pulselab/brandtune/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect persisted pipeline runs",
	Long: `runs queries the runs recorded in PostgreSQL when database_url is set.
list shows recent runs, show prints one run's topics and songs, and
delete removes a run with everything attached to it.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			runs, err := database.Runs().List(ctx, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tSTARTED\tDOCS\tTOPICS\tPRODUCED\tSKIPPED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%d\t%d\n",
					run.ID, run.StartedAt.Format("2006-01-02 15:04:05"),
					run.Documents, run.TopicsFound, run.TopicsRequested,
					run.SongsProduced, run.SongsSkipped)
			}
			return w.Flush()
		})
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the topics and songs of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("parsing run ID: %w", err)
		}

		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			run, err := database.Runs().Get(ctx, id)
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("run %s not found", id)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Run %s started %s: %d documents, %d/%d songs produced\n\n",
				run.ID, run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Documents, run.SongsProduced, run.TopicsFound)

			recs, err := database.Topics().GetForRun(ctx, run.ID)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				fmt.Printf("[%d] %s (%d mentions, %s)\n", rec.TopicIndex, rec.Name, rec.Mentions, rec.Status)
				fmt.Printf("    %s\n", rec.Description)
				if rec.SkipReason != "" {
					fmt.Printf("    skipped: %s\n", rec.SkipReason)
				}
				if rec.Status != report.StatusProduced {
					continue
				}
				song, err := database.Songs().GetForTopic(ctx, rec.ID)
				if errors.Is(err, db.ErrNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				fmt.Printf("    song: %s (%dms, %s)\n", song.Path, song.DurationMs, song.Format)
			}
			return nil
		})
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its topics and songs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("parsing run ID: %w", err)
		}

		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			if err := database.Runs().Delete(ctx, id); errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("run %s not found", id)
			} else if err != nil {
				return err
			}
			fmt.Println("Deleted run", id)
			return nil
		})
	},
}

// withDatabase opens the configured database around one operation.
func withDatabase(cmd *cobra.Command, fn func(context.Context, *db.DB) error) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database_url is not configured")
	}

	ctx := cmd.Context()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(ctx, database)
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "maximum runs to list")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}
