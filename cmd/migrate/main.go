package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"qrscan_bot/migrations"
)

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the scan history database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOrDefault("DATABASE_PATH", "./data/qrscan.db"), "path to sqlite database")

	rootCmd.AddCommand(
		providerCmd("up", "Migrate to the latest version", func(ctx context.Context, p *goose.Provider) error {
			res, err := p.Up(ctx)
			for _, r := range res {
				fmt.Println(r)
			}
			return err
		}),
		providerCmd("up-one", "Migrate one version up", func(ctx context.Context, p *goose.Provider) error {
			r, err := p.UpByOne(ctx)
			if r != nil {
				fmt.Println(r)
			}
			return err
		}),
		providerCmd("down", "Roll back one version", func(ctx context.Context, p *goose.Provider) error {
			r, err := p.Down(ctx)
			if r != nil {
				fmt.Println(r)
			}
			return err
		}),
		providerCmd("status", "Show migration status", func(ctx context.Context, p *goose.Provider) error {
			statuses, err := p.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				applied := "pending"
				if s.State == goose.StateApplied {
					applied = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Printf("%-24s %s\n", applied, s.Source.Path)
			}
			return nil
		}),
		providerCmd("version", "Show current version", func(ctx context.Context, p *goose.Provider) error {
			v, err := p.GetDBVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("version %d\n", v)
			return nil
		}),
		providerCmd("reset", "Roll back all migrations", func(ctx context.Context, p *goose.Provider) error {
			res, err := p.DownTo(ctx, 0)
			for _, r := range res {
				fmt.Println(r)
			}
			return err
		}),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func providerCmd(use, short string, run func(context.Context, *goose.Provider) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := sql.Open("sqlite", dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			p, err := migrations.NewProvider(db)
			if err != nil {
				return err
			}
			if err := run(cmd.Context(), p); err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			return nil
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
