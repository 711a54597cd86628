package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"qrscan_bot/internal/config"
	"qrscan_bot/internal/decoder"
	"qrscan_bot/internal/logging"
	"qrscan_bot/internal/model"
	"qrscan_bot/internal/present"
	"qrscan_bot/internal/scan"
	"qrscan_bot/internal/storage"
)

// localChatID owns the scans recorded from the command line.
const localChatID = 0

type app struct {
	out    io.Writer
	dbPath string
	cfg    *config.Config
	log    *slog.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           "qrscan",
		Short:         "Decode QR codes and barcodes from image files and browse the scan history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadLocal()
			if err != nil {
				return err
			}
			if a.dbPath != "" {
				cfg.DatabasePath = a.dbPath
			}
			a.cfg = cfg
			a.log = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (default from DATABASE_PATH)")
	rootCmd.SetOut(out)

	rootCmd.AddCommand(a.scanCmd(), a.historyCmd(), a.showCmd(), a.deleteCmd())
	return rootCmd
}

func (a *app) openStore() (*storage.SQLite, error) {
	if dir := filepath.Dir(a.cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return storage.NewSQLite(a.cfg.DatabasePath)
}

func (a *app) scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>...",
		Short: "Decode image files and record the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			dec := decoder.New(nil, a.cfg.MaxImageBytes)
			rec := scan.NewRecorder(store)

			var failed int
			for _, path := range args {
				payload, err := dec.DecodeFile(path)
				if errors.Is(err, decoder.ErrNoCode) {
					fmt.Fprintf(a.out, "%s: no QR code found\n", path)
					failed++
					continue
				}
				if err != nil {
					a.log.Debug("decode file", "path", path, "error", err)
					fmt.Fprintf(a.out, "%s: failed to decode QR code: %v\n", path, err)
					failed++
					continue
				}

				sc, err := rec.Record(cmd.Context(), localChatID, payload)
				if err != nil {
					return err
				}
				writeView(a.out, sc, present.Result(sc))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d images had no readable code", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var tag, search string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := scan.ParseTag(tag)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			scans, err := store.ListScans(cmd.Context(), localChatID, model.ScanQuery{Tag: t, Search: search})
			if err != nil {
				return err
			}
			if len(scans) == 0 {
				total, err := store.CountScans(cmd.Context(), localChatID)
				if err != nil {
					return err
				}
				if total == 0 {
					fmt.Fprintln(a.out, present.NoHistory)
				} else {
					fmt.Fprintln(a.out, present.NoMatches)
				}
				return nil
			}
			for i := range scans {
				sc := &scans[i]
				fmt.Fprintf(a.out, "%4d  %-7s  %s  %s\n", sc.ID, sc.Tag, sc.DateTime, present.DisplayDetails(sc))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "all", "category: all, text, website, wifi")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text to look for")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one scan with its copy and share texts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid scan ID %q", args[0])
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sc, err := store.GetScan(cmd.Context(), localChatID, id)
			if err != nil {
				return err
			}
			writeView(a.out, sc, present.Item(sc))
			fmt.Fprintf(a.out, "Copy:  %s\n", present.CopyText(sc))
			fmt.Fprintf(a.out, "Share: %s\n", present.ShareText(sc))
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid scan ID %q", args[0])
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			deleted, err := store.DeleteScan(cmd.Context(), localChatID, id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("scan #%d not found", id)
			}
			fmt.Fprintf(a.out, "Scan #%d deleted.\n", id)
			return nil
		},
	}
}

func writeView(w io.Writer, sc *model.Scan, v present.View) {
	fmt.Fprintf(w, "#%d [%s] %s\n", sc.ID, sc.Tag, v.Title)
	if v.Body != "" {
		fmt.Fprintln(w, v.Body)
	}
	var labels []string
	for _, a := range v.Actions {
		if a == present.ActionCancel {
			continue
		}
		labels = append(labels, a.Label())
	}
	fmt.Fprintf(w, "Actions: %s\n", strings.Join(labels, ", "))
}
