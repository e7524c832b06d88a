package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/pagepress"
	"github.com/eringen/pagepress/content/sqltable"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the index and serve the site",
	Long: `serve builds the publication index and refuses to start if that fails.
Send SIGHUP to rebuild the index while running; a failed rebuild keeps the
previous index serving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := pagepress.New(cfg, pagepress.WithLogger(logger))
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return app.Start(ctx)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Build the index once and report the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := pagepress.New(cfg, pagepress.WithLogger(logger))
		if err != nil {
			return err
		}
		defer app.Close()

		n, err := app.Rebuild(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d published items\n", n)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Copy a content directory into the SQLite table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := sqltable.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer table.Close()

		n, err := table.ImportDir(cmd.Context(), os.DirFS(args[0]))
		if err != nil {
			return err
		}
		logger.Info().Int("rows", n).Str("database", cfg.DatabasePath).Msg("import complete")
		return nil
	},
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Print the sitemap to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := pagepress.New(cfg, pagepress.WithLogger(logger))
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		if _, err := app.Rebuild(ctx); err != nil {
			return err
		}
		doc, err := app.Site.Sitemap(ctx)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(doc)
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pagepress version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pagepress %s\n", version)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
}
