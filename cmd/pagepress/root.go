package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/pagepress"
)

var (
	cfgFile string
	cfg     pagepress.SiteConfig
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pagepress",
	Short: "A personal publishing engine for markdown content",
	Long: `pagepress serves a directory (or SQLite table) of markdown files with
frontmatter as a home page, one page per published item, a sitemap and a feed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./pagepress.yaml)")
	flags.String("content-dir", "", "directory holding content files")
	flags.String("database-path", "", "SQLite database used by the sqlite source")
	flags.String("source", "", `content source: "dir" or "sqlite"`)
	flags.String("mode", "", `store mode: "snapshot" or "ondemand"`)
	flags.String("sort-by", "", `index order: "published" or "latest"`)
	flags.String("url", "", "canonical site root URL")
	flags.String("log-format", "console", `log format: "console" or "json"`)
	flags.BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, checkCmd, importCmd, sitemapCmd, versionCmd)
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	v.SetDefault("name", "Blog")
	v.SetDefault("source", "dir")
	v.SetDefault("mode", "snapshot")
	v.SetDefault("sort_by", "published")
	v.SetDefault("content_dir", "content")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pagepress")
	}

	v.SetEnvPrefix("PAGEPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for _, name := range []string{"content-dir", "database-path", "source", "mode", "sort-by", "url", "log-format", "verbose"} {
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), cmd.Flag(name)); err != nil {
			return err
		}
	}
	if cmd.Flag("addr") != nil {
		if err := v.BindPFlag("addr", cmd.Flag("addr")); err != nil {
			return err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	logger = pagepress.NewLogger(v.GetString("log_format"), v.GetBool("verbose"))
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug().Str("file", used).Msg("config loaded")
	}
	return nil
}
