package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"LawExporter/internal/app"
	"LawExporter/internal/config"
	"LawExporter/internal/logging"
)

type flags struct {
	configPath     string
	input          string
	output         string
	cache          string
	idAttribute    string
	logLevel       string
	translate      bool
	includeContext bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "lawexporter",
		Short: "Export in-force articles of LEGI codes as context-annotated text files",
		Long: `lawexporter reads LEGI code exports (XML, optionally gzip-compressed),
and writes one text file per in-force article to <output>/<code name>/<article id>.txt.

When translation is enabled, each article is also translated through the configured
providers (Ollama, OpenAI-compatible), caching every translation on disk so later
runs never ask twice.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, f, &cfg)

			logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Run(ctx); err != nil {
				logger.Error("application stopped", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML configuration file (default $LAW_EXPORTER_CONFIG)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "directory holding the code exports")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "directory receiving the artifacts")
	cmd.Flags().StringVar(&f.cache, "cache", "", "translation cache directory")
	cmd.Flags().StringVar(&f.idAttribute, "id-attribute", "", "article attribute used as identifier (cid or id)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().BoolVarP(&f.translate, "translate", "t", false, "translate every article")
	cmd.Flags().BoolVar(&f.includeContext, "with-context", false, "render the heading chain of each article")

	return cmd
}

// applyFlags overrides configuration with the flags explicitly set on the command line.
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input.Dir = f.input
	}
	if changed("output") {
		cfg.Output.Dir = f.output
	}
	if changed("cache") {
		cfg.Translation.CacheDir = f.cache
	}
	if changed("id-attribute") {
		cfg.Export.IDAttribute = f.idAttribute
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("translate") {
		cfg.Translation.Enabled = f.translate
	}
	if changed("with-context") {
		cfg.Export.IncludeContext = f.includeContext
	}
}
