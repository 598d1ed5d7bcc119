package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autocaravecchauffeur/autocar/content"
)

func newImportCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Load a content dataset into the SQLite content database",
		Long: "Reads categories, posts, vehicles and pricing options from a TOML dataset\n" +
			"(the format of the embedded fallback dataset) and upserts them into the\n" +
			"database served by the sqlite content backend.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)
			if dbPath == "" {
				dbPath = e.cfg.SQLitePath
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			ds, err := content.ParseDataset(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			src, err := content.NewSQLiteSource(dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			defer src.Close()

			stats, err := src.Import(cmd.Context(), ds)
			if err != nil {
				return err
			}
			e.logger.Info("dataset imported",
				zap.String("file", args[0]),
				zap.String("database", dbPath),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d categories, %d posts, %d vehicles, %d pricing options into %s\n",
				stats.Categories, stats.Posts, stats.Vehicles, stats.Pricing, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default content.sqlite_path)")
	return cmd
}
