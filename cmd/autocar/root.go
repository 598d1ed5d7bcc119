package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/autocaravecchauffeur/autocar"
	"github.com/autocaravecchauffeur/autocar/content"
)

type ctxKey string

const envKey ctxKey = "env"

// env is the resolved configuration shared by the subcommands.
type env struct {
	cfg    autocar.SiteConfig
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "autocar",
		Short:         "Autocaravecchauffeur website and content tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			cfg, err := autocar.LoadConfig(v)
			if err != nil {
				return err
			}
			logger, err := autocar.NewLogger(cfg.LogLevel, cfg.LogDev)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey, &env{cfg: cfg, logger: logger}))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml|yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPostsCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newInboxCmd())
	cmd.AddCommand(newVersionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getEnv(cmd *cobra.Command) *env {
	e, _ := cmd.Context().Value(envKey).(*env)
	if e == nil {
		panic("autocar: configuration not loaded")
	}
	return e
}

// openRepository builds the content repository of the configured backend.
// The returned func releases the source.
func openRepository(cmd *cobra.Command) (*content.Repository, func(), error) {
	e := getEnv(cmd)
	src, err := autocar.OpenSource(e.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open content source: %w", err)
	}
	closeFn := func() {}
	if cl, ok := src.(interface{ Close() error }); ok {
		closeFn = func() { _ = cl.Close() }
	}
	return content.NewRepository(src, e.logger.Named("content")), closeFn, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the autocar version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "autocar %s\n", version)
		},
	}
}
